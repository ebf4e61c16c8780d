// Package memory is an in-memory implementation of the shop stores, used
// for local runs without a database and in tests.
package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/store"
)

// Store is safe for concurrent use via an internal RWMutex. Products keep
// insertion order, like a collection scan without a sort.
type Store struct {
	mu       sync.RWMutex
	products []models.Product
	users    map[primitive.ObjectID]models.User
	orders   []models.Order
}

func New() *Store {
	return &Store{users: make(map[primitive.ObjectID]models.User)}
}

// Products, Users and Orders return views of the same store typed for
// each shop dependency.
func (s *Store) Products() *Products { return &Products{s} }
func (s *Store) Users() *Users       { return &Users{s} }
func (s *Store) Orders() *Orders     { return &Orders{s} }

type Products struct{ s *Store }

func matches(p models.Product, f models.ProductFilter) bool {
	contains := func(field, sub string) bool {
		return strings.Contains(strings.ToLower(field), strings.ToLower(sub))
	}
	if f.Category != "" && !contains(p.Category, f.Category) {
		return false
	}
	if f.Brand != "" && !contains(p.Brand, f.Brand) {
		return false
	}
	return true
}

func (p *Products) List(_ context.Context, f models.ProductFilter, skip, limit int64) ([]models.Product, int64, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	var hits []models.Product
	for _, prod := range p.s.products {
		if matches(prod, f) {
			hits = append(hits, prod)
		}
	}
	total := int64(len(hits))
	if skip >= total {
		return []models.Product{}, total, nil
	}
	end := total
	if limit > 0 && skip+limit < total {
		end = skip + limit
	}
	out := make([]models.Product, end-skip)
	copy(out, hits[skip:end])
	return out, total, nil
}

func (p *Products) Count(_ context.Context) (int64, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	return int64(len(p.s.products)), nil
}

func (p *Products) At(_ context.Context, offset int64) (*models.Product, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	if offset < 0 || offset >= int64(len(p.s.products)) {
		return nil, store.ErrNotFound
	}
	prod := p.s.products[offset]
	return &prod, nil
}

func (p *Products) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	for _, prod := range p.s.products {
		if prod.ID == id {
			return &prod, nil
		}
	}
	return nil, store.ErrNotFound
}

func (p *Products) GetMany(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := []models.Product{}
	for _, prod := range p.s.products {
		if want[prod.ID] {
			out = append(out, prod)
		}
	}
	return out, nil
}

func (p *Products) Create(_ context.Context, prod *models.Product) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if prod.ID.IsZero() {
		prod.ID = primitive.NewObjectID()
	}
	p.s.products = append(p.s.products, *prod)
	return nil
}

func (p *Products) Update(_ context.Context, prod *models.Product) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for i := range p.s.products {
		if p.s.products[i].ID == prod.ID {
			p.s.products[i] = *prod
			return nil
		}
	}
	return store.ErrNotFound
}

func (p *Products) Delete(_ context.Context, id primitive.ObjectID) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for i := range p.s.products {
		if p.s.products[i].ID == id {
			p.s.products = append(p.s.products[:i], p.s.products[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (p *Products) ReplaceAll(_ context.Context, products []models.Product) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.products = make([]models.Product, 0, len(products))
	for i := range products {
		products[i].ID = primitive.NewObjectID()
		p.s.products = append(p.s.products, products[i])
	}
	return nil
}

func (p *Products) Facets(_ context.Context) (models.Facets, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	categories := map[string]bool{}
	brands := map[string]bool{}
	for _, prod := range p.s.products {
		if prod.Category != "" {
			categories[prod.Category] = true
		}
		if prod.Brand != "" {
			brands[prod.Brand] = true
		}
	}
	return models.Facets{Categories: sortedKeys(categories), Brands: sortedKeys(brands)}, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type Users struct{ s *Store }

func (u *Users) ByEmail(_ context.Context, email string) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	for _, user := range u.s.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, store.ErrNotFound
}

func (u *Users) ByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneUser(user), nil
}

func (u *Users) Create(_ context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, existing := range u.s.users {
		if existing.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	u.s.users[user.ID] = *cloneUser(*user)
	return nil
}

func (u *Users) SetFavorites(_ context.Context, id primitive.ObjectID, favorites []primitive.ObjectID) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Favorites = append([]primitive.ObjectID{}, favorites...)
	u.s.users[id] = user
	return nil
}

// Delete removes a user. Only tests need it, to simulate a deleted account.
func (u *Users) Delete(id primitive.ObjectID) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	delete(u.s.users, id)
}

func cloneUser(user models.User) *models.User {
	user.Favorites = append([]primitive.ObjectID{}, user.Favorites...)
	return &user
}

type Orders struct{ s *Store }

func (o *Orders) Create(_ context.Context, order *models.Order) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	o.s.orders = append(o.s.orders, cloneOrder(*order))
	return nil
}

func (o *Orders) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	out := []models.Order{}
	for _, order := range o.s.orders {
		if order.UserID == userID {
			out = append(out, cloneOrder(order))
		}
	}
	// Ties on createdAt fall back to the id, which grows with insertion.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) > 0
	})
	return out, nil
}

func (o *Orders) GetForUser(_ context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	for _, order := range o.s.orders {
		if order.ID == orderID && order.UserID == userID {
			c := cloneOrder(order)
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func cloneOrder(order models.Order) models.Order {
	order.Items = append([]models.LineItem{}, order.Items...)
	return order
}
