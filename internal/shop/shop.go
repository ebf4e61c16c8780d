// Package shop holds the storefront's business operations: accounts,
// catalog, favorites and orders. Handlers translate its errors to HTTP.
package shop

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type ProductStore interface {
	List(ctx context.Context, f models.ProductFilter, skip, limit int64) ([]models.Product, int64, error)
	Count(ctx context.Context) (int64, error)
	// At returns the product at a zero-based position in natural order.
	At(ctx context.Context, offset int64) (*models.Product, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Facets(ctx context.Context) (models.Facets, error)
	// ReplaceAll drops every product and inserts products, assigning ids.
	ReplaceAll(ctx context.Context, products []models.Product) error
}

type UserStore interface {
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	SetFavorites(ctx context.Context, id primitive.ObjectID, favorites []primitive.ObjectID) error
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	// ListByUser returns newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	GetForUser(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error)
}

// OrderPublisher is told about every persisted order.
type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, o *models.Order) error
}

// parseUserID treats a token subject that is not an ObjectId as an
// unknown user.
func parseUserID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// resolveProducts returns the products for ids in the order given,
// dropping ids that no longer resolve.
func resolveProducts(ctx context.Context, products ProductStore, ids []primitive.ObjectID) ([]models.Product, error) {
	found, err := products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
