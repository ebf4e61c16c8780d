package shop

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/store"
)

type Favorites struct {
	users    UserStore
	products ProductStore
}

func NewFavorites(users UserStore, products ProductStore) *Favorites {
	return &Favorites{users: users, products: products}
}

func (f *Favorites) user(ctx context.Context, userID string) (*models.User, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %w", err)
	}
	u, err := f.users.ByID(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (f *Favorites) List(ctx context.Context, userID string) ([]models.Product, error) {
	u, err := f.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resolveProducts(ctx, f.products, u.Favorites)
}

// Toggle removes productID from the user's favorites if present (first
// match only), otherwise appends it.
func (f *Favorites) Toggle(ctx context.Context, userID, productID string) ([]models.Product, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product ID", ErrInvalidInput)
	}
	u, err := f.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	favorites := toggle(u.Favorites, pid)
	if err := f.users.SetFavorites(ctx, u.ID, favorites); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, fmt.Errorf("save favorites: %w", err)
	}
	return resolveProducts(ctx, f.products, favorites)
}

func toggle(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids)+1)
	for i, existing := range ids {
		if existing == id {
			out = append(out, ids[:i]...)
			return append(out, ids[i+1:]...)
		}
	}
	out = append(out, ids...)
	return append(out, id)
}
