package storefront

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ViacheslavGIT/MegaMart/internal/auth"
	"github.com/ViacheslavGIT/MegaMart/internal/models"
)

func product(name string, price float64) models.Product {
	return models.Product{ID: primitive.NewObjectID(), Name: name, Price: price}
}

func TestCartOperations(t *testing.T) {
	a, b := product("a", 10.1), product("b", 0.2)
	var c Cart

	c.Add(a)
	c.Add(b)
	c.Add(a)
	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, 3, c.TotalQuantity())
	assert.Equal(t, "20.4", c.TotalPrice().String())

	c.Decrease(a.ID.Hex())
	assert.Equal(t, 1, c.Items[0].Quantity)
	c.Decrease(a.ID.Hex())
	require.Len(t, c.Items, 1)
	assert.Equal(t, "b", c.Items[0].Product.Name)

	c.Add(a)
	c.Remove(b.ID.Hex())
	require.Len(t, c.Items, 1)
	assert.Equal(t, "a", c.Items[0].Product.Name)

	c.Clear()
	assert.Empty(t, c.Items)
	assert.True(t, c.TotalPrice().IsZero())
}

func issueToken(t *testing.T, email string, admin bool) string {
	t.Helper()
	token, err := auth.NewTokens([]byte("s")).Issue(auth.Identity{ID: "u1", Email: email, IsAdmin: admin})
	require.NoError(t, err)
	return token
}

func TestNewSession(t *testing.T) {
	s, err := NewSession(issueToken(t, "admin@megamart.com", true))
	require.NoError(t, err)
	assert.Equal(t, "admin@megamart.com", s.Email)
	assert.True(t, s.IsAdmin)

	_, err = NewSession("not.a.token")
	assert.Error(t, err)
	_, err = NewSession("garbage")
	assert.Error(t, err)
}

func TestStatePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, s.Session())
	assert.Empty(t, s.Cart.Items)

	require.NoError(t, s.SignIn(issueToken(t, "u@x.y", false)))
	s.Cart.Add(product("a", 1))
	require.NoError(t, s.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded.Session())
	assert.Equal(t, "u@x.y", loaded.Session().Email)
	assert.Equal(t, s.Cart, loaded.Cart)

	loaded.SignOut()
	loaded.Cart.Clear()
	require.NoError(t, loaded.Save())
	again, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, again.Session())
	assert.Empty(t, again.Cart.Items)
}

func TestLoadDiscardsBadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"junk","cart":{"items":[]}}`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, s.Session())
}

type fakeFetcher struct {
	total int
	err   error
	calls []models.ProductFilter
}

func (f *fakeFetcher) Filter(_ context.Context, filter models.ProductFilter, page, limit int64) (*models.ProductPage, error) {
	f.calls = append(f.calls, filter)
	if f.err != nil {
		return nil, f.err
	}
	start := (page - 1) * limit
	var out []models.Product
	for i := start; i < start+limit && i < int64(f.total); i++ {
		out = append(out, product("p", 1))
	}
	total := int64(f.total)
	return &models.ProductPage{Products: out, Total: total, Page: page, Pages: (total + limit - 1) / limit}, nil
}

func TestBrowserPaging(t *testing.T) {
	f := &fakeFetcher{total: 45}
	b := NewBrowser(f)
	ctx := context.Background()

	b.Reload(ctx, models.ProductFilter{Category: "phones"})
	assert.Len(t, b.Products(), 20)
	assert.True(t, b.HasMore())

	assert.True(t, b.LoadMore(ctx))
	assert.True(t, b.LoadMore(ctx))
	assert.Len(t, b.Products(), 45)
	assert.False(t, b.HasMore())
	assert.False(t, b.LoadMore(ctx))
	assert.Len(t, f.calls, 3)

	b.Reload(ctx, models.ProductFilter{Brand: "acme"})
	assert.Len(t, b.Products(), 20)
	assert.Equal(t, models.ProductFilter{Brand: "acme"}, b.Filter())
}

func TestBrowserEmptyResult(t *testing.T) {
	b := NewBrowser(&fakeFetcher{})
	b.Reload(context.Background(), models.ProductFilter{})
	assert.Empty(t, b.Products())
	assert.False(t, b.HasMore())
}

func TestBrowserErrorDegrades(t *testing.T) {
	f := &fakeFetcher{total: 45}
	b := NewBrowser(f)
	b.Reload(context.Background(), models.ProductFilter{})
	require.Len(t, b.Products(), 20)

	f.err = errors.New("offline")
	assert.True(t, b.LoadMore(context.Background()))
	assert.Empty(t, b.Products())
	assert.False(t, b.HasMore())
}
