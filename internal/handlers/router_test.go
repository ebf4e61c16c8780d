package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViacheslavGIT/MegaMart/internal/auth"
	"github.com/ViacheslavGIT/MegaMart/internal/events"
	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/shop"
	"github.com/ViacheslavGIT/MegaMart/internal/store/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	mem    *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mem := memory.New()
	tokens := auth.NewTokens([]byte("test"))
	router := NewRouter(Deps{
		Tokens:    tokens,
		Accounts:  shop.NewAccounts(mem.Users(), tokens, "admin@megamart.com"),
		Catalog:   shop.NewCatalog(mem.Products()),
		Favorites: shop.NewFavorites(mem.Users(), mem.Products()),
		Orders:    shop.NewOrders(mem.Orders(), mem.Products(), events.Discard{}),
	})
	return &testServer{t: t, router: router, mem: mem}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(email string) shop.Session {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"email": email, "password": "pw"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var session shop.Session
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &session))
	return session
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	session := s.register("admin@megamart.com")
	assert.True(t, session.IsAdmin)
	assert.NotEmpty(t, session.Token)

	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"email": "admin@megamart.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User exists", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@megamart.com", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[shop.Session](t, w).IsAdmin)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "nope@megamart.com", "password": "pw"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@megamart.com", "password": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodPost, "/api/auth/register", "", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterLongPassword(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name     string
		password string
	}{
		{"ascii over 72", strings.Repeat("a", 80)},
		{"multibyte over 72 bytes", strings.Repeat("й", 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"email": "long@megamart.com", "password": tt.password})
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/user/favorites"},
		{http.MethodPost, "/api/user/favorites/6560f1c2a3b4c5d6e7f80912"},
		{http.MethodPost, "/api/checkout"},
		{http.MethodGet, "/api/user/orders"},
		{http.MethodPost, "/api/admin/products"},
	}
	for _, rt := range routes {
		w := s.do(rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.path)
	}

	w := s.do(http.MethodGet, "/api/user/favorites", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProductListingAndAdmin(t *testing.T) {
	s := newTestServer(t)
	admin := s.register("admin@megamart.com")
	user := s.register("user@megamart.com")

	w := s.do(http.MethodGet, "/api/products/random", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	product := gin.H{"name": "Phone", "brand": "Acme", "category": "Smartphones", "price": 100, "off": 10}
	w = s.do(http.MethodPost, "/api/admin/products", user.Token, product)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/admin/products", admin.Token, gin.H{"name": "Bad", "price": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/admin/products", admin.Token, product)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Product](t, w)
	assert.False(t, created.ID.IsZero())

	w = s.do(http.MethodGet, "/api/products?page=1&limit=20", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[models.ProductPage](t, w)
	assert.EqualValues(t, 1, page.Total)
	assert.EqualValues(t, 1, page.Pages)

	w = s.do(http.MethodGet, "/api/products/filter?category=garden&brand=undefined", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[models.ProductPage](t, w)
	assert.Empty(t, page.Products)
	assert.EqualValues(t, 0, page.Total)
	assert.EqualValues(t, 0, page.Pages)

	w = s.do(http.MethodGet, "/api/products/filter?category=SMART", "", nil)
	assert.Len(t, decode[models.ProductPage](t, w).Products, 1)

	w = s.do(http.MethodGet, "/api/products/random", "", nil)
	assert.Equal(t, created.ID, decode[models.Product](t, w).ID)

	w = s.do(http.MethodGet, "/api/products/facets", "", nil)
	assert.Equal(t, models.Facets{Categories: []string{"Smartphones"}, Brands: []string{"Acme"}}, decode[models.Facets](t, w))

	w = s.do(http.MethodPut, "/api/admin/products/"+created.ID.Hex(), admin.Token, gin.H{"name": "Phone 2", "price": 90})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/products/"+created.ID.Hex(), "", nil)
	assert.Equal(t, "Phone 2", decode[models.Product](t, w).Name)

	w = s.do(http.MethodDelete, "/api/admin/products/"+created.ID.Hex(), admin.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/products/"+created.ID.Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoritesToggle(t *testing.T) {
	s := newTestServer(t)
	user := s.register("user@megamart.com")
	p := models.Product{Name: "Phone"}
	require.NoError(t, s.mem.Products().Create(t.Context(), &p))

	path := "/api/user/favorites/" + p.ID.Hex()
	w := s.do(http.MethodPost, path, user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Product](t, w), 1)

	w = s.do(http.MethodPost, path, user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = s.do(http.MethodPost, "/api/user/favorites/xyz", user.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid product ID", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodGet, "/api/user/favorites", user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestCheckoutAndOrders(t *testing.T) {
	s := newTestServer(t)
	user := s.register("user@megamart.com")

	body := gin.H{
		"user": gin.H{"name": "N", "phone": "1", "email": "e@x.y", "country": "UA", "city": "Kyiv", "address": "Main 1"},
		"products": []gin.H{{"id": "p1", "name": "Thing", "price": 100, "quantity": 2}},
		"total":    200,
	}
	w := s.do(http.MethodPost, "/api/checkout", user.Token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Order models.Order `json:"order"`
	}](t, w).Order
	assert.Equal(t, 200.0, created.Total)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "p1", created.Items[0].ProductID)

	w = s.do(http.MethodPost, "/api/checkout", user.Token, gin.H{"user": body["user"], "products": []gin.H{}, "total": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/user/orders", user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode[[]models.Order](t, w)
	require.Len(t, orders, 1)
	assert.Equal(t, created.ID, orders[0].ID)

	w = s.do(http.MethodGet, "/api/user/orders/"+created.ID.Hex(), user.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	other := s.register("other@megamart.com")
	w = s.do(http.MethodGet, "/api/user/orders/"+created.ID.Hex(), other.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutMinimalPayload(t *testing.T) {
	s := newTestServer(t)
	user := s.register("user@megamart.com")

	body := gin.H{"products": []gin.H{{"id": "p1", "price": 100, "quantity": 2}}, "total": 200}
	w := s.do(http.MethodPost, "/api/checkout", user.Token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[struct {
		Order models.Order `json:"order"`
	}](t, w).Order
	assert.Equal(t, 200.0, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, models.LineItem{ProductID: "p1", Price: 100, Quantity: 2}, order.Items[0])

	w = s.do(http.MethodGet, "/api/user/orders", user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Order](t, w), 1)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(requestIDHeader))
}

func TestCORSConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)
	cfg := corsConfig([]string{"https://shop.example"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://shop.example"}, cfg.AllowOrigins)
}
