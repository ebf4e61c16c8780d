// Package client is a typed client for the MegaMart HTTP API. Every
// endpoint decodes into one fixed response type; anything else is
// reported as ErrMalformedResponse.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
)

var ErrMalformedResponse = errors.New("malformed response")

// APIError is a non-2xx reply.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token sent on every request.
func (c *Client) SetToken(token string) { c.token = token }

type Session struct {
	Token   string `json:"token"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type CheckoutRequest struct {
	User     models.Address     `json:"user"`
	Products []CheckoutLineItem `json:"products"`
	Total    float64            `json:"total"`
}

type CheckoutLineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type checkoutResponse struct {
	Order *models.Order `json:"order"`
}

func (c *Client) Register(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{"email": email, "password": password}, &s)
	if err != nil {
		return nil, err
	}
	return &s, requireField(s.Token != "", "token")
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, &s)
	if err != nil {
		return nil, err
	}
	return &s, requireField(s.Token != "", "token")
}

func (c *Client) Products(ctx context.Context, page, limit int64) (*models.ProductPage, error) {
	q := url.Values{}
	q.Set("page", strconv.FormatInt(page, 10))
	q.Set("limit", strconv.FormatInt(limit, 10))
	return c.productPage(ctx, "/api/products?"+q.Encode())
}

func (c *Client) Filter(ctx context.Context, f models.ProductFilter, page, limit int64) (*models.ProductPage, error) {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Brand != "" {
		q.Set("brand", f.Brand)
	}
	q.Set("page", strconv.FormatInt(page, 10))
	q.Set("limit", strconv.FormatInt(limit, 10))
	return c.productPage(ctx, "/api/products/filter?"+q.Encode())
}

func (c *Client) productPage(ctx context.Context, path string) (*models.ProductPage, error) {
	var raw struct {
		Products *[]models.Product `json:"products"`
		Total    *int64            `json:"total"`
		Page     *int64            `json:"page"`
		Pages    *int64            `json:"pages"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	if raw.Products == nil || raw.Total == nil || raw.Page == nil || raw.Pages == nil {
		return nil, fmt.Errorf("%w: product page is missing fields", ErrMalformedResponse)
	}
	return &models.ProductPage{Products: *raw.Products, Total: *raw.Total, Page: *raw.Page, Pages: *raw.Pages}, nil
}

// Random returns nil when the catalog is empty.
func (c *Client) Random(ctx context.Context) (*models.Product, error) {
	var p *models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/random", nil, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *Client) Product(ctx context.Context, id string) (*models.Product, error) {
	var p *models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product is null", ErrMalformedResponse)
	}
	return p, nil
}

func (c *Client) Facets(ctx context.Context) (*models.Facets, error) {
	var f models.Facets
	if err := c.do(ctx, http.MethodGet, "/api/products/facets", nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) Favorites(ctx context.Context) ([]models.Product, error) {
	var list *[]models.Product
	if err := c.do(ctx, http.MethodGet, "/api/user/favorites", nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, fmt.Errorf("%w: favorites is not a list", ErrMalformedResponse)
	}
	return *list, nil
}

func (c *Client) ToggleFavorite(ctx context.Context, productID string) ([]models.Product, error) {
	var list *[]models.Product
	if err := c.do(ctx, http.MethodPost, "/api/user/favorites/"+url.PathEscape(productID), nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, fmt.Errorf("%w: favorites is not a list", ErrMalformedResponse)
	}
	return *list, nil
}

func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	var resp checkoutResponse
	if err := c.do(ctx, http.MethodPost, "/api/checkout", req, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, fmt.Errorf("%w: checkout returned no order", ErrMalformedResponse)
	}
	return resp.Order, nil
}

func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var list *[]models.Order
	if err := c.do(ctx, http.MethodGet, "/api/user/orders", nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		return nil, fmt.Errorf("%w: orders is not a list", ErrMalformedResponse)
	}
	return *list, nil
}

// DialChat opens the chat socket.
func (c *Client) DialChat(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(c.baseURL + "/ws")
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial chat: %w", err)
	}
	return conn, nil
}

func requireField(ok bool, name string) error {
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrMalformedResponse, name)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: %s %s: trailing data", ErrMalformedResponse, method, path)
	}
	return nil
}
