package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/store"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 200
)

type Catalog struct {
	products ProductStore
	randN    func(n int64) int64
}

func NewCatalog(products ProductStore) *Catalog {
	return &Catalog{products: products, randN: rand.Int64N}
}

// NormalizePage applies the listing defaults to out-of-range values.
func NormalizePage(page, limit int64) (int64, int64) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// normalizeFilter drops empty values and the literal "undefined" that
// browsers send for unset route params.
func normalizeFilter(f models.ProductFilter) models.ProductFilter {
	clean := func(v string) string {
		v = strings.TrimSpace(v)
		if v == "undefined" {
			return ""
		}
		return v
	}
	return models.ProductFilter{Category: clean(f.Category), Brand: clean(f.Brand)}
}

func (c *Catalog) List(ctx context.Context, page, limit int64) (*models.ProductPage, error) {
	return c.Filter(ctx, models.ProductFilter{}, page, limit)
}

func (c *Catalog) Filter(ctx context.Context, f models.ProductFilter, page, limit int64) (*models.ProductPage, error) {
	page, limit = NormalizePage(page, limit)
	products, total, err := c.products.List(ctx, normalizeFilter(f), (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &models.ProductPage{
		Products: products,
		Total:    total,
		Page:     page,
		Pages:    (total + limit - 1) / limit,
	}, nil
}

// Random picks a product by random skip offset. An empty catalog, or a
// product deleted between the count and the skip, yields nil.
func (c *Catalog) Random(ctx context.Context) (*models.Product, error) {
	count, err := c.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if count == 0 {
		return nil, nil
	}
	p, err := c.products.At(ctx, c.randN(count))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pick random product: %w", err)
	}
	return p, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("product %w", ErrNotFound)
	}
	p, err := c.products.Get(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("product %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (c *Catalog) Facets(ctx context.Context) (models.Facets, error) {
	f, err := c.products.Facets(ctx)
	if err != nil {
		return models.Facets{}, fmt.Errorf("load facets: %w", err)
	}
	return f, nil
}

func validateProduct(p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case p.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	case p.Off < 0 || p.Off > 100:
		return fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

func (c *Catalog) Create(ctx context.Context, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	p.ID = primitive.NilObjectID
	if err := c.products.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (c *Catalog) Update(ctx context.Context, id string, p *models.Product) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("product %w", ErrNotFound)
	}
	if err := validateProduct(p); err != nil {
		return err
	}
	p.ID = oid
	if err := c.products.Update(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("product %w", ErrNotFound)
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// ValidateProducts checks an import batch and trims names in place.
func ValidateProducts(products []models.Product) error {
	for i := range products {
		if err := validateProduct(&products[i]); err != nil {
			return fmt.Errorf("product %d: %w", i+1, err)
		}
	}
	return nil
}

// Import replaces the whole catalog. Nothing is written unless every
// product is valid.
func (c *Catalog) Import(ctx context.Context, products []models.Product) error {
	if err := ValidateProducts(products); err != nil {
		return err
	}
	if err := c.products.ReplaceAll(ctx, products); err != nil {
		return fmt.Errorf("import products: %w", err)
	}
	slog.Info("Catalog imported", "products", len(products))
	return nil
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("product %w", ErrNotFound)
	}
	if err := c.products.Delete(ctx, oid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("product %w", ErrNotFound)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
