package storefront

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
)

// PageFetcher loads one page of a filtered listing.
type PageFetcher interface {
	Filter(ctx context.Context, f models.ProductFilter, page, limit int64) (*models.ProductPage, error)
}

const browsePageSize = 20

// Browser is the in-memory catalog view: the active filter, everything
// loaded so far and whether another page exists.
type Browser struct {
	fetcher PageFetcher

	mu       sync.Mutex
	filter   models.ProductFilter
	products []models.Product
	page     int64
	hasMore  bool
	loading  bool
	gen      uint64
}

func NewBrowser(fetcher PageFetcher) *Browser {
	return &Browser{fetcher: fetcher, hasMore: true}
}

// Reload resets the view to the first page of a new filter. Pages still
// in flight for the old filter are dropped when they arrive.
func (b *Browser) Reload(ctx context.Context, f models.ProductFilter) {
	b.mu.Lock()
	b.gen++
	b.filter = f
	b.products = nil
	b.page = 0
	b.hasMore = true
	b.loading = true
	gen := b.gen
	b.mu.Unlock()
	b.fetch(ctx, gen, f, 1)
}

// LoadMore fetches the next page unless a load is running or the last
// page has been reached. It reports whether a fetch happened.
func (b *Browser) LoadMore(ctx context.Context) bool {
	b.mu.Lock()
	if !b.hasMore || b.loading {
		b.mu.Unlock()
		return false
	}
	b.loading = true
	gen, f, next := b.gen, b.filter, b.page+1
	b.mu.Unlock()
	b.fetch(ctx, gen, f, next)
	return true
}

func (b *Browser) fetch(ctx context.Context, gen uint64, f models.ProductFilter, page int64) {
	result, err := b.fetcher.Filter(ctx, f, page, browsePageSize)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return
	}
	b.loading = false
	if err != nil {
		slog.Warn("Loading products failed", "page", page, "error", err)
		b.products = nil
		b.hasMore = false
		return
	}
	if page == 1 {
		b.products = result.Products
	} else {
		b.products = append(b.products, result.Products...)
	}
	b.page = page
	pages := result.Pages
	if pages < 1 {
		pages = 1
	}
	b.hasMore = page < pages
}

func (b *Browser) Products() []models.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Product(nil), b.products...)
}

func (b *Browser) HasMore() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasMore
}

func (b *Browser) Filter() models.ProductFilter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}
