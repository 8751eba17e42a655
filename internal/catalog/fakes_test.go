package catalog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/store"
	"github.com/shopspring/decimal"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func product(id int, title, category, price string) *domain.Product {
	return &domain.Product{ID: id, Title: title, Category: category, Price: decimal.RequireFromString(price)}
}

// fakeClient serves a fixed catalog and records every call
type fakeClient struct {
	mu         sync.Mutex
	products   []*domain.Product
	categories []string
	pageCap    int // server-side page limit, 0 for none
	err        error
	calls      []string
}

func (f *fakeClient) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) ListProducts(ctx context.Context, offset, limit int, fields ...string) ([]*domain.Product, int, error) {
	if err := f.record("list"); err != nil {
		return nil, 0, err
	}
	if offset >= len(f.products) {
		return nil, len(f.products), nil
	}
	if f.pageCap > 0 && (limit <= 0 || limit > f.pageCap) {
		limit = f.pageCap
	}
	end := offset + limit
	if limit <= 0 || end > len(f.products) {
		end = len(f.products)
	}
	return f.products[offset:end], len(f.products), nil
}

func (f *fakeClient) SearchProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	if err := f.record("search:" + query); err != nil {
		return nil, err
	}
	var out []*domain.Product
	for _, p := range f.products {
		if containsFold(p.Title, query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeClient) Categories(ctx context.Context) ([]string, error) {
	if err := f.record("categories"); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func (f *fakeClient) ProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	if err := f.record("category:" + category); err != nil {
		return nil, err
	}
	var out []*domain.Product
	for _, p := range f.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeClient) Product(ctx context.Context, id int) (*domain.Product, error) {
	if err := f.record("product"); err != nil {
		return nil, err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, &domain.RemoteError{StatusCode: 404, Path: "/products"}
}

// countingStore wraps a memory store and counts accesses
type countingStore struct {
	domain.ProductStore
	mu    sync.Mutex
	calls int
}

func newCountingStore() *countingStore {
	s, _ := store.NewBoltStore("")
	return &countingStore{ProductStore: s}
}

func (c *countingStore) hit() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *countingStore) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *countingStore) Products(ctx context.Context) ([]*domain.Product, error) {
	c.hit()
	return c.ProductStore.Products(ctx)
}

func (c *countingStore) SearchProducts(ctx context.Context, q string) ([]*domain.Product, error) {
	c.hit()
	return c.ProductStore.SearchProducts(ctx, q)
}

func (c *countingStore) ProductsByCategory(ctx context.Context, cat string) ([]*domain.Product, error) {
	c.hit()
	return c.ProductStore.ProductsByCategory(ctx, cat)
}

func (c *countingStore) ProductByID(ctx context.Context, id int) (*domain.Product, bool, error) {
	c.hit()
	return c.ProductStore.ProductByID(ctx, id)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
