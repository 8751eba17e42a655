package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/catalog"
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

// fakeClient serves a fixed catalog; setErr makes every later call fail
type fakeClient struct {
	mu       sync.Mutex
	products []*domain.Product
	err      error
	calls    []string
}

func (f *fakeClient) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeClient) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeClient) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

// searched reports whether any search reached the network
func (f *fakeClient) searched() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if strings.HasPrefix(c, "search:") {
			return true
		}
	}
	return false
}

func (f *fakeClient) ListProducts(ctx context.Context, offset, limit int, fields ...string) ([]*domain.Product, int, error) {
	if err := f.record("list"); err != nil {
		return nil, 0, err
	}
	if offset >= len(f.products) {
		return nil, len(f.products), nil
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
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeClient) Categories(ctx context.Context) ([]string, error) {
	if err := f.record("categories"); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, p := range f.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
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

// newTestService wires a catalog service over client and a memory store
func newTestService(t *testing.T, client *fakeClient, cached ...*domain.Product) (*catalog.Service, domain.ProductStore) {
	t.Helper()
	st, err := store.NewBoltStore("")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	if len(cached) > 0 {
		if err := st.SaveProducts(context.Background(), cached); err != nil {
			t.Fatal(err)
		}
	}
	return catalog.NewService(client, st, 0, quietLogger()), st
}

// drain runs cmd and every command it leads to, feeding each message back
// into the model, until no work is left
func drain[M interface{ Update(tea.Msg) (M, tea.Cmd) }](m M, cmd tea.Cmd) M {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}

		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			var next tea.Cmd
			m, next = m.Update(msg)
			queue = append(queue, next)
		}
	}
	return m
}

func titles(products []*domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Title
	}
	return out
}
