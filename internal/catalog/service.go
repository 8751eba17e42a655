package catalog

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mmcdole/shelf/internal/domain"
)

const defaultChunkSize = 50

// Service composes the catalog client and the local store into
// cache-first reads.
type Service struct {
	client    domain.CatalogClient
	store     domain.ProductStore
	logger    *slog.Logger
	chunkSize int
}

// NewService creates a new catalog service.
// chunkSize is the page size used by RefreshAll (0 = default).
func NewService(client domain.CatalogClient, store domain.ProductStore, chunkSize int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Service{client: client, store: store, logger: logger, chunkSize: chunkSize}
}

// Fetch reads q through the cache.
//
// emit receives the stored rows for q first, then, if the network fetch
// succeeds, the stored rows again after the network result was written.
// A network failure is returned after the first emit and never undoes it.
// An empty search term emits an empty result without touching the store
// or the network.
func (s *Service) Fetch(ctx context.Context, q domain.Query, emit func([]*domain.Product)) error {
	if q.Kind == domain.QuerySearch && q.Term == "" {
		emit([]*domain.Product{})
		return nil
	}

	// 1. Cache snapshot
	cached, err := s.readStore(ctx, q)
	if err != nil {
		s.logger.Error("failed to read store", "query", q.Kind, "error", err)
		return err
	}
	emit(cached)

	// 2. Network
	fresh, err := s.fetchNetwork(ctx, q)
	if err != nil {
		s.logger.Warn("network fetch failed, keeping cached rows",
			"query", q.Kind, "cached", len(cached), "error", err)
		return err
	}

	// 3. Overwrite and re-read
	if err := s.store.SaveProducts(ctx, fresh); err != nil {
		s.logger.Error("failed to save products", "query", q.Kind, "error", err)
		return err
	}
	updated, err := s.readStore(ctx, q)
	if err != nil {
		s.logger.Error("failed to re-read store", "query", q.Kind, "error", err)
		return err
	}

	s.logger.Debug("fetched products", "query", q.Kind, "cached", len(cached), "network", len(fresh))
	emit(updated)
	return nil
}

// RefreshAll downloads the whole catalog and replaces the store with it.
// The store is only cleared once every page was fetched, so a failure
// leaves it untouched.
func (s *Service) RefreshAll(ctx context.Context, onProgress domain.ProgressFunc) (int, error) {
	products, err := fetchAll(ctx,
		func(ctx context.Context, offset, limit int) ([]*domain.Product, int, error) {
			return s.client.ListProducts(ctx, offset, limit)
		},
		s.chunkSize,
		onProgress,
	)
	if err != nil {
		s.logger.Error("failed to refresh catalog", "error", err)
		return 0, err
	}
	products = uniqueByID(products)

	if err := s.store.DeleteAll(ctx); err != nil {
		s.logger.Error("failed to clear store", "error", err)
		return 0, err
	}
	if err := s.store.SaveProducts(ctx, products); err != nil {
		s.logger.Error("failed to save products", "error", err)
		return 0, err
	}

	s.logger.Info("refreshed catalog", "count", len(products))
	return len(products), nil
}

// Categories emits the categories of stored products, then the union of
// those with the categories served by the network.
func (s *Service) Categories(ctx context.Context, emit func([]string)) error {
	cached, err := s.store.Categories(ctx)
	if err != nil {
		s.logger.Error("failed to read categories", "error", err)
		return err
	}
	emit(cached)

	remote, err := s.client.Categories(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch categories", "error", err)
		return err
	}

	emit(mergeCategories(cached, remote))
	return nil
}

// Product returns a product from the store, or fetches and stores it on a miss.
// A cached product is returned as is; it is never refreshed here.
func (s *Service) Product(ctx context.Context, id int) (*domain.Product, error) {
	cached, ok, err := s.store.ProductByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to read product", "id", id, "error", err)
		return nil, err
	}
	if ok {
		s.logger.Debug("product cache hit", "id", id)
		return cached, nil
	}

	product, err := s.client.Product(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch product", "id", id, "error", err)
		return nil, err
	}
	if err := s.store.SaveProduct(ctx, product); err != nil {
		s.logger.Error("failed to save product", "id", id, "error", err)
	}
	return product, nil
}

// --- Private helpers ---

func (s *Service) readStore(ctx context.Context, q domain.Query) ([]*domain.Product, error) {
	switch q.Kind {
	case domain.QuerySearch:
		return s.store.SearchProducts(ctx, q.Term)
	case domain.QueryCategory:
		return s.store.ProductsByCategory(ctx, q.Category)
	default:
		return s.store.Products(ctx)
	}
}

func (s *Service) fetchNetwork(ctx context.Context, q domain.Query) ([]*domain.Product, error) {
	switch q.Kind {
	case domain.QuerySearch:
		return s.client.SearchProducts(ctx, q.Term)
	case domain.QueryCategory:
		return s.client.ProductsByCategory(ctx, q.Category)
	default:
		products, _, err := s.client.ListProducts(ctx, q.Offset, q.Limit, q.Fields...)
		return products, err
	}
}

// uniqueByID drops repeated products, keeping the first copy.
// Pages can overlap when the client skips invalid rows.
func uniqueByID(products []*domain.Product) []*domain.Product {
	seen := make(map[int]bool, len(products))
	out := products[:0]
	for _, p := range products {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

// mergeCategories returns the sorted union of a and b
func mergeCategories(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, c := range list {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
