package domain

import "context"

// CatalogClient: Network operations (implemented by catalog API adapters)
type CatalogClient interface {
	// ListProducts returns one page of the catalog plus the catalog total.
	// fields optionally restricts the returned attributes.
	ListProducts(ctx context.Context, offset, limit int, fields ...string) ([]*Product, int, error)
	SearchProducts(ctx context.Context, query string) ([]*Product, error)
	Categories(ctx context.Context) ([]string, error)
	ProductsByCategory(ctx context.Context, category string) ([]*Product, error)
	Product(ctx context.Context, id int) (*Product, error)
}

// ProductStore handles the local product cache.
// Implementations must be safe for concurrent use; each row write is atomic.
type ProductStore interface {
	Products(ctx context.Context) ([]*Product, error)
	// ProductByID returns (nil, false, nil) when the product is not cached
	ProductByID(ctx context.Context, id int) (*Product, bool, error)
	ProductsByCategory(ctx context.Context, category string) ([]*Product, error)
	// SearchProducts matches title substrings, case-insensitively
	SearchProducts(ctx context.Context, query string) ([]*Product, error)

	SaveProducts(ctx context.Context, products []*Product) error
	SaveProduct(ctx context.Context, product *Product) error
	DeleteAll(ctx context.Context) error

	// Categories returns the distinct category tags of stored products
	Categories(ctx context.Context) ([]string, error)

	Close() error
}
