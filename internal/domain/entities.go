package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item available in the storefront
type Product struct {
	ID                 int             // Catalog-wide unique identifier
	Title              string          // Display title
	Description        string          // Long description
	Price              decimal.Decimal // List price
	DiscountPercentage *float64        // nil when the item is not discounted
	Rating             *float64        // Average rating (0-5)
	Stock              *int            // Units available
	Brand              *string         // Manufacturer, when known
	Category           string          // Category tag (slug)
	Thumbnail          string          // Thumbnail image URL
	Images             []string        // Gallery image URLs
	LastSyncedAt       time.Time       // When this copy was written from the network
}

// HasDiscount returns true if the product carries a positive discount
func (p Product) HasDiscount() bool {
	return p.DiscountPercentage != nil && *p.DiscountPercentage > 0
}

// DiscountedPrice returns the price after discount, rounded to cents
func (p Product) DiscountedPrice() decimal.Decimal {
	if !p.HasDiscount() {
		return p.Price
	}
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(*p.DiscountPercentage).Div(decimal.NewFromInt(100)))
	return p.Price.Mul(factor).Round(2)
}

// FormattedPrice returns the display price, e.g. "$99.99"
func (p Product) FormattedPrice() string {
	return "$" + p.DiscountedPrice().StringFixed(2)
}

// FormattedListPrice returns the undiscounted price, e.g. "$99.99"
func (p Product) FormattedListPrice() string {
	return "$" + p.Price.StringFixed(2)
}

// FormattedRating returns the rating as "4.5★" or an empty string
func (p Product) FormattedRating() string {
	if p.Rating == nil {
		return ""
	}
	return fmt.Sprintf("%.1f★", *p.Rating)
}

// StockLabel returns a short availability label
func (p Product) StockLabel() string {
	switch {
	case p.Stock == nil:
		return ""
	case *p.Stock <= 0:
		return "Out of stock"
	case *p.Stock < 10:
		return fmt.Sprintf("Only %d left", *p.Stock)
	default:
		return "In stock"
	}
}

// BrandName returns the brand or an empty string
func (p Product) BrandName() string {
	if p.Brand == nil {
		return ""
	}
	return *p.Brand
}

// QueryKind selects which slice of the catalog a Query reads
type QueryKind int

const (
	QueryAll QueryKind = iota
	QuerySearch
	QueryCategory
)

// String returns the query kind name used in logs
func (k QueryKind) String() string {
	switch k {
	case QuerySearch:
		return "search"
	case QueryCategory:
		return "category"
	default:
		return "all"
	}
}

// Query describes the shape of a product read, shared by the store and the network
type Query struct {
	Kind     QueryKind
	Term     string   // Free text for QuerySearch
	Category string   // Category tag for QueryCategory
	Limit    int      // Page size for QueryAll (0 = server default)
	Offset   int      // Page offset for QueryAll
	Fields   []string // Optional field selection for QueryAll
}

// AllProducts returns the unscoped query for the first catalog page
func AllProducts(limit int) Query {
	return Query{Kind: QueryAll, Limit: limit}
}

// SearchProducts returns a free-text query
func SearchProducts(term string) Query {
	return Query{Kind: QuerySearch, Term: term}
}

// ProductsInCategory returns a category-scoped query
func ProductsInCategory(category string) Query {
	return Query{Kind: QueryCategory, Category: category}
}

// ProgressFunc reports pagination progress (loaded so far, total expected)
type ProgressFunc func(loaded, total int)
