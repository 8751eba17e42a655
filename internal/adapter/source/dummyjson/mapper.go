package dummyjson

import (
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mmcdole/shelf/internal/domain"
)

var errNegativePrice = errors.New("price must not be negative")

// validateProduct checks a product DTO against its struct tags
func validateProduct(v *validator.Validate, p Product) error {
	if err := v.Struct(p); err != nil {
		return err
	}
	if p.Price.IsNegative() {
		return errNegativePrice
	}
	return nil
}

// MapProducts converts API products to domain products, dropping invalid rows
func MapProducts(v *validator.Validate, products []Product, syncedAt time.Time, logger *slog.Logger) []*domain.Product {
	out := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if err := validateProduct(v, p); err != nil {
			logger.Warn("skipping invalid product", "id", p.ID, "error", err)
			continue
		}
		out = append(out, mapProduct(p, syncedAt))
	}
	return out
}

// mapProduct converts a single API product to a domain product
func mapProduct(p Product, syncedAt time.Time) *domain.Product {
	return &domain.Product{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		Stock:              p.Stock,
		Brand:              p.Brand,
		Category:           p.Category,
		Thumbnail:          p.Thumbnail,
		Images:             p.Images,
		LastSyncedAt:       syncedAt,
	}
}
