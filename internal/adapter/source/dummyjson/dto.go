package dummyjson

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ProductsResponse represents a paginated list of products
type ProductsResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// Product represents a catalog product as served by the API
type Product struct {
	ID                 int             `json:"id" validate:"gt=0"`
	Title              string          `json:"title" validate:"required"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage *float64        `json:"discountPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Rating             *float64        `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Stock              *int            `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Brand              *string         `json:"brand,omitempty"`
	Category           string          `json:"category"`
	Thumbnail          string          `json:"thumbnail"`
	Images             []string        `json:"images,omitempty"`
}

// Category represents an entry of /products/categories on newer API versions
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CategoryList decodes either a list of slugs or a list of Category objects
type CategoryList []string

func (c *CategoryList) UnmarshalJSON(data []byte) error {
	var slugs []string
	if err := json.Unmarshal(data, &slugs); err == nil {
		*c = slugs
		return nil
	}

	var objects []Category
	if err := json.Unmarshal(data, &objects); err != nil {
		return err
	}
	out := make([]string, 0, len(objects))
	for _, o := range objects {
		out = append(out, o.Slug)
	}
	*c = out
	return nil
}
