package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDiscountedPrice(t *testing.T) {
	discount := 10.0
	zero := 0.0

	tests := []struct {
		name     string
		price    string
		discount *float64
		want     string
		listWant string
	}{
		{"no discount", "99.99", nil, "99.99", "$99.99"},
		{"zero discount", "99.99", &zero, "99.99", "$99.99"},
		{"ten percent", "99.99", &discount, "89.99", "$99.99"},
		{"round list price", "100", &discount, "90.00", "$100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: decimal.RequireFromString(tt.price), DiscountPercentage: tt.discount}
			if got := p.DiscountedPrice().StringFixed(2); got != tt.want {
				t.Fatalf("DiscountedPrice() = %s, want %s", got, tt.want)
			}
			if got := p.FormattedPrice(); got != "$"+tt.want {
				t.Errorf("FormattedPrice() = %s, want $%s", got, tt.want)
			}
			if got := p.FormattedListPrice(); got != tt.listWant {
				t.Errorf("FormattedListPrice() = %s, want %s", got, tt.listWant)
			}
		})
	}
}

func TestStockLabel(t *testing.T) {
	none, few, many := 0, 3, 40
	cases := map[*int]string{
		nil:   "",
		&none: "Out of stock",
		&few:  "Only 3 left",
		&many: "In stock",
	}
	for stock, want := range cases {
		if got := (Product{Stock: stock}).StockLabel(); got != want {
			t.Errorf("StockLabel() = %q, want %q", got, want)
		}
	}
}
