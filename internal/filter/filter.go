// Package filter narrows a product catalog by free-text search and structured
// criteria. Everything here is pure: no I/O and no retained state.
package filter

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

// PriceRange is an inclusive [Min, Max] bracket. A nil Max is unbounded.
type PriceRange struct {
	Min decimal.Decimal  `json:"min"`
	Max *decimal.Decimal `json:"max"`
}

func (r PriceRange) Contains(price decimal.Decimal) bool {
	if price.LessThan(r.Min) {
		return false
	}
	return r.Max == nil || !price.GreaterThan(*r.Max)
}

// Criteria holds the structured constraints. A nil field means the dimension
// is unconstrained; it never means zero.
type Criteria struct {
	SpicyLevel *int        `json:"spicyLevel"`
	PriceRange *PriceRange `json:"priceRange"`
	Category   *string     `json:"category"`
}

func (c Criteria) IsZero() bool {
	return c.SpicyLevel == nil && c.PriceRange == nil && c.Category == nil
}

// Apply returns the products that match searchText and every active
// criterion, in catalog order.
func Apply(catalog []product.Product, searchText string, c Criteria) []product.Product {
	needle := strings.ToLower(searchText)
	out := make([]product.Product, 0, len(catalog))
	for _, p := range catalog {
		if matches(p, needle, c) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether a single product passes searchText and c.
func Matches(p product.Product, searchText string, c Criteria) bool {
	return matches(p, strings.ToLower(searchText), c)
}

func matches(p product.Product, needle string, c Criteria) bool {
	if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
		return false
	}
	if c.SpicyLevel != nil && p.SpicyLevel != *c.SpicyLevel {
		return false
	}
	if c.PriceRange != nil && !c.PriceRange.Contains(p.Price) {
		return false
	}
	if c.Category != nil && (p.Category == nil || *p.Category != *c.Category) {
		return false
	}
	return true
}
