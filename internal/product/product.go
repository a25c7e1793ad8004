package product

import "github.com/shopspring/decimal"

// Product is a sellable sauce. Products are immutable once loaded; callers
// hold snapshots (cart line items, wishlist entries) rather than references.
type Product struct {
	ID         string          `json:"id" yaml:"id"`
	Name       string          `json:"name" yaml:"name"`
	Price      decimal.Decimal `json:"price" yaml:"-"`
	Image      string          `json:"image" yaml:"image"`
	SpicyLevel int             `json:"spicyLevel" yaml:"spicyLevel"`
	Category   *string         `json:"category" yaml:"category"`
	Pairings   []string        `json:"pairings" yaml:"pairings"`
}

// Categories contains the product categories offered as filter options.
var Categories = []string{
	"Hot Sauce",
	"BBQ Sauce",
	"Chilli Oil",
	"Seasoning",
}

// MaxSpicyLevel is the hottest rating a product can carry.
const MaxSpicyLevel = 5

// CategoryName returns the category or an empty string when none is set.
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return *p.Category
}

// Clone returns a deep copy so snapshots never share slices with the catalog.
func (p Product) Clone() Product {
	out := p
	if p.Pairings != nil {
		out.Pairings = append([]string(nil), p.Pairings...)
	}
	if p.Category != nil {
		c := *p.Category
		out.Category = &c
	}
	return out
}
