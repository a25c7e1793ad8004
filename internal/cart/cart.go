package cart

import (
	"github.com/shopspring/decimal"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

// DefaultShippingFee is charged on any non-empty cart.
var DefaultShippingFee = decimal.RequireFromString("5.00")

// LineItem pairs a product snapshot with its quantity. Quantity is always >= 1
// while the item is in the cart.
type LineItem struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Summary holds the derived cart totals.
type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Snapshot is a consistent view of the cart taken under a single lock.
type Snapshot struct {
	Items   []LineItem `json:"items"`
	Count   int        `json:"count"`
	Summary Summary    `json:"summary"`
}

// Summarize computes totals for items. Shipping is free only when the
// subtotal is zero.
func Summarize(items []LineItem, shippingFee decimal.Decimal) Summary {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	shipping := decimal.Zero
	if !subtotal.IsZero() {
		shipping = shippingFee
	}
	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}
