package checkout

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/hot-sauce-storefront/internal/cart"
)

const StatusPlaced = "placed"

// PaymentMethods are the methods a shopper may choose at checkout. No
// payment is taken; the choice is recorded on the order.
var PaymentMethods = []string{"Credit Card", "PayPal", "Apple Pay", "Google Pay"}

// Order represents a completed checkout.
type Order struct {
	ID              string          `json:"id"`
	UserEmail       string          `json:"userEmail"`
	Items           []cart.LineItem `json:"items"`
	Quantity        int             `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type Request struct {
	ShippingAddress string `json:"shippingAddress"`
	PaymentMethod   string `json:"paymentMethod"`
}
