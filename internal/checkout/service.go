package checkout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wichananm65/hot-sauce-storefront/internal/cart"
	"github.com/wichananm65/hot-sauce-storefront/internal/metrics"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingAddress       = errors.New("shipping address is required")
	ErrMissingPayment       = errors.New("payment method is required")
	ErrInvalidPaymentMethod = errors.New("payment method is not supported")
)

// Cart is the part of the cart service checkout drains.
type Cart interface {
	Get() cart.Snapshot
	Clear()
}

type Service struct {
	repo    Repository
	cart    Cart
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(repo Repository, c Cart, m *metrics.Metrics) *Service {
	return &Service{repo: repo, cart: c, metrics: m, now: time.Now}
}

// Checkout turns the current cart into an order for email. The cart is
// cleared only after the order is stored.
func (s *Service) Checkout(ctx context.Context, email string, req Request) (Order, error) {
	ord, err := s.checkout(ctx, email, req)
	s.metrics.Checkout(err)
	return ord, err
}

func (s *Service) checkout(ctx context.Context, email string, req Request) (Order, error) {
	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		return Order{}, ErrMissingAddress
	}
	if req.PaymentMethod == "" {
		return Order{}, ErrMissingPayment
	}
	if !slices.Contains(PaymentMethods, req.PaymentMethod) {
		return Order{}, ErrInvalidPaymentMethod
	}

	snap := s.cart.Get()
	if len(snap.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	ord := Order{
		ID:              uuid.New().String(),
		UserEmail:       email,
		Items:           snap.Items,
		Quantity:        snap.Count,
		Subtotal:        snap.Summary.Subtotal,
		Shipping:        snap.Summary.Shipping,
		Total:           snap.Summary.Total,
		ShippingAddress: address,
		PaymentMethod:   req.PaymentMethod,
		Status:          StatusPlaced,
		CreatedAt:       s.now().UTC(),
	}
	created, err := s.repo.Create(ctx, ord)
	if err != nil {
		return Order{}, fmt.Errorf("save order: %w", err)
	}

	s.cart.Clear()
	return created, nil
}

func (s *Service) List(ctx context.Context, email string) ([]Order, error) {
	return s.repo.ListByEmail(ctx, email)
}
