package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/hot-sauce-storefront/internal/cart"
	"github.com/wichananm65/hot-sauce-storefront/internal/metrics"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

type failingRepo struct{}

func (failingRepo) Create(context.Context, Order) (Order, error) {
	return Order{}, errors.New("db down")
}

func (failingRepo) ListByEmail(context.Context, string) ([]Order, error) {
	return nil, errors.New("db down")
}

func newCart(t *testing.T) *cart.Service {
	t.Helper()
	products := product.NewInMemoryRepository([]product.Product{
		{ID: "1", Name: "MEXICAN FURY", Price: decimal.RequireFromString("9.99"), Pairings: []string{}},
		{ID: "2", Name: "SMOKY BBQ", Price: decimal.RequireFromString("8.49"), Pairings: []string{}},
	})
	return cart.NewService(cart.NewStore(cart.DefaultShippingFee, nil), products)
}

func fill(t *testing.T, c *cart.Service, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := c.Add(context.Background(), id)
		require.NoError(t, err)
	}
}

func TestCheckout_PlacesOrderAndClearsCart(t *testing.T) {
	c := newCart(t)
	fill(t, c, "1", "1", "2")
	m := metrics.New()
	s := NewService(NewInMemoryRepository(), c, m)

	ord, err := s.Checkout(context.Background(), "jo@example.com", Request{ShippingAddress: " 1 Chilli Lane ", PaymentMethod: "PayPal"})
	require.NoError(t, err)
	assert.NotEmpty(t, ord.ID)
	assert.Equal(t, 3, ord.Quantity)
	assert.Equal(t, "28.47", ord.Subtotal.String())
	assert.Equal(t, "33.47", ord.Total.StringFixed(2))
	assert.Equal(t, "1 Chilli Lane", ord.ShippingAddress)
	assert.Equal(t, StatusPlaced, ord.Status)
	assert.Len(t, ord.Items, 2)

	assert.Empty(t, c.Get().Items)

	orders, err := s.List(context.Background(), "JO@example.com")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, ord.ID, orders[0].ID)

	count, err := testutil.GatherAndCount(m.Registry(), "storefront_checkouts_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCheckout_Validation(t *testing.T) {
	c := newCart(t)
	s := NewService(NewInMemoryRepository(), c, nil)
	ctx := context.Background()

	_, err := s.Checkout(ctx, "jo@example.com", Request{PaymentMethod: "PayPal"})
	assert.ErrorIs(t, err, ErrMissingAddress)
	_, err = s.Checkout(ctx, "jo@example.com", Request{ShippingAddress: "x"})
	assert.ErrorIs(t, err, ErrMissingPayment)
	_, err = s.Checkout(ctx, "jo@example.com", Request{ShippingAddress: "x", PaymentMethod: "Bitcoin"})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	_, err = s.Checkout(ctx, "jo@example.com", Request{ShippingAddress: "x", PaymentMethod: "Apple Pay"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_KeepsCartWhenSaveFails(t *testing.T) {
	c := newCart(t)
	fill(t, c, "2")
	s := NewService(failingRepo{}, c, nil)

	_, err := s.Checkout(context.Background(), "jo@example.com", Request{ShippingAddress: "x", PaymentMethod: "Credit Card"})
	require.Error(t, err)
	assert.Equal(t, 1, c.Get().Count)
}
