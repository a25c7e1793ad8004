package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/hot-sauce-storefront/internal/filter"
	"github.com/wichananm65/hot-sauce-storefront/internal/metrics"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

type failingSource struct{}

func (failingSource) Products(context.Context) ([]product.Product, error) {
	return nil, errors.New("feed unreachable")
}

// listOnly hides GetByID so the service falls back to scanning.
type listOnly struct{ products []product.Product }

func (l listOnly) Products(context.Context) ([]product.Product, error) { return l.products, nil }

func sauce(id, name, price string, level int, category string) product.Product {
	p := product.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), SpicyLevel: level, Pairings: []string{}}
	if category != "" {
		p.Category = &category
	}
	return p
}

func fixture() []product.Product {
	return []product.Product{
		sauce("1", "Classic Habanero", "9.99", 4, "Hot Sauce"),
		sauce("2", "Smoky Chipotle", "8.99", 3, "BBQ Sauce"),
		sauce("3", "Garlic Chilli Oil", "12.99", 3, "Chilli Oil"),
		sauce("4", "Ghost Pepper Extreme", "15.00", 5, "Hot Sauce"),
	}
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestService_ListFailOpen(t *testing.T) {
	m := metrics.New()
	s := NewService(failingSource{}, quietLogger(), m)
	got := s.List(context.Background())
	require.NotNil(t, got)
	assert.Empty(t, got)

	_, err := s.GetByID(context.Background(), "1")
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestService_Search(t *testing.T) {
	s := NewService(product.NewInMemoryRepository(fixture()), quietLogger(), nil)
	three := 3
	got := s.Search(context.Background(), "", filter.Criteria{SpicyLevel: &three})
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	got = s.Search(context.Background(), "PEPPER", filter.Criteria{})
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ID)
}

func TestService_GetByIDWithoutLookup(t *testing.T) {
	s := NewService(listOnly{products: fixture()}, quietLogger(), nil)
	p, err := s.GetByID(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Garlic Chilli Oil", p.Name)

	_, err = s.GetByID(context.Background(), "99")
	assert.ErrorIs(t, err, product.ErrNotFound)
}
