package cart

import (
	"context"
	"errors"

	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

// ProductLookup resolves catalog ids to product snapshots.
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
}

type Service struct {
	store    *Store
	products ProductLookup
}

func NewService(store *Store, products ProductLookup) *Service {
	return &Service{store: store, products: products}
}

// Add looks the product up in the catalog and adds one unit.
func (s *Service) Add(ctx context.Context, productID string) (Snapshot, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return Snapshot{}, product.ErrNotFound
		}
		return Snapshot{}, err
	}
	s.store.AddToCart(p)
	return s.Get(), nil
}

func (s *Service) Remove(productID string) Snapshot {
	s.store.RemoveFromCart(productID)
	return s.Get()
}

func (s *Service) UpdateQuantity(productID string, delta int) Snapshot {
	s.store.UpdateQuantity(productID, delta)
	return s.Get()
}

func (s *Service) Clear() {
	s.store.ClearCart()
}

func (s *Service) Get() Snapshot {
	return s.store.Snapshot()
}
