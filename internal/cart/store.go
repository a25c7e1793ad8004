package cart

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/hot-sauce-storefront/internal/metrics"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

// Store holds the session cart. It is not persisted: a restart empties it.
type Store struct {
	mu          sync.RWMutex
	items       []LineItem
	shippingFee decimal.Decimal
	metrics     *metrics.Metrics
}

func NewStore(shippingFee decimal.Decimal, m *metrics.Metrics) *Store {
	return &Store{
		items:       make([]LineItem, 0),
		shippingFee: shippingFee,
		metrics:     m,
	}
}

// AddToCart increments the quantity of an existing line item or appends a new
// one with quantity 1.
func (s *Store) AddToCart(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.CartMutation("add")

	for i := range s.items {
		if s.items[i].Product.ID == p.ID {
			s.items[i].Quantity++
			return
		}
	}
	s.items = append(s.items, LineItem{Product: p.Clone(), Quantity: 1})
}

// RemoveFromCart deletes the line item for productID. Missing ids are a no-op.
func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.CartMutation("remove")

	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity adds delta to the matching line item, flooring at zero, and
// drops any item left at zero.
func (s *Store) UpdateQuantity(productID string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.CartMutation("update")

	kept := s.items[:0]
	for _, it := range s.items {
		if it.Product.ID == productID {
			it.Quantity = max(0, it.Quantity+delta)
		}
		if it.Quantity > 0 {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.CartMutation("clear")
	s.items = make([]LineItem, 0)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyItems()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.copyItems()
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return Snapshot{Items: items, Count: n, Summary: Summarize(items, s.shippingFee)}
}

func (s *Store) copyItems() []LineItem {
	out := make([]LineItem, len(s.items))
	for i, it := range s.items {
		out[i] = LineItem{Product: it.Product.Clone(), Quantity: it.Quantity}
	}
	return out
}

// Count is the total number of units, used for the cart badge.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summarize(s.items, s.shippingFee)
}
