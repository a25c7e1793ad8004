package checkout

import (
	"context"
	"strings"
	"sync"
)

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, ord Order) (Order, error)
	// ListByEmail returns the user's orders, newest first.
	ListByEmail(ctx context.Context, email string) ([]Order, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make([]Order, 0)}
}

func (r *InMemoryRepository) Create(_ context.Context, ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = append(r.orders, ord)
	return ord, nil
}

func (r *InMemoryRepository) ListByEmail(_ context.Context, email string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for i := len(r.orders) - 1; i >= 0; i-- {
		if strings.EqualFold(r.orders[i].UserEmail, email) {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}
