package product

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("product not found")
)

// Source produces the catalog for the current session. Implementations may
// read a static table, a database or a remote feed.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
}

type Repository interface {
	Source
	GetByID(ctx context.Context, id string) (Product, error)
	// Reset replaces all products with the provided list (used for seeding)
	Reset(ctx context.Context, products []Product) error
}

// InMemoryRepository serves a static catalog. It is the default source and
// is also used by tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Product, 0, len(seed))}
	for _, p := range seed {
		r.storage = append(r.storage, p.Clone())
	}
	return r
}

func (r *InMemoryRepository) Products(_ context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, len(r.storage))
	for i, p := range r.storage {
		out[i] = p.Clone()
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return Product{}, ErrNotFound
}

// Reset replaces the whole in-memory storage with the provided products.
func (r *InMemoryRepository) Reset(_ context.Context, products []Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = make([]Product, 0, len(products))
	for _, p := range products {
		r.storage = append(r.storage, p.Clone())
	}
	return nil
}
