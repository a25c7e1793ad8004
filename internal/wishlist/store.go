package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wichananm65/hot-sauce-storefront/internal/kv"
	"github.com/wichananm65/hot-sauce-storefront/internal/metrics"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

var ErrClosed = errors.New("wishlist store closed")

const writeTimeout = 5 * time.Second

// Store is the saved-products list. Mutations update memory immediately and
// schedule a write-through of the whole list. Only the newest list is kept
// pending; a single persister goroutine writes it, so storage never sees an
// older list after a newer one. Storage failures are logged and counted here
// and never reach callers.
type Store struct {
	mu     sync.RWMutex
	items  []product.Product
	closed bool

	storage kv.Store
	policy  DuplicatePolicy
	logger  *slog.Logger
	metrics *metrics.Metrics

	// pending is the newest unwritten list. scheduled counts lists handed to
	// pending and applied the ones the persister has finished with; progress
	// is closed and replaced whenever applied moves.
	pending   []byte
	scheduled uint64
	applied   uint64
	progress  chan struct{}

	notify   chan struct{}
	quit     chan struct{}
	stopped  chan struct{}
	failures atomic.Int64
}

type Option func(*Store)

func WithPolicy(p DuplicatePolicy) Option {
	return func(s *Store) { s.policy = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore loads the persisted list and starts the persister. Call Close to
// stop it.
func NewStore(ctx context.Context, storage kv.Store, opts ...Option) *Store {
	s := &Store{
		items:    make([]product.Product, 0),
		storage:  storage,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		progress: make(chan struct{}),
		notify:   make(chan struct{}, 1),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.load(ctx)
	go s.persist()
	return s
}

func (s *Store) AddToWishlist(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy == DedupeByID && s.containsLocked(p.ID) {
		return
	}
	s.items = append(s.items, p.Clone())
	s.scheduleLocked()
}

func (s *Store) RemoveFromWishlist(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]product.Product, 0, len(s.items))
	for _, p := range s.items {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.items = kept
	s.scheduleLocked()
}

func (s *Store) IsInWishlist(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.containsLocked(id)
}

func (s *Store) Items() []product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]product.Product, len(s.items))
	for i, p := range s.items {
		out[i] = p.Clone()
	}
	return out
}

// Refresh replaces in-memory state with the persisted list. Pending writes are
// flushed first so a refresh never resurrects a removed item. Read or parse
// failures leave the wishlist empty.
func (s *Store) Refresh(ctx context.Context) []product.Product {
	if err := s.Flush(ctx); err != nil && !errors.Is(err, ErrClosed) {
		s.logger.Warn("wishlist flush before refresh failed", "error", err)
	}
	items := s.load(ctx)

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return s.Items()
}

// Flush blocks until every write scheduled before the call has been applied
// or ctx ends.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	target := s.scheduled
	for s.applied < target {
		progress := s.progress
		s.mu.Unlock()
		select {
		case <-progress:
		case <-ctx.Done():
			s.mu.Lock()
			return ctx.Err()
		}
		s.mu.Lock()
	}
	return nil
}

// Close writes the pending list, if any, and stops the persister.
func (s *Store) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.quit)
	}
	s.mu.Unlock()
	<-s.stopped
	return nil
}

// WriteFailures reports how many write-throughs have failed.
func (s *Store) WriteFailures() int64 {
	return s.failures.Load()
}

func (s *Store) containsLocked(id string) bool {
	for _, p := range s.items {
		if p.ID == id {
			return true
		}
	}
	return false
}

// scheduleLocked replaces the pending list with the current one and wakes the
// persister without waiting for it.
func (s *Store) scheduleLocked() {
	payload, err := json.Marshal(s.items)
	if err != nil {
		s.recordFailure("encode", err)
		return
	}
	if s.closed {
		s.recordFailure("schedule", ErrClosed)
		return
	}
	s.pending = payload
	s.scheduled++
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Store) persist() {
	defer close(s.stopped)
	for {
		select {
		case <-s.notify:
			s.writePending()
		case <-s.quit:
			s.writePending()
			return
		}
	}
}

func (s *Store) writePending() {
	s.mu.Lock()
	payload, gen := s.pending, s.scheduled
	s.pending = nil
	s.mu.Unlock()
	if payload == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	err := s.storage.Set(ctx, StorageKey, payload)
	cancel()
	s.metrics.WishlistWrite(err)
	if err != nil {
		s.recordFailure("write", err)
	}

	s.mu.Lock()
	s.applied = gen
	close(s.progress)
	s.progress = make(chan struct{})
	s.mu.Unlock()
}

func (s *Store) recordFailure(stage string, err error) {
	s.failures.Add(1)
	s.logger.Error("wishlist persistence failed", "stage", stage, "error", err)
}

func (s *Store) load(ctx context.Context) []product.Product {
	raw, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("wishlist read failed, starting empty", "error", err)
		}
		return make([]product.Product, 0)
	}

	var items []product.Product
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn("wishlist data unreadable, starting empty", "error", err)
		return make([]product.Product, 0)
	}
	if items == nil {
		items = make([]product.Product, 0)
	}
	return items
}
