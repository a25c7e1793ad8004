package recommendation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wichananm65/hot-sauce-storefront/internal/metrics"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

var ErrSessionNotFound = errors.New("quiz session not found")

// Catalog supplies the products recommendations are drawn from.
type Catalog interface {
	List(ctx context.Context) []product.Product
}

// Step describes where a quiz session stands. Result is set only on the
// answer that completes the quiz; the session is then back at question 0.
type Step struct {
	SessionID string   `json:"sessionId"`
	Index     int      `json:"index"`
	Total     int      `json:"total"`
	Question  Question `json:"question"`
	Result    *Result  `json:"result,omitempty"`
}

const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 10000
)

type session struct {
	quiz    *Quiz
	touched time.Time
}

// Engine holds quiz sessions and the active strategy. Sessions idle for longer
// than the TTL are dropped, and starting a session when the engine is full
// evicts the least recently used one.
type Engine struct {
	mu        sync.Mutex
	sessions  map[string]*session
	lastSweep time.Time
	ttl       time.Duration
	max       int
	now       func() time.Time

	strategy Strategy
	catalog  Catalog
	metrics  *metrics.Metrics
}

type EngineOption func(*Engine)

// WithSessionTTL sets how long an untouched session survives.
func WithSessionTTL(d time.Duration) EngineOption {
	return func(e *Engine) { e.ttl = d }
}

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) EngineOption {
	return func(e *Engine) { e.max = n }
}

func NewEngine(strategy Strategy, catalog Catalog, m *metrics.Metrics, opts ...EngineOption) *Engine {
	e := &Engine{
		sessions: make(map[string]*session),
		ttl:      DefaultSessionTTL,
		max:      DefaultMaxSessions,
		now:      time.Now,
		strategy: strategy,
		catalog:  catalog,
		metrics:  m,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Strategy() Strategy { return e.strategy }

func (e *Engine) Start() Step {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if now.Sub(e.lastSweep) >= e.ttl/4 || len(e.sessions) >= e.max {
		e.sweepLocked(now)
	}
	if e.max > 0 && len(e.sessions) >= e.max {
		e.evictOldestLocked()
	}

	id := uuid.New().String()
	q := NewQuiz()
	e.sessions[id] = &session{quiz: q, touched: now}
	return step(id, q)
}

func (e *Engine) Current(id string) (Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	q, ok := e.touchLocked(id)
	if !ok {
		return Step{}, ErrSessionNotFound
	}
	return step(id, q), nil
}

// Answer advances session id. Completing the quiz loads the catalog and runs
// the strategy.
func (e *Engine) Answer(ctx context.Context, id, option string) (Step, error) {
	e.mu.Lock()
	q, ok := e.touchLocked(id)
	if !ok {
		e.mu.Unlock()
		return Step{}, ErrSessionNotFound
	}
	answers, done, err := q.Answer(option)
	next := step(id, q)
	e.mu.Unlock()

	if err != nil {
		return Step{}, err
	}
	if done {
		res := e.strategy.Recommend(e.catalog.List(ctx), answers)
		e.metrics.QuizCompleted(e.strategy.Name())
		next.Result = &res
	}
	return next, nil
}

// Cancel abandons and forgets session id.
func (e *Engine) Cancel(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(e.sessions, id)
	return nil
}

// Sessions reports how many sessions are live.
func (e *Engine) Sessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// touchLocked returns the live quiz for id and marks it used. An expired
// session is removed and reported missing.
func (e *Engine) touchLocked(id string) (*Quiz, bool) {
	s, ok := e.sessions[id]
	if !ok {
		return nil, false
	}
	now := e.now()
	if e.expired(s, now) {
		delete(e.sessions, id)
		return nil, false
	}
	s.touched = now
	return s.quiz, true
}

func (e *Engine) expired(s *session, now time.Time) bool {
	return e.ttl > 0 && now.Sub(s.touched) > e.ttl
}

func (e *Engine) sweepLocked(now time.Time) {
	e.lastSweep = now
	for id, s := range e.sessions {
		if e.expired(s, now) {
			delete(e.sessions, id)
		}
	}
}

func (e *Engine) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, s := range e.sessions {
		if oldestID == "" || s.touched.Before(oldest) {
			oldestID, oldest = id, s.touched
		}
	}
	delete(e.sessions, oldestID)
}

func step(id string, q *Quiz) Step {
	return Step{SessionID: id, Index: q.Index(), Total: len(Questions), Question: q.Current()}
}
