// Package metrics exposes storefront counters in Prometheus format. All
// recording methods are safe on a nil *Metrics so components can run without
// instrumentation in tests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	cartMutations   *prometheus.CounterVec
	wishlistWrites  *prometheus.CounterVec
	catalogFetches  *prometheus.CounterVec
	authAttempts    *prometheus.CounterVec
	quizCompletions *prometheus.CounterVec
	checkouts       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "cart_mutations_total",
			Help:      "Cart operations by kind.",
		}, []string{"op"}),
		wishlistWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "wishlist_writes_total",
			Help:      "Wishlist persistence writes by result.",
		}, []string{"result"}),
		catalogFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "catalog_fetches_total",
			Help:      "Catalog source loads by result.",
		}, []string{"result"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "auth_attempts_total",
			Help:      "Login and registration attempts by action and result.",
		}, []string{"action", "result"}),
		quizCompletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "quiz_completions_total",
			Help:      "Completed recommendation quizzes by strategy.",
		}, []string{"strategy"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cartMutations,
		m.wishlistWrites,
		m.catalogFetches,
		m.authAttempts,
		m.quizCompletions,
		m.checkouts,
	)
	return m
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) CartMutation(op string) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(op).Inc()
}

func (m *Metrics) WishlistWrite(err error) {
	if m == nil {
		return
	}
	m.wishlistWrites.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) CatalogFetch(err error) {
	if m == nil {
		return
	}
	m.catalogFetches.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) AuthAttempt(action string, ok bool) {
	if m == nil {
		return
	}
	r := "failure"
	if ok {
		r = "success"
	}
	m.authAttempts.WithLabelValues(action, r).Inc()
}

func (m *Metrics) QuizCompleted(strategy string) {
	if m == nil {
		return
	}
	m.quizCompletions.WithLabelValues(strategy).Inc()
}

func (m *Metrics) Checkout(err error) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
