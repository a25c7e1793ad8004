package catalog

import (
	"context"
	"log/slog"

	"github.com/wichananm65/hot-sauce-storefront/internal/filter"
	"github.com/wichananm65/hot-sauce-storefront/internal/metrics"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

// lookup is implemented by sources that can fetch a single product without
// loading the whole catalog.
type lookup interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
}

type Service struct {
	source  product.Source
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(source product.Source, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, logger: logger, metrics: m}
}

// List returns the current catalog. A failing source yields an empty
// catalog; the error is logged and counted, not returned.
func (s *Service) List(ctx context.Context) []product.Product {
	products, err := s.source.Products(ctx)
	s.metrics.CatalogFetch(err)
	if err != nil {
		s.logger.ErrorContext(ctx, "catalog fetch failed", "error", err)
		return []product.Product{}
	}
	if products == nil {
		return []product.Product{}
	}
	return products
}

func (s *Service) Search(ctx context.Context, text string, c filter.Criteria) []product.Product {
	return filter.Apply(s.List(ctx), text, c)
}

func (s *Service) GetByID(ctx context.Context, id string) (product.Product, error) {
	if l, ok := s.source.(lookup); ok {
		return l.GetByID(ctx, id)
	}
	for _, p := range s.List(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return product.Product{}, product.ErrNotFound
}
