// Package feed reads the product catalog from a remote RSS product feed.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

const maxFeedBytes = 8 << 20

type document struct {
	Channel struct {
		Items []item `xml:"item"`
	} `xml:"channel"`
}

type item struct {
	ID          string `xml:"id"`
	GUID        string `xml:"guid"`
	Title       string `xml:"title"`
	Price       string `xml:"price"`
	ImageLink   string `xml:"image_link"`
	Image       string `xml:"image"`
	ProductType string `xml:"product_type"`
}

type Options struct {
	URL    string
	TTL    time.Duration
	Client *http.Client
	Logger *slog.Logger
}

// Source fetches and caches the feed. It implements product.Source.
type Source struct {
	url    string
	ttl    time.Duration
	client *http.Client
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	cached    []product.Product
	fetchedAt time.Time
}

func NewSource(opts Options) *Source {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{url: opts.URL, ttl: opts.TTL, client: client, logger: logger, now: time.Now}
}

// Products returns the feed's products, refetching once the cache is older
// than the TTL. A zero TTL refetches on every call.
func (s *Source) Products(ctx context.Context) ([]product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.ttl > 0 && s.now().Sub(s.fetchedAt) < s.ttl {
		return clone(s.cached), nil
	}

	products, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.cached = products
	s.fetchedAt = s.now()
	return clone(products), nil
}

func (s *Source) fetch(ctx context.Context) ([]product.Product, error) {
	ctx, span := otel.Tracer("storefront/feed").Start(ctx, "feed.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("feed.url", s.url)),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	res, err := s.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch")
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err := fmt.Errorf("fetch feed: unexpected status %d", res.StatusCode)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	products, err := s.parse(ctx, io.LimitReader(res.Body, maxFeedBytes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse")
		return nil, err
	}
	span.SetAttributes(attribute.Int("feed.products", len(products)))
	return products, nil
}

// parse decodes the feed, skipping items that lack an id or title or whose
// price cannot be read.
func (s *Source) parse(ctx context.Context, r io.Reader) ([]product.Product, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	out := make([]product.Product, 0, len(doc.Channel.Items))
	for i, it := range doc.Channel.Items {
		p, err := it.toProduct()
		if err != nil {
			s.logger.WarnContext(ctx, "skipping feed item", "index", i, "error", err)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (it item) toProduct() (product.Product, error) {
	id := firstNonEmpty(it.ID, it.GUID)
	title := strings.TrimSpace(it.Title)
	if id == "" || title == "" {
		return product.Product{}, fmt.Errorf("item missing id or title")
	}
	price, err := ParsePrice(it.Price)
	if err != nil {
		return product.Product{}, fmt.Errorf("item %s: %w", id, err)
	}

	p := product.Product{
		ID:       id,
		Name:     title,
		Price:    price,
		Image:    firstNonEmpty(it.ImageLink, it.Image),
		Pairings: []string{},
	}
	if cat := strings.TrimSpace(it.ProductType); cat != "" {
		p.Category = &cat
	}
	return p, nil
}

// ParsePrice reads a feed price such as "9.99 GBP", "9.99GBP" or "£9.99". The
// currency unit is dropped.
func ParsePrice(raw string) (decimal.Decimal, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return decimal.Zero, fmt.Errorf("empty price")
	}
	num := strings.TrimLeftFunc(fields[0], func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.' && r != '-'
	})
	num = strings.TrimRightFunc(num, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %q", raw)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func clone(in []product.Product) []product.Product {
	out := make([]product.Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
