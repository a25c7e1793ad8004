package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0"?>
<rss version="2.0" xmlns:g="http://base.google.com/ns/1.0">
  <channel>
    <title>Sauces</title>
    <item>
      <g:id>101</g:id>
      <title>Carolina Reaper Hot Sauce</title>
      <g:price>11.50 GBP</g:price>
      <g:image_link>https://cdn.example.com/101.png</g:image_link>
      <g:product_type>Hot Sauce</g:product_type>
    </item>
    <item>
      <guid>102</guid>
      <title>Sesame Chilli Crisp</title>
      <g:price>7.25 GBP</g:price>
      <image>https://cdn.example.com/102.png</image>
    </item>
    <item>
      <g:id>103</g:id>
      <title>Broken Price</title>
      <g:price>free</g:price>
    </item>
    <item>
      <title>No Id</title>
      <g:price>3.00 GBP</g:price>
    </item>
  </channel>
</rss>`

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func serve(t *testing.T, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSource_ParsesAndSkips(t *testing.T) {
	var hits atomic.Int32
	srv := serve(t, sampleFeed, &hits)
	s := NewSource(Options{URL: srv.URL, Logger: quiet()})

	products, err := s.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "101", products[0].ID)
	assert.Equal(t, "11.5", products[0].Price.String())
	assert.Equal(t, "https://cdn.example.com/101.png", products[0].Image)
	require.NotNil(t, products[0].Category)
	assert.Equal(t, "Hot Sauce", *products[0].Category)
	assert.Equal(t, 0, products[0].SpicyLevel)
	assert.Empty(t, products[0].Pairings)

	assert.Equal(t, "102", products[1].ID)
	assert.Nil(t, products[1].Category)
	assert.Equal(t, "https://cdn.example.com/102.png", products[1].Image)
}

func TestSource_CachesForTTL(t *testing.T) {
	var hits atomic.Int32
	srv := serve(t, sampleFeed, &hits)
	s := NewSource(Options{URL: srv.URL, TTL: time.Minute, Logger: quiet()})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, err := s.Products(context.Background())
	require.NoError(t, err)
	_, err = s.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	now = now.Add(2 * time.Minute)
	_, err = s.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestSource_ZeroTTLRefetches(t *testing.T) {
	var hits atomic.Int32
	srv := serve(t, sampleFeed, &hits)
	s := NewSource(Options{URL: srv.URL, Logger: quiet()})
	for i := 0; i < 3; i++ {
		_, err := s.Products(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestSource_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	_, err := NewSource(Options{URL: srv.URL, Logger: quiet()}).Products(context.Background())
	assert.Error(t, err)

	var hits atomic.Int32
	bad := serve(t, "<rss><channel><item>", &hits)
	_, err = NewSource(Options{URL: bad.URL, Logger: quiet()}).Products(context.Background())
	assert.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	for raw, want := range map[string]string{
		"9.99 GBP": "9.99",
		"£4.50":    "4.5",
		" 12 USD ": "12",
		"9.99GBP":  "9.99",
		"£7EUR":    "7",
	} {
		d, err := ParsePrice(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, d.String(), raw)
	}
	for _, raw := range []string{"", "GBP", "-1.00 GBP", "abc"} {
		_, err := ParsePrice(raw)
		assert.Error(t, err, raw)
	}
}
