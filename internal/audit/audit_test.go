package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/hot-sauce-storefront/internal/crm"
)

// pagedLister serves total contacts in pages, failing on page failAt (1-based)
// when set.
type pagedLister struct {
	total  int
	failAt int
	calls  int
}

func (l *pagedLister) ListContacts(_ context.Context, limit int, after string, _ ...string) (crm.Page, error) {
	l.calls++
	if l.failAt > 0 && l.calls == l.failAt {
		return crm.Page{}, errors.New("boom")
	}
	start := 0
	if after != "" {
		fmt.Sscanf(after, "%d", &start)
	}
	var page crm.Page
	for i := start; i < start+limit && i < l.total; i++ {
		page.Contacts = append(page.Contacts, crm.Contact{ID: fmt.Sprint(i), Properties: map[string]any{"email": fmt.Sprintf("u%d@example.com", i)}})
	}
	if start+limit < l.total {
		page.Next = fmt.Sprint(start + limit)
	}
	return page, nil
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func decode(t *testing.T, b []byte) []record {
	t.Helper()
	var out []record
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestRun_ReadsAllPages(t *testing.T) {
	var buf bytes.Buffer
	l := &pagedLister{total: 5}
	rep, err := Run(context.Background(), l, Options{BatchSize: 2, Out: &buf, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, 5, rep.Contacts)
	assert.Equal(t, 3, rep.Calls)
	assert.Empty(t, rep.StopReason)

	records := decode(t, buf.Bytes())
	require.Len(t, records, 5)
	assert.Equal(t, "u4@example.com", records[4].Properties["email"])
	assert.Contains(t, buf.String(), "\n  {")
}

func TestRun_Limits(t *testing.T) {
	var buf bytes.Buffer
	rep, err := Run(context.Background(), &pagedLister{total: 50}, Options{BatchSize: 10, MaxCalls: 2, Out: &buf, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Calls)
	assert.Equal(t, 20, rep.Contacts)
	assert.Contains(t, rep.StopReason, "API calls")

	buf.Reset()
	// the contact limit is checked before each fetch, so a page can overshoot it
	rep, err = Run(context.Background(), &pagedLister{total: 50}, Options{BatchSize: 10, MaxContacts: 15, Out: &buf, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, 20, rep.Contacts)
	assert.Contains(t, rep.StopReason, "contacts")
}

func TestRun_StopsOnFetchError(t *testing.T) {
	var buf bytes.Buffer
	rep, err := Run(context.Background(), &pagedLister{total: 50, failAt: 2}, Options{BatchSize: 10, Out: &buf, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Calls)
	assert.Len(t, decode(t, buf.Bytes()), 10)
	assert.Contains(t, rep.StopReason, "boom")
}

func TestRun_EmptyWritesArray(t *testing.T) {
	var buf bytes.Buffer
	_, err := Run(context.Background(), &pagedLister{}, Options{Out: &buf, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}
