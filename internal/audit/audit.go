// Package audit exports every CRM contact to a JSON file, paging gently so
// the API rate limits are respected.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/wichananm65/hot-sauce-storefront/internal/crm"
)

const (
	DefaultBatchSize = 100
	DefaultDelay     = time.Second
)

// Lister is the part of the CRM client the audit needs.
type Lister interface {
	ListContacts(ctx context.Context, limit int, after string, properties ...string) (crm.Page, error)
}

type Options struct {
	BatchSize int
	Delay     time.Duration
	// MaxContacts and MaxCalls stop the run once reached; zero is unlimited.
	MaxContacts int
	MaxCalls    int
	Out         io.Writer
	Logger      *slog.Logger
}

type Report struct {
	Contacts int
	Calls    int
	Duration time.Duration
	// StopReason is empty when every page was read.
	StopReason string
}

type record struct {
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
}

// Run pages through contacts until the listing ends, a limit is hit or a
// fetch fails, then writes what it collected to opts.Out.
func Run(ctx context.Context, lister Lister, opts Options) (Report, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	var (
		records = make([]record, 0)
		after   string
		report  Report
	)

	for {
		if opts.MaxCalls > 0 && report.Calls >= opts.MaxCalls {
			report.StopReason = fmt.Sprintf("reached maximum number of API calls (%d)", opts.MaxCalls)
			break
		}
		if opts.MaxContacts > 0 && len(records) >= opts.MaxContacts {
			report.StopReason = fmt.Sprintf("reached maximum number of contacts (%d)", opts.MaxContacts)
			break
		}

		page, err := lister.ListContacts(ctx, opts.BatchSize, after)
		if err != nil {
			logger.ErrorContext(ctx, "error fetching contacts, stopping", "error", err)
			report.StopReason = "fetch error: " + err.Error()
			break
		}
		report.Calls++
		for _, c := range page.Contacts {
			records = append(records, record{ID: c.ID, Properties: c.Properties})
		}
		logger.InfoContext(ctx, "fetched contacts", "batch", len(page.Contacts), "total", len(records), "calls", report.Calls)

		if page.Next == "" {
			break
		}
		after = page.Next

		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				report.StopReason = ctx.Err().Error()
			case <-time.After(opts.Delay):
			}
			if report.StopReason != "" {
				break
			}
		}
	}

	report.Contacts = len(records)
	report.Duration = time.Since(start)

	enc := json.NewEncoder(opts.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return report, fmt.Errorf("write audit output: %w", err)
	}
	if report.StopReason != "" {
		logger.InfoContext(ctx, "audit stopped early", "reason", report.StopReason)
	}
	return report, nil
}
