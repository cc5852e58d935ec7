// Package slog provides log/slog decorators for pagesnap services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
)

// Ensure LoggingFetcher implements pagesnap.Fetcher and pagesnap.ViewFetcher.
var (
	_ pagesnap.Fetcher     = (*LoggingFetcher)(nil)
	_ pagesnap.ViewFetcher = (*LoggingFetcher)(nil)
)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   pagesnap.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pagesnap.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// FetchViews delegates to the wrapped fetcher's views, falling back to a
// single Fetch when it has none, and logs the operation.
func (f *LoggingFetcher) FetchViews(ctx context.Context, url string) (views []string, err error) {
	defer func(begin time.Time) {
		n := 0
		for _, v := range views {
			n += len(v)
		}
		f.logger.Info("fetch views",
			"url", url,
			"views", len(views),
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return pagesnap.FetchViews(ctx, f.next, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
