package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
)

// Ensure LoggingURLSource implements pagesnap.URLSource.
var _ pagesnap.URLSource = (*LoggingURLSource)(nil)

// LoggingURLSource wraps a URLSource with logging.
type LoggingURLSource struct {
	next   pagesnap.URLSource
	name   string
	logger *slog.Logger
}

// NewLoggingURLSource creates a new LoggingURLSource. name identifies the
// source in log output, for example a file path or sitemap URL.
func NewLoggingURLSource(next pagesnap.URLSource, name string, logger *slog.Logger) *LoggingURLSource {
	return &LoggingURLSource{next: next, name: name, logger: logger}
}

// URLs delegates to the wrapped source and logs the operation.
func (s *LoggingURLSource) URLs(ctx context.Context) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("url discovery",
			"source", s.name,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.URLs(ctx)
}
