package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
)

var _ pagesnap.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   pagesnap.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next pagesnap.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the chunk count.
func (e *LoggingExtractor) Extract(html string) (chunks []pagesnap.Chunk, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("extract",
			"bytes", len(html),
			"chunks", len(chunks),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}
