package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
)

var _ pagesnap.SnapshotStore = (*LoggingStore)(nil)

// LoggingStore wraps a SnapshotStore with logging.
type LoggingStore struct {
	next   pagesnap.SnapshotStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next pagesnap.SnapshotStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Load delegates to the wrapped store and logs the operation.
func (s *LoggingStore) Load(ctx context.Context) (snap pagesnap.Snapshot, err error) {
	defer func(begin time.Time) {
		s.logger.Info("snapshot load",
			"pages", len(snap),
			"found", snap != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}

// Save delegates to the wrapped store and logs the operation.
func (s *LoggingStore) Save(ctx context.Context, snap pagesnap.Snapshot) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("snapshot save",
			"pages", len(snap),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, snap)
}
