// Package fs provides file-based storage for snapshots and URL lists.
package fs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/pagesnap"
)

// Snapshot file names inside the store directory.
const (
	LatestFile   = "latest.json"
	PreviousFile = "previous.json"
)

// Ensure SnapshotStore implements pagesnap.SnapshotStore at compile time.
var _ pagesnap.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps the latest snapshot and the one before it as JSON
// files in a directory.
type SnapshotStore struct {
	dir    string
	logger *slog.Logger
}

// Option configures a SnapshotStore.
type Option func(*SnapshotStore)

// WithLogger sets the logger used to report unreadable snapshots.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SnapshotStore) {
		s.logger = logger
	}
}

// NewSnapshotStore creates a store rooted at dir. The directory is created
// on the first Save.
func NewSnapshotStore(dir string, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		dir:    dir,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LatestPath returns the path of the latest snapshot file.
func (s *SnapshotStore) LatestPath() string {
	return filepath.Join(s.dir, LatestFile)
}

// PreviousPath returns the path of the previous snapshot file.
func (s *SnapshotStore) PreviousPath() string {
	return filepath.Join(s.dir, PreviousFile)
}

// Load returns the latest snapshot. A missing file yields nil. An unreadable
// or corrupt file is logged and also yields nil.
func (s *SnapshotStore) Load(ctx context.Context) (pagesnap.Snapshot, error) {
	data, err := os.ReadFile(s.LatestPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		s.logger.WarnContext(ctx, "latest snapshot unreadable", "path", s.LatestPath(), "err", err)
		return nil, nil
	}

	snapshot, err := pagesnap.DecodeSnapshot(bytes.NewReader(data))
	if err != nil {
		s.logger.WarnContext(ctx, "latest snapshot corrupt", "path", s.LatestPath(), "err", err)
		return nil, nil
	}
	return snapshot, nil
}

// Save writes snapshot to a temporary file, renames the current latest
// file to the previous one, and moves the new file into place.
func (s *SnapshotStore) Save(ctx context.Context, snapshot pagesnap.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to create snapshot directory: %v", err)
	}

	tmp, err := os.CreateTemp(s.dir, "latest-*.json.tmp")
	if err != nil {
		return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to create temp file: %v", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if err := pagesnap.EncodeSnapshot(tmp, snapshot); err != nil {
		tmp.Close()
		return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to encode snapshot: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to write snapshot: %v", err)
	}

	if err := os.Rename(s.LatestPath(), s.PreviousPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to rotate snapshot: %v", err)
	}
	if err := os.Rename(tmpPath, s.LatestPath()); err != nil {
		return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to replace latest snapshot: %v", err)
	}
	return nil
}
