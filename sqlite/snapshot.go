package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/diff"
	"github.com/google/uuid"
)

// Snapshot generations.
const (
	GenerationLatest   = "latest"
	GenerationPrevious = "previous"
)

// Compile-time interface verification.
var _ pagesnap.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore implements pagesnap.SnapshotStore using SQLite. It keeps
// the latest snapshot and the one before it.
type SnapshotStore struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a SnapshotStore.
type Option func(*SnapshotStore)

// WithLogger sets the logger used to report unreadable snapshots.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SnapshotStore) {
		s.logger = logger
	}
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(db *DB, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		db:     db,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the latest snapshot, or nil when none is stored. A snapshot
// that cannot be read, or whose pages fail to decode or no longer match
// their stored content hash, is logged and also yields nil.
func (s *SnapshotStore) Load(ctx context.Context) (pagesnap.Snapshot, error) {
	return s.LoadGeneration(ctx, GenerationLatest)
}

// LoadGeneration returns the snapshot stored under generation.
func (s *SnapshotStore) LoadGeneration(ctx context.Context, generation string) (pagesnap.Snapshot, error) {
	var id string
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, page_count FROM snapshots WHERE generation = ?
	`, generation).Scan(&id, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return s.unreadable(ctx, "stored snapshot unreadable", err, "generation", generation)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT url, content, content_hash, chunks, error
		FROM pages
		WHERE snapshot_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return s.unreadable(ctx, "stored pages unreadable", err, "snapshot_id", id)
	}
	defer rows.Close()

	snapshot := make(pagesnap.Snapshot, 0, count)
	for rows.Next() {
		var p pagesnap.PageResult
		var hash, chunks string
		if err := rows.Scan(&p.URL, &p.Content, &hash, &chunks, &p.Error); err != nil {
			return s.unreadable(ctx, "stored pages unreadable", err, "snapshot_id", id)
		}
		if hash != diff.Fingerprint(p.Content) {
			s.logger.WarnContext(ctx, "stored snapshot corrupt", "snapshot_id", id, "url", p.URL, "err", "content hash mismatch")
			return nil, nil
		}
		if err := json.Unmarshal([]byte(chunks), &p.Chunks); err != nil {
			s.logger.WarnContext(ctx, "stored snapshot corrupt", "snapshot_id", id, "url", p.URL, "err", err)
			return nil, nil
		}
		snapshot = append(snapshot, p)
	}
	if err := rows.Err(); err != nil {
		return s.unreadable(ctx, "stored pages unreadable", err, "snapshot_id", id)
	}
	if len(snapshot) != count {
		s.logger.WarnContext(ctx, "stored snapshot incomplete", "snapshot_id", id, "want", count, "got", len(snapshot))
		return nil, nil
	}
	return snapshot, nil
}

// unreadable reports a snapshot that could not be read as absent. A
// cancelled context is still returned as an error.
func (s *SnapshotStore) unreadable(ctx context.Context, msg string, err error, args ...any) (pagesnap.Snapshot, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	s.logger.WarnContext(ctx, msg, append(args, "err", err)...)
	return nil, nil
}

// Save stores snapshot as the latest generation in one transaction, moving
// the current latest generation to previous and dropping the old previous.
func (s *SnapshotStore) Save(ctx context.Context, snapshot pagesnap.Snapshot) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE generation = ?`, GenerationPrevious); err != nil {
		return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to drop previous snapshot: %v", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE snapshots SET generation = ? WHERE generation = ?`,
		GenerationPrevious, GenerationLatest); err != nil {
		return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to rotate snapshot: %v", err)
	}

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, generation, page_count, saved_at)
		VALUES (?, ?, ?, ?)
	`, id, GenerationLatest, len(snapshot), s.now().UTC().Format(time.RFC3339)); err != nil {
		return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to insert snapshot: %v", err)
	}

	for i, p := range snapshot {
		chunks := p.Chunks
		if chunks == nil {
			chunks = []pagesnap.Chunk{}
		}
		data, err := json.Marshal(chunks)
		if err != nil {
			return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to encode chunks: %v", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pages (snapshot_id, position, url, content, content_hash, chunks, error)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, i, p.URL, p.Content, diff.Fingerprint(p.Content), string(data), p.Error); err != nil {
			return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to insert page: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return pagesnap.Errorf(pagesnap.ESTORAGE, "failed to commit snapshot: %v", err)
	}
	return nil
}
