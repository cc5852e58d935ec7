package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/google/uuid"
)

// SaveMode decides when a run writes its snapshot.
type SaveMode string

const (
	// SaveChanged writes only when the differ reports a change.
	SaveChanged SaveMode = "changed"
	// SaveAlways writes on every run.
	SaveAlways SaveMode = "always"
)

// ParseSaveMode converts a configuration value to a SaveMode. The empty
// string selects SaveChanged.
func ParseSaveMode(s string) (SaveMode, error) {
	switch SaveMode(s) {
	case "", SaveChanged:
		return SaveChanged, nil
	case SaveAlways:
		return SaveAlways, nil
	}
	return "", pagesnap.Errorf(pagesnap.EINVALID, "unknown save mode %q (want changed or always)", s)
}

// RunResult summarizes one run.
type RunResult struct {
	RunID    string
	URLs     int
	Snapshot pagesnap.Snapshot
	Failed   int
	Changed  bool
	Saved    bool
	Duration time.Duration
}

// Runner performs one complete run: list URLs, crawl them, compare the
// result with the stored snapshot and save it.
type Runner struct {
	Source  pagesnap.URLSource
	Crawler *Crawler
	Store   pagesnap.SnapshotStore
	Differ  pagesnap.Differ
	Save    SaveMode
	Logger  *slog.Logger
}

// Run executes a run. An empty URL list returns a zero result without
// touching the store.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	begin := time.Now()
	res := &RunResult{RunID: uuid.NewString()}
	logger := r.logger().With("run_id", res.RunID)

	urls, err := r.Source.URLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list urls: %w", err)
	}
	res.URLs = len(urls)
	if len(urls) == 0 {
		logger.Warn("no urls to crawl")
		return res, nil
	}

	logger.Info("run started", "urls", len(urls))
	snap, err := r.Crawler.Crawl(ctx, urls)
	if err != nil {
		logger.Error("run failed", "err", err)
		return nil, err
	}
	res.Snapshot = snap
	for _, p := range snap {
		if p.Failed() {
			res.Failed++
		}
	}

	prev, err := r.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	res.Changed = r.Differ.HasChanged(prev, snap)

	if res.Changed || r.Save == SaveAlways {
		if err := r.Store.Save(ctx, snap); err != nil {
			return nil, fmt.Errorf("save snapshot: %w", err)
		}
		res.Saved = true
	}

	res.Duration = time.Since(begin)
	logger.Info("run finished",
		"pages", len(snap),
		"failed", res.Failed,
		"changed", res.Changed,
		"saved", res.Saved,
		"duration", res.Duration,
	)
	return res, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}
