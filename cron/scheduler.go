// Package cron runs a job on a robfig/cron schedule without overlapping runs.
package cron

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fwojciec/pagesnap"
	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Parser accepts standard five-field expressions and descriptors such as
// "@hourly" and "@every 30m".
var Parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Scheduler runs a Job on a schedule. A tick that arrives while the previous
// run is still going is skipped.
type Scheduler struct {
	logger     *slog.Logger
	runOnStart bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger for job results and scheduler events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithRunOnStart runs the job once as soon as Run starts, before the first
// tick.
func WithRunOnStart(enabled bool) Option {
	return func(s *Scheduler) {
		s.runOnStart = enabled
	}
}

// NewScheduler creates a new Scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate reports whether spec is a schedule the Scheduler accepts.
func Validate(spec string) error {
	if _, err := Parser.Parse(spec); err != nil {
		return pagesnap.Errorf(pagesnap.EINVALID, "invalid schedule %q: %s", spec, err)
	}
	return nil
}

// Run schedules job according to spec and blocks until ctx is cancelled and
// any run in progress has finished. Job errors are logged, never returned.
func (s *Scheduler) Run(ctx context.Context, spec string, job Job) error {
	schedule, err := Parser.Parse(spec)
	if err != nil {
		return pagesnap.Errorf(pagesnap.EINVALID, "invalid schedule %q: %s", spec, err)
	}

	logger := cronLogger{s.logger}
	c := cron.New(cron.WithParser(Parser), cron.WithLogger(logger))
	wrapped := cron.NewChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)).Then(cron.FuncJob(func() {
		if err := job(ctx); err != nil {
			s.logger.Error("scheduled run failed", "err", err)
		}
	}))
	c.Schedule(schedule, wrapped)

	s.logger.Info("scheduler started", "schedule", spec)
	c.Start()
	var wg sync.WaitGroup
	if s.runOnStart {
		wg.Go(wrapped.Run)
	}

	<-ctx.Done()
	<-c.Stop().Done()
	wg.Wait()
	s.logger.Info("scheduler stopped")
	return nil
}

// cronLogger adapts slog to cron.Logger. Cron's routine info messages are
// logged at debug level.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron "+msg, append(keysAndValues, "err", err)...)
}
