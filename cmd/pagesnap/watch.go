package main

import (
	"context"

	"github.com/fwojciec/pagesnap/cron"
)

// Run executes the watch command.
func (c *WatchCmd) Run(deps *Dependencies) error {
	sched := cron.NewScheduler(cron.WithLogger(deps.Logger), cron.WithRunOnStart(true))
	return sched.Run(deps.Ctx, deps.Config.Schedule, func(ctx context.Context) error {
		res, err := deps.Runner.Run(ctx)
		if err != nil {
			return err
		}
		report(deps, res)
		return nil
	})
}
