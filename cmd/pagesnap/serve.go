package main

import (
	"github.com/fwojciec/pagesnap/chi"
	"golang.org/x/time/rate"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := chi.NewServer(deps.Crawler,
		chi.WithAddr(deps.Config.Listen),
		chi.WithLogger(deps.Logger),
		chi.WithCrawlRate(rate.Limit(deps.Config.CrawlRate), deps.Config.CrawlBurst),
	)
	return srv.ListenAndServe(deps.Ctx)
}
