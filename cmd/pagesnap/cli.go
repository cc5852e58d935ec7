package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Config  Config
	Crawler *crawl.Crawler
	Runner  *crawl.Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" type:"path" env:"PAGESNAP_CONFIG" help:"YAML config file"`
	Verbose bool   `short:"v" env:"PAGESNAP_VERBOSE" help:"Enable debug logging"`

	URLs     string        `name:"urls" env:"PAGESNAP_URLS" help:"Comma-separated URLs to crawl; overrides the URL file"`
	URLsFile string        `name:"urls-file" env:"PAGESNAP_URLS_FILE" help:"Newline-delimited URL list"`
	Sitemap  string        `env:"PAGESNAP_SITEMAP" help:"Sitemap URL to read the URL list from"`
	DataDir  string        `name:"data-dir" env:"PAGESNAP_DATA_DIR" help:"Directory for snapshot files"`
	Store    string        `env:"PAGESNAP_STORE" help:"Snapshot store: file or sqlite"`
	Fetcher  string        `env:"PAGESNAP_FETCHER" help:"Page fetcher: http or browser"`
	Timeout  time.Duration `env:"PAGESNAP_TIMEOUT" help:"Fetch timeout per page"`
	Diff     string        `env:"PAGESNAP_DIFF" help:"Change detection: strict or corpus"`
	OnError  string        `name:"on-error" env:"PAGESNAP_ON_ERROR" help:"Failed pages: record or abort"`
	Save     string        `env:"PAGESNAP_SAVE" help:"When to save: changed or always"`

	Run   RunCmd   `cmd:"" help:"Crawl once, compare with the stored snapshot and save it"`
	Serve ServeCmd `cmd:"" help:"Serve crawls over HTTP"`
	Watch WatchCmd `cmd:"" help:"Run on a schedule until interrupted"`
}

// Apply overlays the flags that were set onto cfg.
func (c *CLI) Apply(cfg *Config) {
	if c.URLs != "" {
		cfg.URLs = pagesnap.SplitURLs(c.URLs)
	}
	if c.URLsFile != "" {
		cfg.URLsFile = c.URLsFile
	}
	if c.Sitemap != "" {
		cfg.Sitemap = c.Sitemap
	}
	if c.DataDir != "" {
		cfg.DataDir = c.DataDir
	}
	if c.Store != "" {
		cfg.Store = c.Store
	}
	if c.Fetcher != "" {
		cfg.Fetcher.Kind = c.Fetcher
	}
	if c.Timeout > 0 {
		cfg.Fetcher.Timeout = c.Timeout
	}
	if c.Diff != "" {
		cfg.Diff = c.Diff
	}
	if c.OnError != "" {
		cfg.OnError = c.OnError
	}
	if c.Save != "" {
		cfg.Save = c.Save
	}
	if c.Watch.Schedule != "" {
		cfg.Schedule = c.Watch.Schedule
	}
	if c.Serve.Listen != "" {
		cfg.Listen = c.Serve.Listen
	}
}

// RunCmd is the "run" subcommand.
type RunCmd struct{}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Listen string `short:"l" env:"PAGESNAP_LISTEN" help:"Listen address"`
}

// WatchCmd is the "watch" subcommand.
type WatchCmd struct {
	Schedule string `short:"s" env:"PAGESNAP_SCHEDULE" help:"Cron expression or descriptor such as @every 1h"`
}
