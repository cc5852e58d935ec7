package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/crawl"
	"github.com/fwojciec/pagesnap/diff"
	"github.com/fwojciec/pagesnap/fs"
	"github.com/fwojciec/pagesnap/goquery"
	pagesnaphttp "github.com/fwojciec/pagesnap/http"
	"github.com/fwojciec/pagesnap/readability"
	"github.com/fwojciec/pagesnap/rod"
	pagesnapslog "github.com/fwojciec/pagesnap/slog"
	"github.com/fwojciec/pagesnap/sqlite"
	"github.com/fwojciec/pagesnap/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher overrides the configured fetcher. Set before calling Run().
	Fetcher pagesnap.Fetcher

	// SQLite database used by the sqlite store, if configured.
	DB *sqlite.DB

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases the resources opened by Run.
func (m *Main) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	return first
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	err := m.run(ctx, args, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", errorText(err))
	}
	return err
}

// errorText returns the message of an application error, or the full text
// of any other error.
func errorText(err error) string {
	if pagesnap.ErrorCode(err) == pagesnap.EINTERNAL {
		return err.Error()
	}
	return pagesnap.ErrorMessage(err)
}

func (m *Main) run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagesnap"),
		kong.Description("Snapshot the readable text of web pages and detect changes"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagesnap --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	cli.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	deps.Config = cfg

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	defer m.Close()
	if err := m.wire(deps, kongCtx.Command()); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire builds the services the command needs from deps.Config.
func (m *Main) wire(deps *Dependencies, command string) error {
	cfg := deps.Config

	fetcher, err := m.fetcher(cfg, deps.Stderr)
	if err != nil {
		return err
	}

	extractor, err := newExtractor(cfg.Extract)
	if err != nil {
		return err
	}

	onError, _ := crawl.ParseFailurePolicy(cfg.OnError)
	deps.Crawler = &crawl.Crawler{
		Fetcher:   pagesnapslog.NewLoggingFetcher(fetcher, deps.Logger),
		Extractor: pagesnapslog.NewLoggingExtractor(extractor, deps.Logger),
		OnError:   onError,
		Dedupe:    cfg.Dedupe,
	}
	if command == "serve" {
		return nil
	}
	if command == "run" {
		deps.Crawler.Progress = progress(deps)
	}

	store, err := m.store(cfg, deps.Logger)
	if err != nil {
		return err
	}
	differ, _ := diff.New(cfg.Diff)
	save, _ := crawl.ParseSaveMode(cfg.Save)

	deps.Runner = &crawl.Runner{
		Source:  newSource(cfg, deps.Logger),
		Crawler: deps.Crawler,
		Store:   pagesnapslog.NewLoggingStore(store, deps.Logger),
		Differ:  differ,
		Save:    save,
		Logger:  deps.Logger,
	}
	return nil
}

func (m *Main) fetcher(cfg Config, stderr io.Writer) (pagesnap.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	if cfg.Fetcher.Kind == FetcherHTTP {
		f := pagesnaphttp.NewFetcher(
			pagesnaphttp.WithTimeout(cfg.FetchTimeout()),
			pagesnaphttp.WithUserAgent(cfg.Fetcher.UserAgent),
		)
		m.closers = append(m.closers, f.Close)
		return f, nil
	}

	f, err := rod.NewFetcher(
		rod.WithFetchTimeout(cfg.FetchTimeout()),
		rod.WithRenderDelay(cfg.Fetcher.RenderDelay),
		rod.WithTabDelay(cfg.Fetcher.TabDelay),
		rod.WithUserAgent(cfg.Fetcher.UserAgent),
		rod.WithStealth(cfg.Fetcher.Stealth),
		rod.WithTabExpansion(cfg.Fetcher.ExpandTabs),
		rod.WithManagerOptions(rod.WithMaxPages(cfg.Fetcher.MaxPages)),
	)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --fetcher http")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	m.closers = append(m.closers, f.Close)
	return f, nil
}

func (m *Main) store(cfg Config, logger *slog.Logger) (pagesnap.SnapshotStore, error) {
	if cfg.Store == StoreFile {
		return fs.NewSnapshotStore(cfg.DataDir, fs.WithLogger(logger)), nil
	}

	path := cfg.SQLitePath
	if path == "" {
		path = filepath.Join(cfg.DataDir, "pagesnap.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, pagesnap.Errorf(pagesnap.ESTORAGE, "failed to create %s: %v", filepath.Dir(path), err)
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.closers = append(m.closers, m.DB.Close)
	return sqlite.NewSnapshotStore(m.DB, sqlite.WithLogger(logger)), nil
}

func newExtractor(cfg ExtractConfig) (pagesnap.Extractor, error) {
	switch cfg.Locator {
	case LocatorGoquery:
		return goquery.NewExtractor(goquery.WithFAQRoot(cfg.FAQRoot)), nil
	case LocatorTrafilatura:
		return trafilatura.NewExtractor(), nil
	case LocatorReadability:
		return readability.NewExtractor(), nil
	}
	return nil, pagesnap.Errorf(pagesnap.EINVALID, "unknown locator %q", cfg.Locator)
}

func newSource(cfg Config, logger *slog.Logger) pagesnap.URLSource {
	switch {
	case len(cfg.URLs) > 0:
		return pagesnap.StaticURLs(cfg.URLs)
	case cfg.Sitemap != "":
		client := &http.Client{Timeout: cfg.FetchTimeout()}
		src := pagesnaphttp.NewSitemapSource(client, cfg.Sitemap, pagesnaphttp.WithPathPrefix(cfg.SitemapPrefix))
		return pagesnapslog.NewLoggingURLSource(src, cfg.Sitemap, logger)
	default:
		return pagesnapslog.NewLoggingURLSource(fs.NewURLFile(cfg.URLsFile), cfg.URLsFile, logger)
	}
}
