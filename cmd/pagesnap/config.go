package main

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/crawl"
	"github.com/fwojciec/pagesnap/cron"
	"github.com/fwojciec/pagesnap/diff"
	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Fetcher kinds.
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
)

// Extraction locators.
const (
	LocatorGoquery     = "goquery"
	LocatorTrafilatura = "trafilatura"
	LocatorReadability = "readability"
)

// Config is the complete runtime configuration. Values come from defaults,
// then the YAML config file, then flags and PAGESNAP_* environment
// variables.
type Config struct {
	URLsFile      string        `yaml:"urls_file"`
	URLs          []string      `yaml:"urls"`
	Sitemap       string        `yaml:"sitemap"`
	SitemapPrefix string        `yaml:"sitemap_prefix"`
	DataDir       string        `yaml:"data_dir"`
	Store         string        `yaml:"store"`
	SQLitePath    string        `yaml:"sqlite_path"`
	Fetcher       FetcherConfig `yaml:"fetcher"`
	Extract       ExtractConfig `yaml:"extract"`
	Diff          string        `yaml:"diff"`
	OnError       string        `yaml:"on_error"`
	Save          string        `yaml:"save"`
	Dedupe        bool          `yaml:"dedupe"`
	Schedule      string        `yaml:"schedule"`
	Listen        string        `yaml:"listen"`
	CrawlRate     float64       `yaml:"crawl_rate"`
	CrawlBurst    int           `yaml:"crawl_burst"`
}

// FetcherConfig configures page fetching.
type FetcherConfig struct {
	Kind        string        `yaml:"kind"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
	ExpandTabs  bool          `yaml:"expand_tabs"`
	TabDelay    time.Duration `yaml:"tab_delay"`
	RenderDelay time.Duration `yaml:"render_delay"`
	MaxPages    int64         `yaml:"max_pages"`
	Stealth     bool          `yaml:"stealth"`
}

// ExtractConfig configures content extraction.
type ExtractConfig struct {
	Locator string `yaml:"locator"`
	FAQRoot bool   `yaml:"faq_root"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		URLsFile: "urls.txt",
		DataDir:  "data",
		Store:    StoreFile,
		Fetcher: FetcherConfig{
			Kind:        FetcherBrowser,
			UserAgent:   pagesnap.DefaultUserAgent,
			ExpandTabs:  true,
			TabDelay:    1500 * time.Millisecond,
			RenderDelay: 2 * time.Second,
			MaxPages:    75,
		},
		Extract:    ExtractConfig{Locator: LocatorGoquery},
		Diff:       diff.PolicyStrict,
		OnError:    string(crawl.FailRecord),
		Save:       string(crawl.SaveChanged),
		Dedupe:     true,
		Schedule:   "@every 1h",
		Listen:     ":10000",
		CrawlRate:  0.1,
		CrawlBurst: 2,
	}
}

// LoadConfig returns the defaults overlaid with the YAML file at path.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, pagesnap.Errorf(pagesnap.ENOTFOUND, "config file %s not found", path)
	} else if err != nil {
		return cfg, pagesnap.Errorf(pagesnap.EINVALID, "failed to open config file: %v", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, pagesnap.Errorf(pagesnap.EINVALID, "invalid config file %s: %v", path, err)
	}
	return cfg, nil
}

// Validate checks every enumerated setting.
func (c Config) Validate() error {
	if _, err := diff.New(c.Diff); err != nil {
		return err
	}
	if _, err := crawl.ParseFailurePolicy(c.OnError); err != nil {
		return err
	}
	if _, err := crawl.ParseSaveMode(c.Save); err != nil {
		return err
	}
	switch c.Store {
	case StoreFile, StoreSQLite:
	default:
		return pagesnap.Errorf(pagesnap.EINVALID, "unknown store %q (want file or sqlite)", c.Store)
	}
	switch c.Fetcher.Kind {
	case FetcherHTTP, FetcherBrowser:
	default:
		return pagesnap.Errorf(pagesnap.EINVALID, "unknown fetcher %q (want http or browser)", c.Fetcher.Kind)
	}
	switch c.Extract.Locator {
	case LocatorGoquery, LocatorTrafilatura, LocatorReadability:
	default:
		return pagesnap.Errorf(pagesnap.EINVALID, "unknown locator %q (want goquery, trafilatura or readability)", c.Extract.Locator)
	}
	if c.Fetcher.Timeout < 0 {
		return pagesnap.Errorf(pagesnap.EINVALID, "fetcher timeout must not be negative")
	}
	if c.CrawlRate <= 0 || c.CrawlBurst <= 0 {
		return pagesnap.Errorf(pagesnap.EINVALID, "crawl_rate and crawl_burst must be positive")
	}
	return cron.Validate(c.Schedule)
}

// FetchTimeout returns the configured per-fetch timeout, or the default
// for the fetcher kind.
func (c Config) FetchTimeout() time.Duration {
	if c.Fetcher.Timeout > 0 {
		return c.Fetcher.Timeout
	}
	if c.Fetcher.Kind == FetcherHTTP {
		return 10 * time.Second
	}
	return 60 * time.Second
}
