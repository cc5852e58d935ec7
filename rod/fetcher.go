// Package rod provides a headless Chrome implementation of pagesnap.Fetcher
// for pages that need JavaScript rendering or tab activation.
package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Defaults for Fetcher options.
const (
	DefaultFetchTimeout = 60 * time.Second
	DefaultRenderDelay  = 2 * time.Second
	DefaultTabDelay     = 1500 * time.Millisecond
)

// TabSelector matches the tab controls activated during tab expansion.
const TabSelector = `[role="tab"]`

// Ensure Fetcher implements pagesnap.Fetcher and pagesnap.ViewFetcher at
// compile time.
var (
	_ pagesnap.Fetcher     = (*Fetcher)(nil)
	_ pagesnap.ViewFetcher = (*Fetcher)(nil)
)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager     *BrowserManager
	managerOpts []ManagerOption
	timeout     time.Duration
	renderDelay time.Duration
	tabDelay    time.Duration
	userAgent   string
	stealth     bool
	expandTabs  bool
	closed      atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each fetch, including render and tab delays.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRenderDelay sets how long to wait after the load event before the
// page is read.
func WithRenderDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.renderDelay = d
	}
}

// WithTabDelay sets how long to wait after activating each tab.
func WithTabDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.tabDelay = d
	}
}

// WithUserAgent overrides the browser user agent. Defaults to
// pagesnap.DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithStealth opens pages with go-rod/stealth evasions applied.
func WithStealth(enabled bool) Option {
	return func(f *Fetcher) {
		f.stealth = enabled
	}
}

// WithTabExpansion makes FetchViews activate every tab control on the page
// and return one view per tab.
func WithTabExpansion(enabled bool) Option {
	return func(f *Fetcher) {
		f.expandTabs = enabled
	}
}

// WithManagerOptions configures the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, opts...)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		renderDelay: DefaultRenderDelay,
		tabDelay:    DefaultTabDelay,
		userAgent:   pagesnap.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	views, err := f.render(ctx, url, false)
	if err != nil {
		return "", err
	}
	return views[0], nil
}

// FetchViews navigates to the URL and returns its rendered HTML. With tab
// expansion enabled and at least one tab control present, it instead
// returns the HTML rendered after activating each tab in turn.
func (f *Fetcher) FetchViews(ctx context.Context, url string) ([]string, error) {
	return f.render(ctx, url, f.expandTabs)
}

func (f *Fetcher) render(ctx context.Context, url string, expandTabs bool) ([]string, error) {
	if f.closed.Load() {
		return nil, pagesnap.Errorf(pagesnap.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.openPage()
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.manager.IncrementPageCount()
	defer page.Close()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load %s: %w", url, err)
	}
	if err := sleep(ctx, f.renderDelay); err != nil {
		return nil, err
	}

	if expandTabs {
		views, err := f.tabViews(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(views) > 0 {
			return views, nil
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read HTML of %s: %w", url, err)
	}
	return []string{html}, nil
}

// tabViews activates each tab control in document order and returns the
// HTML rendered after each activation. A page without tabs yields nil.
func (f *Fetcher) tabViews(ctx context.Context, page *rod.Page) ([]string, error) {
	tabs, err := page.Elements(TabSelector)
	if err != nil {
		return nil, fmt.Errorf("find tabs: %w", err)
	}

	views := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		if err := tab.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return nil, fmt.Errorf("activate tab %d: %w", i, err)
		}
		if err := sleep(ctx, f.tabDelay); err != nil {
			return nil, err
		}
		html, err := page.HTML()
		if err != nil {
			return nil, fmt.Errorf("read HTML after tab %d: %w", i, err)
		}
		views = append(views, html)
	}
	return views, nil
}

func (f *Fetcher) openPage() (*rod.Page, error) {
	browser := f.manager.Browser()
	if browser == nil {
		return nil, pagesnap.Errorf(pagesnap.EINVALID, "fetcher is closed")
	}
	if f.stealth {
		return stealth.Page(browser)
	}
	return browser.Page(proto.TargetCreateTarget{})
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
