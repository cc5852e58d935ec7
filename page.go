package pagesnap

import "context"

// DefaultUserAgent is the browser user agent fetchers send unless
// configured otherwise.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Chunk is one semantically coherent unit of body text, optionally scoped
// under the most recent preceding heading.
type Chunk struct {
	Heading *string `json:"heading"`
	Text    string  `json:"text"`
}

// HeadingText returns the chunk heading, or "" when none is in scope.
func (c Chunk) HeadingText() string {
	if c.Heading == nil {
		return ""
	}
	return *c.Heading
}

// PageResult is the outcome of crawling a single URL.
// Content is Chunks flattened to a single string (see Flatten).
// Error is set, and Content and Chunks are empty, when the page failed.
type PageResult struct {
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Chunks  []Chunk `json:"chunks"`
	Error   string  `json:"error,omitempty"`
}

// Failed reports whether the page was recorded as a fetch failure.
func (p PageResult) Failed() bool {
	return p.Error != ""
}

// Snapshot is the ordered result of one crawl run.
type Snapshot []PageResult

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch navigates to the URL and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	Close() error
}

// ViewFetcher is implemented by fetchers that can reveal more than one view
// of a page, for example by activating each of its tab controls.
type ViewFetcher interface {
	// FetchViews returns the rendered HTML of every view of the page, in
	// the order the views were revealed. It always returns at least one
	// view on success.
	FetchViews(ctx context.Context, url string) ([]string, error)
}

// FetchViews returns every view of url using f. Fetchers that do not
// implement ViewFetcher yield exactly one view.
func FetchViews(ctx context.Context, f Fetcher, url string) ([]string, error) {
	if vf, ok := f.(ViewFetcher); ok {
		return vf.FetchViews(ctx, url)
	}
	html, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return []string{html}, nil
}

// Extractor turns an HTML document into heading-scoped chunks, discarding
// navigation chrome and other noise.
type Extractor interface {
	Extract(html string) ([]Chunk, error)
}

// URLSource supplies the list of URLs to crawl.
type URLSource interface {
	URLs(ctx context.Context) ([]string, error)
}

// StaticURLs is a URLSource backed by a fixed list.
type StaticURLs []string

// URLs returns the list unchanged.
func (s StaticURLs) URLs(_ context.Context) ([]string, error) {
	return s, nil
}

// SnapshotStore persists snapshots, keeping exactly one generation of history.
type SnapshotStore interface {
	// Load returns the latest stored snapshot. It returns nil, without an
	// error, when no snapshot exists or the stored one is unreadable.
	Load(ctx context.Context) (Snapshot, error)

	// Save makes s the latest snapshot, rotating the current latest
	// snapshot (if any) to the previous generation.
	Save(ctx context.Context, s Snapshot) error
}

// Differ decides whether a snapshot differs from its predecessor.
type Differ interface {
	// HasChanged reports whether next differs from prev.
	// An empty prev always counts as changed.
	HasChanged(prev, next Snapshot) bool
}
