// Package crawl orchestrates a snapshot run: each URL is fetched and
// extracted in order, failures are handled under a FailurePolicy, and the
// resulting snapshot is diffed against and saved to a SnapshotStore.
package crawl

import (
	"context"
	"fmt"

	"github.com/fwojciec/pagesnap"
)

// FailurePolicy decides what a failed URL does to the run.
type FailurePolicy string

const (
	// FailRecord records the failure as a PageResult with Error set and
	// keeps going.
	FailRecord FailurePolicy = "record"
	// FailAbort stops the run at the first failure.
	FailAbort FailurePolicy = "abort"
)

// ParseFailurePolicy converts a configuration value to a FailurePolicy.
// The empty string selects FailRecord.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case "", FailRecord:
		return FailRecord, nil
	case FailAbort:
		return FailAbort, nil
	}
	return "", pagesnap.Errorf(pagesnap.EINVALID, "unknown failure policy %q (want record or abort)", s)
}

// Outcome is the result of processing a single URL. Exactly one of Page
// and Err is meaningful.
type Outcome struct {
	URL  string
	Page pagesnap.PageResult
	Err  error
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Bytes     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawler fetches and extracts a list of URLs sequentially.
type Crawler struct {
	Fetcher   pagesnap.Fetcher
	Extractor pagesnap.Extractor
	OnError   FailurePolicy

	// Dedupe drops lines already seen on an earlier page of the same
	// crawl, and omits pages that end up empty.
	Dedupe bool

	Progress ProgressFunc
}

// Crawl processes urls in order and returns their snapshot. Under
// FailAbort the first failure returns an EFETCH error naming its URL.
// Cancelling ctx stops the crawl with the context's error.
func (c *Crawler) Crawl(ctx context.Context, urls []string) (pagesnap.Snapshot, error) {
	var dedupe *Deduper
	if c.Dedupe {
		dedupe = NewDeduper(len(urls))
	}

	c.notify(ProgressEvent{Type: ProgressStarted, Total: len(urls)})

	snap := make(pagesnap.Snapshot, 0, len(urls))
	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		o := c.Process(ctx, url, dedupe)
		if o.Err != nil {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("crawl %s: %w", url, err)
			}
			c.notify(ProgressEvent{Type: ProgressFailed, Completed: i + 1, Total: len(urls), URL: url, Error: o.Err})
			if c.OnError == FailAbort {
				return nil, pagesnap.Errorf(pagesnap.EFETCH, "crawl %s: %s", url, o.Err)
			}
			snap = append(snap, Failed(url, o.Err))
			continue
		}

		c.notify(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Total: len(urls), URL: url, Bytes: len(o.Page.Content)})
		if dedupe != nil && len(o.Page.Chunks) == 0 {
			continue
		}
		snap = append(snap, o.Page)
	}

	c.notify(ProgressEvent{Type: ProgressFinished, Completed: len(urls), Total: len(urls)})
	return snap, nil
}

// Process fetches every view of url and extracts it into a single page.
// Chunks repeated across views are kept once. A non-nil dedupe filters
// lines seen on earlier pages.
func (c *Crawler) Process(ctx context.Context, url string, dedupe *Deduper) Outcome {
	views, err := pagesnap.FetchViews(ctx, c.Fetcher, url)
	if err != nil {
		return Outcome{URL: url, Err: err}
	}

	chunks := []pagesnap.Chunk{}
	seen := make(map[chunkKey]struct{})
	for _, html := range views {
		extracted, err := c.Extractor.Extract(html)
		if err != nil {
			return Outcome{URL: url, Err: err}
		}
		for _, ch := range extracted {
			k := keyOf(ch)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			chunks = append(chunks, ch)
		}
	}

	if dedupe != nil {
		chunks = dedupe.Filter(chunks)
	}

	return Outcome{
		URL: url,
		Page: pagesnap.PageResult{
			URL:     url,
			Content: pagesnap.Flatten(chunks),
			Chunks:  chunks,
		},
	}
}

// Failed returns the PageResult recorded for a URL that could not be
// crawled.
func Failed(url string, err error) pagesnap.PageResult {
	return pagesnap.PageResult{
		URL:    url,
		Chunks: []pagesnap.Chunk{},
		Error:  err.Error(),
	}
}

func (c *Crawler) notify(e ProgressEvent) {
	if c.Progress != nil {
		c.Progress(e)
	}
}

// chunkKey identifies a chunk by value; Chunk itself compares headings by
// pointer.
type chunkKey struct {
	heading    string
	hasHeading bool
	text       string
}

func keyOf(ch pagesnap.Chunk) chunkKey {
	return chunkKey{heading: ch.HeadingText(), hasHeading: ch.Heading != nil, text: ch.Text}
}
