package crawl_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/crawl"
	"github.com/fwojciec/pagesnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

// pages serves the given HTML per URL and fails for unknown URLs.
func pages(m map[string]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			html, ok := m[url]
			if !ok {
				return "", errors.New("connection refused")
			}
			return html, nil
		},
	}
}

// lines extracts one body chunk per line of the fetched text.
func lines() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(html string) ([]pagesnap.Chunk, error) {
			var chunks []pagesnap.Chunk
			for _, l := range strings.Split(html, "|") {
				if l != "" {
					chunks = append(chunks, pagesnap.Chunk{Text: l})
				}
			}
			return chunks, nil
		},
	}
}

func TestParseFailurePolicy(t *testing.T) {
	t.Parallel()

	p, err := crawl.ParseFailurePolicy("")
	require.NoError(t, err)
	assert.Equal(t, crawl.FailRecord, p)

	p, err = crawl.ParseFailurePolicy("abort")
	require.NoError(t, err)
	assert.Equal(t, crawl.FailAbort, p)

	_, err = crawl.ParseFailurePolicy("retry")
	assert.Equal(t, pagesnap.EINVALID, pagesnap.ErrorCode(err))
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("returns pages in URL order with flattened content", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: pages(map[string]string{
				"https://a.example": "alpha one|alpha two",
				"https://b.example": "beta",
			}),
			Extractor: lines(),
		}

		snap, err := c.Crawl(context.Background(), []string{"https://b.example", "https://a.example"})

		require.NoError(t, err)
		require.Len(t, snap, 2)
		assert.Equal(t, "https://b.example", snap[0].URL)
		assert.Equal(t, "beta", snap[0].Content)
		assert.Equal(t, "https://a.example", snap[1].URL)
		assert.Equal(t, "alpha one\n\nalpha two", snap[1].Content)
	})

	t.Run("records failures and continues by default", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:   pages(map[string]string{"https://ok.example": "fine"}),
			Extractor: lines(),
		}

		snap, err := c.Crawl(context.Background(), []string{"https://down.example", "https://ok.example"})

		require.NoError(t, err)
		require.Len(t, snap, 2)
		assert.Equal(t, pagesnap.PageResult{
			URL:    "https://down.example",
			Chunks: []pagesnap.Chunk{},
			Error:  "connection refused",
		}, snap[0])
		assert.True(t, snap[0].Failed())
		assert.Equal(t, "fine", snap[1].Content)
	})

	t.Run("aborts at the first failure under abort policy", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					fetched = append(fetched, url)
					return "", errors.New("timeout")
				},
			},
			Extractor: lines(),
			OnError:   crawl.FailAbort,
		}

		snap, err := c.Crawl(context.Background(), []string{"https://a.example", "https://b.example"})

		require.Error(t, err)
		assert.Nil(t, snap)
		assert.Equal(t, pagesnap.EFETCH, pagesnap.ErrorCode(err))
		assert.Contains(t, pagesnap.ErrorMessage(err), "https://a.example")
		assert.Equal(t, []string{"https://a.example"}, fetched)
	})

	t.Run("treats extraction errors as page failures", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: pages(map[string]string{"https://a.example": "x"}),
			Extractor: &mock.Extractor{
				ExtractFn: func(string) ([]pagesnap.Chunk, error) {
					return nil, pagesnap.Errorf(pagesnap.EPARSE, "bad html")
				},
			},
		}

		snap, err := c.Crawl(context.Background(), []string{"https://a.example"})

		require.NoError(t, err)
		require.Len(t, snap, 1)
		assert.Equal(t, "bad html", snap[0].Error)
	})

	t.Run("stops with the context error when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, _ string) (string, error) {
					cancel()
					return "", ctx.Err()
				},
			},
			Extractor: lines(),
		}

		_, err := c.Crawl(ctx, []string{"https://a.example", "https://b.example"})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("keeps pages with no chunks when dedupe is off", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:   pages(map[string]string{"https://a.example": ""}),
			Extractor: lines(),
		}

		snap, err := c.Crawl(context.Background(), []string{"https://a.example"})

		require.NoError(t, err)
		require.Len(t, snap, 1)
		assert.Empty(t, snap[0].Content)
		assert.NotNil(t, snap[0].Chunks)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		var events []crawl.ProgressType
		c := &crawl.Crawler{
			Fetcher:   pages(map[string]string{"https://a.example": "alpha"}),
			Extractor: lines(),
			Progress: func(e crawl.ProgressEvent) {
				events = append(events, e.Type)
			},
		}

		_, err := c.Crawl(context.Background(), []string{"https://a.example", "https://b.example"})

		require.NoError(t, err)
		assert.Equal(t, []crawl.ProgressType{
			crawl.ProgressStarted,
			crawl.ProgressCompleted,
			crawl.ProgressFailed,
			crawl.ProgressFinished,
		}, events)
	})
}

func TestCrawler_Crawl_Dedupe(t *testing.T) {
	t.Parallel()

	shared := "Shared footer text that appears on every page"

	t.Run("drops long lines seen on earlier pages", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: pages(map[string]string{
				"https://a.example": "Page A specific long paragraph text|" + shared,
				"https://b.example": "Page B specific long paragraph text|" + shared,
			}),
			Extractor: lines(),
			Dedupe:    true,
		}

		snap, err := c.Crawl(context.Background(), []string{"https://a.example", "https://b.example"})

		require.NoError(t, err)
		require.Len(t, snap, 2)
		assert.Contains(t, snap[0].Content, shared)
		assert.Equal(t, "Page B specific long paragraph text", snap[1].Content)
	})

	t.Run("omits pages left empty", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: pages(map[string]string{
				"https://a.example": shared,
				"https://b.example": shared,
			}),
			Extractor: lines(),
			Dedupe:    true,
		}

		snap, err := c.Crawl(context.Background(), []string{"https://a.example", "https://b.example"})

		require.NoError(t, err)
		require.Len(t, snap, 1)
		assert.Equal(t, "https://a.example", snap[0].URL)
	})

	t.Run("starts every crawl with an empty seen set", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:   pages(map[string]string{"https://a.example": shared}),
			Extractor: lines(),
			Dedupe:    true,
		}

		first, err := c.Crawl(context.Background(), []string{"https://a.example"})
		require.NoError(t, err)
		second, err := c.Crawl(context.Background(), []string{"https://a.example"})
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, second, 1)
	})
}

func TestCrawler_Process(t *testing.T) {
	t.Parallel()

	t.Run("merges views and drops chunks repeated across them", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.ViewFetcher{
				FetchViewsFn: func(context.Context, string) ([]string, error) {
					return []string{"intro|plans tab", "intro|billing tab"}, nil
				},
			},
			Extractor: lines(),
		}

		o := c.Process(context.Background(), "https://a.example", nil)

		require.NoError(t, o.Err)
		assert.Equal(t, "https://a.example", o.URL)
		assert.Equal(t, []pagesnap.Chunk{
			{Text: "intro"},
			{Text: "plans tab"},
			{Text: "billing tab"},
		}, o.Page.Chunks)
		assert.Equal(t, "intro\n\nplans tab\n\nbilling tab", o.Page.Content)
	})

	t.Run("compares headings by value across views", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.ViewFetcher{
				FetchViewsFn: func(context.Context, string) ([]string, error) {
					return []string{"a", "b"}, nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractFn: func(string) ([]pagesnap.Chunk, error) {
					return []pagesnap.Chunk{{Heading: ptr("Pricing"), Text: "Same text"}}, nil
				},
			},
		}

		o := c.Process(context.Background(), "https://a.example", nil)

		require.NoError(t, o.Err)
		assert.Len(t, o.Page.Chunks, 1)
	})

	t.Run("returns the fetch error", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: pages(nil), Extractor: lines()}

		o := c.Process(context.Background(), "https://a.example", nil)

		require.Error(t, o.Err)
		assert.Equal(t, "https://a.example", o.URL)
	})
}
