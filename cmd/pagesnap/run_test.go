package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/pagesnap"
	main "github.com/fwojciec/pagesnap/cmd/pagesnap"
	"github.com/fwojciec/pagesnap/crawl"
	"github.com/fwojciec/pagesnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeps(t *testing.T, urls []string, content string) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cfg := main.DefaultConfig()
	deps := &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: &stdout,
		Stderr: &stderr,
		Config: cfg,
		Runner: &crawl.Runner{
			Source: pagesnap.StaticURLs(urls),
			Crawler: &crawl.Crawler{
				Fetcher: &mock.Fetcher{
					FetchFn: func(context.Context, string) (string, error) { return content, nil },
				},
				Extractor: &mock.Extractor{
					ExtractFn: func(html string) ([]pagesnap.Chunk, error) {
						return []pagesnap.Chunk{{Text: html}}, nil
					},
				},
			},
			Store: &mock.SnapshotStore{
				LoadFn: func(context.Context) (pagesnap.Snapshot, error) { return nil, nil },
				SaveFn: func(context.Context, pagesnap.Snapshot) error { return nil },
			},
			Differ: &mock.Differ{
				HasChangedFn: func(prev, next pagesnap.Snapshot) bool { return true },
			},
		},
	}
	return deps, &stdout, &stderr
}

func TestRunCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("previews the first page of a changed snapshot", func(t *testing.T) {
		t.Parallel()

		content := strings.Repeat("가", main.PreviewLen+50)
		deps, stdout, _ := newDeps(t, []string{"https://a.example"}, content)

		err := (&main.RunCmd{}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "--- https://a.example ---")
		preview := out[strings.Index(out, "---\n")+4:]
		assert.Equal(t, main.PreviewLen, utf8.RuneCountInString(strings.TrimSuffix(preview, "\n")))
	})

	t.Run("prints a hint for an empty URL list", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(t, nil, "")

		err := (&main.RunCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No URLs to crawl")
		assert.Contains(t, stdout.String(), "urls.txt")
	})

	t.Run("returns the error without printing it", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(t, []string{"https://a.example"}, "text")
		deps.Runner.Store = &mock.SnapshotStore{
			LoadFn: func(context.Context) (pagesnap.Snapshot, error) {
				return nil, pagesnap.Errorf(pagesnap.ESTORAGE, "disk unavailable")
			},
		}

		err := (&main.RunCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "disk unavailable", pagesnap.ErrorMessage(err))
		assert.Empty(t, stderr.String())
	})
}
