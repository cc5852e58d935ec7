//go:build integration

package rod_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/goquery"
	"github.com/fwojciec/pagesnap/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Integration_ReactDocs(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fetcher, err := rod.NewFetcher(rod.WithStealth(true), rod.WithTabExpansion(true))
	require.NoError(t, err)
	defer fetcher.Close()

	// React docs is a fully client-rendered app; its content exists only
	// after JavaScript runs.
	views, err := fetcher.FetchViews(ctx, "https://react.dev/learn")
	require.NoError(t, err)
	require.NotEmpty(t, views)

	chunks, err := goquery.NewExtractor().Extract(views[0])
	require.NoError(t, err)

	content := pagesnap.Flatten(chunks)
	assert.Contains(t, content, "Quick Start", "expected rendered page title")
	assert.NotContains(t, content, "function(", "expected script content to be dropped")

	t.Logf("Extracted %d chunks from %d views of react.dev/learn", len(chunks), len(views))
}
