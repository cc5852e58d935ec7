package mock

import (
	"context"

	"github.com/fwojciec/pagesnap"
)

var _ pagesnap.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pagesnap.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var (
	_ pagesnap.Fetcher     = (*ViewFetcher)(nil)
	_ pagesnap.ViewFetcher = (*ViewFetcher)(nil)
)

// ViewFetcher is a mock implementation of a pagesnap.Fetcher that also
// implements pagesnap.ViewFetcher.
type ViewFetcher struct {
	FetchFn      func(ctx context.Context, url string) (string, error)
	FetchViewsFn func(ctx context.Context, url string) ([]string, error)
	CloseFn      func() error
}

func (f *ViewFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *ViewFetcher) FetchViews(ctx context.Context, url string) ([]string, error) {
	return f.FetchViewsFn(ctx, url)
}

func (f *ViewFetcher) Close() error {
	return f.CloseFn()
}
