package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/pagesnap"
)

// Ensure SitemapSource implements pagesnap.URLSource.
var _ pagesnap.URLSource = (*SitemapSource)(nil)

// SitemapSource reads the URLs to crawl from a sitemap. Both <urlset>
// documents and <sitemapindex> documents are supported; nested sitemaps are
// followed once each.
type SitemapSource struct {
	client     *http.Client
	sitemapURL string
	pathPrefix string
}

// SitemapOption configures a SitemapSource.
type SitemapOption func(*SitemapSource)

// WithPathPrefix keeps only URLs whose path lies under prefix, respecting
// path boundaries (/docs matches /docs/intro but not /documentation).
func WithPathPrefix(prefix string) SitemapOption {
	return func(s *SitemapSource) {
		s.pathPrefix = prefix
	}
}

// NewSitemapSource creates a SitemapSource reading sitemapURL with the
// given HTTP client. If client is nil, http.DefaultClient is used.
func NewSitemapSource(client *http.Client, sitemapURL string, opts ...SitemapOption) *SitemapSource {
	if client == nil {
		client = http.DefaultClient
	}
	s := &SitemapSource{client: client, sitemapURL: sitemapURL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URLs returns the page URLs listed in the sitemap, deduplicated, in
// document order.
func (s *SitemapSource) URLs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all, err := s.processSitemap(ctx, s.sitemapURL, make(map[string]bool))
	if err != nil {
		return nil, err
	}

	urls := []string{}
	seen := make(map[string]bool)
	for _, u := range all {
		if seen[u] {
			continue
		}
		seen[u] = true
		if s.pathPrefix != "" && !matchesPathPrefix(u, s.pathPrefix) {
			continue
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// matchesPathPrefix checks if a URL's path starts with the given prefix,
// respecting path boundaries.
func matchesPathPrefix(rawURL, prefix string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	path := parsed.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return strings.HasPrefix(path, prefix)
}

// processSitemap fetches and parses a sitemap, handling both urlset and sitemapindex.
func (s *SitemapSource) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Avoid processing the same sitemap twice
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, pagesnap.Errorf(pagesnap.EPARSE, "parsing sitemap %s: %v", sitemapURL, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, pagesnap.Errorf(pagesnap.EPARSE, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		return s.processSitemapIndex(ctx, root, seen)
	}
	return parseURLSet(root), nil
}

// processSitemapIndex processes a <sitemapindex> element recursively.
func (s *SitemapSource) processSitemapIndex(ctx context.Context, root *etree.Element, seen map[string]bool) ([]string, error) {
	var all []string

	for _, sitemap := range root.SelectElements("sitemap") {
		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		sitemapURL := strings.TrimSpace(loc.Text())
		if sitemapURL == "" {
			continue
		}

		urls, err := s.processSitemap(ctx, sitemapURL, seen)
		if err != nil {
			return nil, err
		}
		all = append(all, urls...)
	}

	return all, nil
}

// parseURLSet extracts URLs from a <urlset> element.
func parseURLSet(root *etree.Element) []string {
	var urls []string
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapSource) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, pagesnap.Errorf(pagesnap.EINVALID, "invalid sitemap URL %s: %v", targetURL, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, pagesnap.Errorf(pagesnap.EFETCH, "fetch sitemap %s: %v", targetURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, pagesnap.Errorf(pagesnap.EFETCH, "HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}
