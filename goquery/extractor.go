package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/chunk"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pagesnap.Extractor at compile time.
var _ pagesnap.Extractor = (*Extractor)(nil)

// FAQRootSelector matches the FAQ list container some help-center pages
// render their questions into.
const FAQRootSelector = `[data-testid="faq-list"]`

// rootSelectors are tried in order; the first match is the content root.
var rootSelectors = []string{
	"main",
	`[data-main-content-parent="true"]`,
	"#SITE_PAGES_CONTAINER",
	"body",
}

// Extractor locates the content root of a page with CSS selectors and
// groups the text under it into heading-scoped chunks.
type Extractor struct {
	faq bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFAQRoot makes the FAQ list container the preferred content root.
func WithFAQRoot(enabled bool) Option {
	return func(e *Extractor) {
		e.faq = enabled
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses rawHTML and returns the chunks under its content root.
// An empty document yields no chunks.
func (e *Extractor) Extract(rawHTML string) ([]pagesnap.Chunk, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, pagesnap.Errorf(pagesnap.EPARSE, "failed to parse HTML: %v", err)
	}
	return chunk.Extract(Root(doc, e.faq)), nil
}

// RootSelectors returns the selectors Root tries, in order.
func RootSelectors(faq bool) []string {
	if !faq {
		return append([]string(nil), rootSelectors...)
	}
	return append([]string{FAQRootSelector}, rootSelectors...)
}

// Root returns the node of the first selector in RootSelectors that matches
// doc, or the document node itself when none does.
func Root(doc *goquery.Document, faq bool) *html.Node {
	for _, sel := range RootSelectors(faq) {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s.Get(0)
		}
	}
	if len(doc.Nodes) == 0 {
		return nil
	}
	return doc.Nodes[0]
}
