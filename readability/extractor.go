package readability

import (
	"strings"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/chunk"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pagesnap.Extractor at compile time.
var _ pagesnap.Extractor = (*Extractor)(nil)

// Extractor uses go-readability to find the article of a page and groups
// it into heading-scoped chunks.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the chunks of its article.
func (e *Extractor) Extract(rawHTML string) ([]pagesnap.Chunk, error) {
	if rawHTML == "" {
		return nil, pagesnap.Errorf(pagesnap.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, pagesnap.Errorf(pagesnap.EPARSE, "readability: %v", err)
	}

	root, err := html.Parse(strings.NewReader(article.Content))
	if err != nil {
		return nil, pagesnap.Errorf(pagesnap.EPARSE, "failed to parse article: %v", err)
	}
	return chunk.Extract(root), nil
}
