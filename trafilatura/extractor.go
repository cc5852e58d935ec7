package trafilatura

import (
	"strings"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/chunk"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements pagesnap.Extractor at compile time.
var _ pagesnap.Extractor = (*Extractor)(nil)

// Extractor uses go-trafilatura to find the main content of a page and
// groups it into heading-scoped chunks.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the chunks of its main content.
func (e *Extractor) Extract(rawHTML string) ([]pagesnap.Chunk, error) {
	if rawHTML == "" {
		return nil, pagesnap.Errorf(pagesnap.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, pagesnap.Errorf(pagesnap.EPARSE, "trafilatura: %v", err)
	}
	if result.ContentNode == nil {
		return nil, nil
	}
	return chunk.Extract(result.ContentNode), nil
}
