package mock

import "github.com/fwojciec/pagesnap"

var _ pagesnap.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagesnap.Extractor.
type Extractor struct {
	ExtractFn func(html string) ([]pagesnap.Chunk, error)
}

func (e *Extractor) Extract(html string) ([]pagesnap.Chunk, error) {
	return e.ExtractFn(html)
}
