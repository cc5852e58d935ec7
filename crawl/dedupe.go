package crawl

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/bloom"
)

// DedupeMinLineLen is the rune length a trimmed line must exceed before it
// is subject to deduplication. Shorter lines are always kept.
const DedupeMinLineLen = 20

// Sizing for the seen-line filter.
const (
	dedupeLinesPerPage = 200
	dedupeFPRate       = 0.01
)

// Deduper drops lines already seen earlier in the same crawl. A Deduper
// belongs to a single Crawl call.
type Deduper struct {
	seen *bloom.Set
}

// NewDeduper creates a Deduper sized for a crawl of pages URLs.
func NewDeduper(pages int) *Deduper {
	n := uint(max(pages, 1)) * dedupeLinesPerPage
	return &Deduper{seen: bloom.NewSet(n, dedupeFPRate)}
}

// Filter returns chunks with every previously seen long line removed,
// recording the long lines it keeps. Lines are trimmed and blank lines
// dropped; chunks left without text are dropped. Headings are never
// filtered.
func (d *Deduper) Filter(chunks []pagesnap.Chunk) []pagesnap.Chunk {
	out := make([]pagesnap.Chunk, 0, len(chunks))
	for _, ch := range chunks {
		var kept []string
		for _, line := range strings.Split(ch.Text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if utf8.RuneCountInString(line) > DedupeMinLineLen && !d.seen.Add(line) {
				continue
			}
			kept = append(kept, line)
		}
		if len(kept) == 0 {
			continue
		}
		ch.Text = strings.Join(kept, "\n")
		out = append(out, ch)
	}
	return out
}

// Seen returns the number of distinct long lines recorded so far.
func (d *Deduper) Seen() int {
	return d.seen.Len()
}
