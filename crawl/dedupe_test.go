package crawl_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/crawl"
	"github.com/stretchr/testify/assert"
)

func TestDeduper_Filter(t *testing.T) {
	t.Parallel()

	long := "This line is comfortably longer than twenty runes"

	t.Run("keeps short lines even when repeated", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDeduper(2)
		d.Filter([]pagesnap.Chunk{{Text: "Read more"}})

		got := d.Filter([]pagesnap.Chunk{{Text: "Read more"}})

		assert.Equal(t, []pagesnap.Chunk{{Text: "Read more"}}, got)
		assert.Zero(t, d.Seen())
	})

	t.Run("treats a line of exactly twenty runes as short", func(t *testing.T) {
		t.Parallel()

		line := strings.Repeat("é", crawl.DedupeMinLineLen)
		d := crawl.NewDeduper(1)
		d.Filter([]pagesnap.Chunk{{Text: line}})

		got := d.Filter([]pagesnap.Chunk{{Text: line}})

		assert.Len(t, got, 1)
	})

	t.Run("drops repeated long lines within and across calls", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDeduper(2)

		first := d.Filter([]pagesnap.Chunk{{Text: long + "\n" + long}})
		second := d.Filter([]pagesnap.Chunk{{Text: "  " + long + "  \nfresh"}})

		assert.Equal(t, []pagesnap.Chunk{{Text: long}}, first)
		assert.Equal(t, []pagesnap.Chunk{{Text: "fresh"}}, second)
		assert.Equal(t, 1, d.Seen())
	})

	t.Run("drops chunks left without text and keeps headings", func(t *testing.T) {
		t.Parallel()

		h := "Section heading"
		d := crawl.NewDeduper(2)
		d.Filter([]pagesnap.Chunk{{Text: long}})

		got := d.Filter([]pagesnap.Chunk{
			{Heading: &h, Text: long},
			{Heading: &h, Text: "short\n\n  \nline"},
		})

		assert.Equal(t, []pagesnap.Chunk{{Heading: &h, Text: "short\nline"}}, got)
	})
}
