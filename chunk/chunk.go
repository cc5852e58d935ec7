// Package chunk groups the text of an HTML tree into heading-scoped chunks.
//
// Extract walks the tree depth-first and classifies every node as signal or
// noise. Headings set the scope for the chunks that follow them, sectioning
// elements are hard scope boundaries, block-level text elements become
// chunks of their own, and inline text accumulates into the chunk in
// progress.
package chunk

import (
	"strings"

	"github.com/fwojciec/pagesnap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extract returns the chunks of the tree rooted at root in document order.
// It never modifies the tree and returns the same chunks for the same tree.
func Extract(root *html.Node) []pagesnap.Chunk {
	if root == nil {
		return nil
	}
	w := &walker{}
	w.visit(root)
	w.flush()
	return w.chunks
}

// walker holds the state of a single Extract call.
type walker struct {
	heading     *string
	headingUsed bool // heading was attached to at least one body chunk
	lines       []string
	chunks      []pagesnap.Chunk
}

func (w *walker) visit(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			w.lines = append(w.lines, t)
		}
		return
	case html.ElementNode:
		// handled below
	case html.DocumentNode:
		w.visitChildren(n)
		return
	default:
		// Comments and doctypes carry no content.
		return
	}

	switch {
	case isSkipped(n):
		return

	case isHeading(n):
		w.flush()
		w.heading = nil
		if t := InnerText(n); !pagesnap.IsNoise(t, true) {
			w.setHeading(t)
		}

	case isSection(n):
		w.flush()
		outer, outerUsed := w.heading, w.headingUsed
		w.heading = nil
		w.visitChildren(n)
		w.flush()
		w.heading, w.headingUsed = outer, outerUsed

	case isBlock(n):
		w.closeBody()
		if t := InnerText(n); !pagesnap.IsNoise(t, false) {
			w.lines = append(w.lines, t)
		}
		w.closeBody()

	default:
		w.visitChildren(n)
	}
}

func (w *walker) visitChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.visit(c)
	}
}

func (w *walker) setHeading(t string) {
	w.heading = &t
	w.headingUsed = false
}

// closeBody emits the accumulated lines as a chunk under the current
// heading. Lines that combine to noise are dropped; the heading stays in
// scope either way.
func (w *walker) closeBody() {
	if len(w.lines) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(w.lines, "\n"))
	w.lines = nil
	if text == "" || pagesnap.IsNoise(text, false) {
		return
	}
	w.chunks = append(w.chunks, pagesnap.Chunk{Heading: w.heading, Text: text})
	if w.heading != nil {
		w.headingUsed = true
	}
}

// flush closes the body in progress. A heading that never scoped any body
// is then emitted on its own, provided it passes the relaxed noise check,
// and retired so that it is not reattached to later unrelated content.
func (w *walker) flush() {
	w.closeBody()
	if w.heading == nil || w.headingUsed {
		return
	}
	h := *w.heading
	w.heading = nil
	if pagesnap.IsNoise(h, true) {
		return
	}
	w.chunks = append(w.chunks, pagesnap.Chunk{Heading: &h, Text: h})
}

// InnerText returns the text of n and its descendants, each text node
// trimmed and joined by single spaces. Skipped elements contribute nothing.
func InnerText(n *html.Node) string {
	var parts []string
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if isSkipped(n) {
				return
			}
		case html.DocumentNode:
		default:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(parts, " ")
}

func isSkipped(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Svg, atom.Iframe:
		return true
	}
	// Foreign content such as inline SVG may carry no atom.
	return n.Data == "svg"
}

func isHeading(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func isSection(n *html.Node) bool {
	return n.DataAtom == atom.Section || n.DataAtom == atom.Article
}

func isBlock(n *html.Node) bool {
	switch n.DataAtom {
	case atom.P, atom.Li, atom.Td, atom.Th, atom.Figcaption, atom.Blockquote:
		return true
	}
	return false
}
