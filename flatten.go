package pagesnap

import "strings"

// Flatten renders chunks as a single content string: each chunk's heading
// (when present) followed by its text, all parts separated by blank lines.
func Flatten(chunks []Chunk) string {
	if len(chunks) == 0 {
		return ""
	}

	parts := make([]string, 0, len(chunks)*2)
	for _, c := range chunks {
		if h := c.HeadingText(); h != "" {
			parts = append(parts, h)
		}
		parts = append(parts, c.Text)
	}

	return strings.Join(parts, "\n\n")
}

// Preview returns at most n characters of content for display.
func Preview(content string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n])
}
