package pagesnap

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinTextLen is the minimum length, in characters, of a text block that is
// kept when short text is not allowed. Shorter fragments are almost always
// UI labels rather than content.
const MinTextLen = 40

// denylist holds UI phrases that are noise when they make up the whole text.
var denylist = map[string]struct{}{
	"Sign in":          {},
	"Log in":           {},
	"Contact":          {},
	"Get started":      {},
	"Learn more":       {},
	"Privacy Policy":   {},
	"Terms of Service": {},
	"Schedule a Demo":  {},
	"Menu":             {},
	"Close":            {},
	"Cookie":           {},
	"Accept":           {},
	"Subscribe":        {},
	"Submit":           {},
	"Loading":          {},
}

// noisePatterns match structural noise: inline script, JSON-LD, encoded
// blobs and XML declarations.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(?:var|let|const|function|=>|\(function)\s`),
	regexp.MustCompile(`^\s*\{[\s\S]*"@`),
	regexp.MustCompile(`^[A-Za-z0-9+/=]{100,}`),
	regexp.MustCompile(`(?i)<\?xml\s+version=`),
	regexp.MustCompile(`(?i)^\s*xml\s+version=`),
}

// IsNoise reports whether text should be discarded rather than kept as content.
// When allowShort is false, text shorter than MinTextLen is noise regardless
// of what it says.
func IsNoise(text string, allowShort bool) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return true
	}
	if !allowShort && utf8.RuneCountInString(t) < MinTextLen {
		return true
	}
	if _, ok := denylist[t]; ok {
		return true
	}
	for _, re := range noisePatterns {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}
