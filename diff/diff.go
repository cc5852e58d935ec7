// Package diff decides whether a new snapshot differs from the previous one.
//
// Two policies are provided. Strict compares pages one by one keyed by URL.
// Corpus compares the normalized concatenation of all page contents, so it
// ignores whitespace, case, and page boundaries.
package diff

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/fwojciec/pagesnap"
)

// Policy names accepted by New.
const (
	PolicyStrict = "strict"
	PolicyCorpus = "corpus"
)

var (
	_ pagesnap.Differ = Strict{}
	_ pagesnap.Differ = Corpus{}
)

// New returns the differ for the named policy. An empty name selects the
// strict policy.
func New(policy string) (pagesnap.Differ, error) {
	switch policy {
	case "", PolicyStrict:
		return Strict{}, nil
	case PolicyCorpus:
		return Corpus{}, nil
	default:
		return nil, pagesnap.Errorf(pagesnap.EINVALID, "unknown diff policy %q", policy)
	}
}

// Strict reports a change when the page count differs, the set of URLs
// differs, or the content fingerprint of any URL differs. Page order is
// irrelevant.
type Strict struct{}

// HasChanged implements pagesnap.Differ.
func (Strict) HasChanged(prev, next pagesnap.Snapshot) bool {
	if len(prev) == 0 {
		return true
	}
	if len(prev) != len(next) {
		return true
	}
	before := fingerprints(prev)
	after := fingerprints(next)
	if len(before) != len(after) {
		return true
	}
	for url, fp := range after {
		if old, ok := before[url]; !ok || old != fp {
			return true
		}
	}
	return false
}

func fingerprints(s pagesnap.Snapshot) map[string]string {
	m := make(map[string]string, len(s))
	for _, p := range s {
		m[p.URL] = Fingerprint(p.Content)
	}
	return m
}

// Corpus reports a change when the normalized corpus of all page contents
// differs in length or digest.
type Corpus struct{}

// HasChanged implements pagesnap.Differ.
func (Corpus) HasChanged(prev, next pagesnap.Snapshot) bool {
	if len(prev) == 0 {
		return true
	}
	a := corpus(prev)
	b := corpus(next)
	if len(a) != len(b) {
		return true
	}
	return Fingerprint(a) != Fingerprint(b)
}

// corpus concatenates the normalized page contents in sorted order so the
// result does not depend on page order.
func corpus(s pagesnap.Snapshot) string {
	contents := make([]string, 0, len(s))
	for _, p := range s {
		contents = append(contents, Normalize(p.Content))
	}
	sort.Strings(contents)
	return strings.Join(contents, "")
}

var xmlDeclPattern = regexp.MustCompile(`<\?xml.*?\?>`)

// Normalize removes XML declarations and all whitespace and lower-cases the
// result.
func Normalize(text string) string {
	text = xmlDeclPattern.ReplaceAllString(text, "")
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	return strings.ToLower(text)
}

// Fingerprint returns the lowercase hex SHA-256 digest of text.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
