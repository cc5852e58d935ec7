// Package bloom provides a set of seen text lines backed by a Bloom filter.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
)

// Set records text lines. A Bloom filter answers most lookups for unseen
// lines; possible hits are confirmed against the 64-bit xxhash digests of
// the lines actually added.
type Set struct {
	f    *bloom.BloomFilter
	seen map[uint64]struct{}
}

// NewSet creates a new Set sized for n expected lines with the given
// false positive rate for the filter.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		f:    bloom.NewWithEstimates(n, fpRate),
		seen: make(map[uint64]struct{}),
	}
}

// Add records line and reports whether it was new to the set.
func (s *Set) Add(line string) bool {
	if s.Contains(line) {
		return false
	}
	s.f.AddString(line)
	s.seen[xxhash.Sum64String(line)] = struct{}{}
	return true
}

// Contains reports whether line was added before.
func (s *Set) Contains(line string) bool {
	if !s.f.TestString(line) {
		return false
	}
	_, ok := s.seen[xxhash.Sum64String(line)]
	return ok
}

// Len returns the number of distinct lines added.
func (s *Set) Len() int {
	return len(s.seen)
}

// EstimatedCount returns the filter's approximation of Len.
func (s *Set) EstimatedCount() uint {
	return uint(s.f.ApproximatedSize())
}
