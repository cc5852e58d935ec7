package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/pagesnap/bloom"
	"github.com/stretchr/testify/assert"
)

func TestSet_AddAndContains(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(1000, 0.01)

	// Line not yet added
	assert.False(t, s.Contains("Plans start at ten dollars per month."))

	assert.True(t, s.Add("Plans start at ten dollars per month."))

	assert.True(t, s.Contains("Plans start at ten dollars per month."))
	assert.False(t, s.Contains("Plans start at twenty dollars per month."))
}

func TestSet_AddReportsDuplicates(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(1000, 0.01)

	assert.True(t, s.Add("line"))
	assert.False(t, s.Add("line"))
	assert.False(t, s.Add("line"))
	assert.Equal(t, 1, s.Len())
}

func TestSet_EstimatedCount(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(1000, 0.01)
	assert.Equal(t, uint(0), s.EstimatedCount())

	s.Add("one")
	s.Add("two")
	s.Add("three")

	count := s.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestSet_NoFalsePositivesBeyondCapacity(t *testing.T) {
	t.Parallel()

	// A tiny filter saturates quickly; the exact check must still reject
	// lines that were never added.
	s := bloom.NewSet(10, 0.5)
	for i := 0; i < 500; i++ {
		s.Add(fmt.Sprintf("added line %d", i))
	}

	for i := 0; i < 500; i++ {
		assert.False(t, s.Contains(fmt.Sprintf("other line %d", i)))
	}
	assert.Equal(t, 500, s.Len())
}
