package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryCache_QueryIsPartOfKey(t *testing.T) {
	cache := NewSummaryCache()

	a := SummaryKey{FilePath: "intro.pdf", PageNumber: 1, Query: "recursion"}
	b := SummaryKey{FilePath: "intro.pdf", PageNumber: 1, Query: "sorting"}

	cache.Put(a, "about recursion")

	got, ok := cache.Get(a)
	assert.True(t, ok)
	assert.Equal(t, "about recursion", got)

	// Same page, different query: must miss.
	_, ok = cache.Get(b)
	assert.False(t, ok)

	cache.Put(b, "about sorting")
	assert.Equal(t, 2, cache.Len())
}

func TestCancelFlag(t *testing.T) {
	var flag CancelFlag

	assert.False(t, flag.Cancelled())
	flag.Cancel()
	assert.True(t, flag.Cancelled())

	// Idempotent.
	flag.Cancel()
	assert.True(t, flag.Cancelled())
}
