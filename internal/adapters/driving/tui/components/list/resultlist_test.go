package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

func rankedResults(n int) []domain.RankedResult {
	results := make([]domain.RankedResult, n)
	for i := range results {
		results[i] = domain.RankedResult{
			Record: domain.PageRecord{
				FilePath:   "intro.pdf",
				PageNumber: i + 1,
				Text:       "Some page text.",
			},
			Similarity: 0.9,
			Combined:   0.9,
		}
	}
	return results
}

func TestResultList_Navigation(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(rankedResults(3))

	assert.Equal(t, 0, l.Selected())

	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())

	// Clamped at the last result.
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())

	l.MoveUp()
	assert.Equal(t, 1, l.Selected())
}

func TestResultList_SelectedResult(t *testing.T) {
	l := NewResultList(nil)
	assert.Nil(t, l.SelectedResult())

	l.SetResults(rankedResults(2))
	l.MoveDown()

	result := l.SelectedResult()
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Record.PageNumber)
}

func TestResultList_SummariesAttachByIndex(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(rankedResults(2))

	l.SetSummary(1, "Covers backpropagation.")

	_, ok := l.Summary(0)
	assert.False(t, ok)

	s, ok := l.Summary(1)
	require.True(t, ok)
	assert.Equal(t, "Covers backpropagation.", s)

	// Out of range indexes are ignored.
	l.SetSummary(5, "ignored")
	_, ok = l.Summary(5)
	assert.False(t, ok)
}

func TestResultList_SetResultsClearsSummaries(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(rankedResults(2))
	l.SetSummary(0, "stale")

	l.SetResults(rankedResults(1))

	_, ok := l.Summary(0)
	assert.False(t, ok)
}

func TestResultList_ViewShowsSummary(t *testing.T) {
	l := NewResultList(nil)
	l.SetDimensions(100, 20)
	l.SetResults(rankedResults(1))
	l.SetSummary(0, "Explains the chain rule.")

	view := l.View()
	assert.Contains(t, view, "intro.pdf page 1")
	assert.Contains(t, view, "Explains the chain rule.")
}

func TestResultList_ViewEmpty(t *testing.T) {
	l := NewResultList(nil)
	assert.Contains(t, l.View(), "No results")
}
