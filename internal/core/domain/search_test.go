package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankedResult_Snippet_Short(t *testing.T) {
	r := RankedResult{Record: PageRecord{Text: "A  short\npage\ttext."}}
	assert.Equal(t, "A short page text.", r.Snippet())
}

func TestRankedResult_Snippet_Truncates(t *testing.T) {
	r := RankedResult{Record: PageRecord{Text: strings.Repeat("word ", 200)}}

	snippet := r.Snippet()
	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.LessOrEqual(t, len(snippet), snippetLength+3)
}

func TestRankedResult_Snippet_Empty(t *testing.T) {
	r := RankedResult{}
	assert.Equal(t, "", r.Snippet())
}
