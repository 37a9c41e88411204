package domain

import "strings"

// snippetLength is the maximum length of a result snippet in bytes.
const snippetLength = 300

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results (default 10).
	Limit int

	// Rerank enables model-judged relevance scoring on top of vector
	// similarity. This issues one generation call per result, so keep
	// Limit small (10 or less) when enabling it.
	Rerank bool
}

// RankedResult is a retrieved page with its relevance scores.
// Results are ephemeral: produced per query, never persisted.
type RankedResult struct {
	// Record is the matched page.
	Record PageRecord

	// Similarity is the cosine similarity between query and page
	// embeddings, normalised to [0,1].
	Similarity float64

	// Judged is the model-judged relevance normalised to [0,1].
	// Only meaningful when JudgedOK is true.
	Judged float64

	// JudgedOK is true when a judged score was obtained and parsed.
	// When false after reranking, Judged holds the similarity fallback.
	JudgedOK bool

	// Combined is the ordering key: the similarity/judged blend after
	// reranking, or plain similarity before it.
	Combined float64
}

// Snippet returns the first ~300 characters of the page text with
// whitespace collapsed, for list display.
func (r RankedResult) Snippet() string {
	text := r.Record.Text
	truncated := len(text) > snippetLength
	if truncated {
		text = text[:snippetLength]
	}

	snippet := strings.Join(strings.Fields(text), " ")
	if truncated {
		snippet += "..."
	}
	return snippet
}
