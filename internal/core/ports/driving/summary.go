package driving

import (
	"context"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

// SummaryService produces query-focused page summaries, one page at
// a time.
type SummaryService interface {
	// Summarize returns a 1-2 sentence gloss of pageText focused on
	// query. The gloss states non-relevance when the page does not
	// address the query.
	Summarize(ctx context.Context, query, pageText string) (string, error)

	// SummarizeSequence summarises results strictly sequentially in
	// rank order, at most one generation call in flight. emit is
	// invoked once per completed entry with the result index and the
	// summary text (the unavailable sentinel when generation failed).
	//
	// cache is owned by the caller; cached entries are emitted without
	// a generation call. cancel is checked before each entry: once set,
	// no further calls are issued, but an in-flight call completes
	// naturally. Returns the number of entries emitted.
	SummarizeSequence(
		ctx context.Context,
		query string,
		results []domain.RankedResult,
		cache *domain.SummaryCache,
		cancel *domain.CancelFlag,
		emit func(index int, summary string),
	) int
}
