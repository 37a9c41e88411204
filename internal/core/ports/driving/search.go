package driving

import (
	"context"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

// SearchService retrieves indexed pages by semantic similarity.
type SearchService interface {
	// Search embeds query and returns up to opts.Limit pages ranked by
	// similarity (or by the blended score when opts.Rerank is set).
	// An empty index yields an empty result, not an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RankedResult, error)
}
