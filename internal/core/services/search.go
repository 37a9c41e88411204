package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driving"
	"github.com/lectern-labs/lectern-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultSearchLimit is the result count used when the caller does not
// specify one.
const DefaultSearchLimit = 10

// SearchService retrieves pages by embedding similarity, with optional
// model-judged reranking.
type SearchService struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
	reranker *Reranker
}

// NewSearchService creates a new search service.
// The reranker is optional (can be nil); without it the Rerank option
// is silently ignored.
func NewSearchService(
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	reranker *Reranker,
) *SearchService {
	return &SearchService{
		store:    store,
		embedder: embedder,
		reranker: reranker,
	}
}

// Search embeds the query and returns the nearest pages, ranked.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.RankedResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	// Clamp to corpus size; an empty index yields an empty result.
	corpus, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}
	if corpus == 0 {
		logger.Debug("Empty index, returning no results")
		return []domain.RankedResult{}, nil
	}
	if limit > corpus {
		limit = corpus
	}
	logger.Debug("Limit: %d (corpus %d pages)", limit, corpus)

	// The query embedding is recomputed every call: freshness over speed.
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vector))

	hits, err := s.store.QueryNearest(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("query nearest: %w", err)
	}
	logger.Debug("Vector query: %d hits", len(hits))

	results := make([]domain.RankedResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.RankedResult{
			Record:     hit.Record,
			Similarity: hit.Similarity,
			Combined:   hit.Similarity,
		}
	}

	if opts.Rerank && s.reranker != nil {
		logger.Info("Reranking %d results with %s", len(results), s.reranker.ModelName())
		results = s.reranker.Rerank(ctx, query, results)
	}

	logger.Info("Final results: %d", len(results))
	return results, nil
}
