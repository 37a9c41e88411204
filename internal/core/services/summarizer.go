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

// Ensure SummarizerService implements the interface.
var _ driving.SummaryService = (*SummarizerService)(nil)

// SummaryUnavailable is emitted for an entry whose generation call
// failed. The failure degrades that entry only; there are no retries.
const SummaryUnavailable = "Summary unavailable."

// defaultSummaryPrompt is the fallback when no PromptStore is configured.
const defaultSummaryPrompt = `Summarise this page in 1-2 sentences, focusing on what it says about the query.
If the page does not address the query, say so briefly.

Query: %s

Page:
%s

Summary:`

// SummarizerService produces query-focused page glosses, strictly one
// generation call in flight at a time.
type SummarizerService struct {
	llm         driven.GenerationService
	promptStore driven.PromptStore
}

// NewSummarizerService creates a new summarizer.
func NewSummarizerService(llm driven.GenerationService) *SummarizerService {
	return &SummarizerService{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *SummarizerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Summarize returns a 1-2 sentence query-focused gloss of pageText.
func (s *SummarizerService) Summarize(ctx context.Context, query, pageText string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrGenerationUnavailable
	}

	template := loadPrompt(s.promptStore, driven.PromptPageSummary, defaultSummaryPrompt)
	prompt := fmt.Sprintf(template, query, pageText)

	reply, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   120,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("summarise page: %w", err)
	}

	return strings.TrimSpace(reply), nil
}

// SummarizeSequence summarises results in rank order. The cancel flag
// is checked before each entry: once set, no further generation calls
// are issued, but the current call runs to completion so no entry is
// ever left half-produced. Completed entries stay emitted.
func (s *SummarizerService) SummarizeSequence(
	ctx context.Context,
	query string,
	results []domain.RankedResult,
	cache *domain.SummaryCache,
	cancel *domain.CancelFlag,
	emit func(index int, summary string),
) int {
	logger.Section("Summarisation")
	logger.Debug("Summarising %d results for %q", len(results), query)

	emitted := 0
	for i, result := range results {
		if cancel != nil && cancel.Cancelled() {
			logger.Info("Summarisation cancelled after %d of %d entries", emitted, len(results))
			break
		}
		if ctx.Err() != nil {
			break
		}

		key := domain.SummaryKey{
			FilePath:   result.Record.FilePath,
			PageNumber: result.Record.PageNumber,
			Query:      query,
		}

		if cache != nil {
			if cached, ok := cache.Get(key); ok {
				logger.Debug("Summary cache hit: %s", result.Record.Ref())
				emit(i, cached)
				emitted++
				continue
			}
		}

		summary, err := s.Summarize(ctx, query, result.Record.Text)
		if err != nil {
			logger.Warn("Summary failed for %s: %v", result.Record.Ref(), err)
			emit(i, SummaryUnavailable)
			emitted++
			continue
		}

		if cache != nil {
			cache.Put(key, summary)
		}
		emit(i, summary)
		emitted++
	}

	return emitted
}
