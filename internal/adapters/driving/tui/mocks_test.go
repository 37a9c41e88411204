package tui

import (
	"context"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

type mockSearchService struct {
	results []domain.RankedResult
	err     error
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.RankedResult, error) {
	return m.results, m.err
}

type mockSummaryService struct {
	summary string
}

func (m *mockSummaryService) Summarize(_ context.Context, _, _ string) (string, error) {
	return m.summary, nil
}

func (m *mockSummaryService) SummarizeSequence(
	_ context.Context,
	_ string,
	results []domain.RankedResult,
	_ *domain.SummaryCache,
	cancel *domain.CancelFlag,
	emit func(index int, summary string),
) int {
	emitted := 0
	for i := range results {
		if cancel.Cancelled() {
			break
		}
		emit(i, m.summary)
		emitted++
	}
	return emitted
}

type mockChatService struct {
	result *domain.ChatResult
	err    error
}

func (m *mockChatService) Ask(
	_ context.Context,
	_ string,
	_ []domain.ConversationTurn,
) (*domain.ChatResult, error) {
	return m.result, m.err
}
