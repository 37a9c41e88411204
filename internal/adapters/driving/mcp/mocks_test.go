package mcp

import (
	"context"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.RankedResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.RankedResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
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

// mockIndexer is a mock implementation of driving.Indexer.
type mockIndexer struct {
	report   *domain.IndexReport
	overview *domain.IndexOverview
	err      error
}

func (m *mockIndexer) Index(_ context.Context, _ string) (*domain.IndexReport, error) {
	return m.report, m.err
}

func (m *mockIndexer) Overview(_ context.Context) (*domain.IndexOverview, error) {
	return m.overview, m.err
}
