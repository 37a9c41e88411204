package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

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

// mockSummaryService is a mock implementation of driving.SummaryService.
type mockSummaryService struct {
	summary string
	err     error
}

func (m *mockSummaryService) Summarize(_ context.Context, _, _ string) (string, error) {
	return m.summary, m.err
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

// setupTestServices wires mock services into the commands and returns
// a cleanup function restoring the previous wiring.
func setupTestServices() func() {
	oldIndexer := indexerService
	oldSearch := searchService
	oldSummary := summaryService
	oldChat := chatService

	indexerService = &mockIndexer{
		report: &domain.IndexReport{
			Folder:     "/lectures",
			TotalPages: 5,
			TotalFiles: 2,
			Files: []domain.FileStatus{
				{Path: "week1/intro.pdf", Pages: 3},
				{Path: "week1/notes.txt", Pages: 2, Reused: true},
			},
			ReusedCount: 1,
		},
	}
	searchService = &mockSearchService{
		results: []domain.RankedResult{
			{
				Record: domain.PageRecord{
					FilePath:   "week1/intro.pdf",
					PageNumber: 3,
					Text:       "Gradient descent minimises the loss iteratively.",
				},
				Similarity: 0.92,
				Combined:   0.92,
			},
		},
	}
	summaryService = &mockSummaryService{summary: "Explains gradient descent."}
	chatService = &mockChatService{
		result: &domain.ChatResult{
			Answer: "Gradient descent minimises the loss.",
			Sources: []domain.PageRef{
				{FilePath: "week1/intro.pdf", PageNumber: 3},
			},
		},
	}

	return func() {
		indexerService = oldIndexer
		searchService = oldSearch
		summaryService = oldSummary
		chatService = oldChat
	}
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "lectern", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "index")
	assert.Contains(t, commandNames, "search")
	assert.Contains(t, commandNames, "ask")
	assert.Contains(t, commandNames, "watch")
	assert.Contains(t, commandNames, "tui")
	assert.Contains(t, commandNames, "mcp")
	assert.Contains(t, commandNames, "version")
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	assert.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)

	// Empty string keeps the previous value.
	SetVersion("")
	assert.Equal(t, "1.2.3", version)
}

func TestSetServices(t *testing.T) {
	cleanup := setupTestServices()
	oldWatch := watchSupported
	defer func() {
		cleanup()
		watchSupported = oldWatch
	}()

	supported := func(path string) bool { return strings.HasSuffix(path, ".txt") }
	SetServices(Services{
		Indexer:        indexerService,
		Search:         searchService,
		Summary:        summaryService,
		Chat:           chatService,
		WatchSupported: supported,
	})

	assert.NotNil(t, indexerService)
	assert.NotNil(t, searchService)
	assert.NotNil(t, summaryService)
	assert.NotNil(t, chatService)
	assert.True(t, watchSupported("a.txt"))
	assert.False(t, watchSupported("a.png"))
}
