package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Short(t *testing.T) {
	assert.Equal(t, "Search indexed pages", searchCmd.Short)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_HasRerankAndSummarizeFlags(t *testing.T) {
	assert.NotNil(t, searchCmd.Flags().Lookup("rerank"))
	assert.NotNil(t, searchCmd.Flags().Lookup("summarize"))
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "gradient descent"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "week1/intro.pdf page 3")
	assert.Contains(t, out, "0.92")
}

func TestSearchCmd_RerankFlagForwarded(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--rerank", "gradient descent"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchRerank = false // Reset flag
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	mock, ok := searchService.(*mockSearchService)
	require.True(t, ok)
	assert.True(t, mock.lastOpts.Rerank)
}

func TestSearchCmd_SummarizePrintsSummaries(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--summarize", "gradient descent"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchSummarize = false // Reset flag
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Summary: Explains gradient descent.")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "gradient descent"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false // Reset flag
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"file\": \"week1/intro.pdf\"")
	assert.Contains(t, buf.String(), "\"page\": 3")
	assert.Contains(t, buf.String(), "\"combined_score\"")
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	oldService := searchService
	searchService = nil
	defer func() {
		searchService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "test"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	oldService := searchService
	searchService = &mockSearchService{err: errors.New("store offline")}
	defer func() {
		searchService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "test"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestOutputSearchTable_EmptyResults(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchTable(rootCmd, []domain.RankedResult{}, nil)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found")
}

func TestOutputSearchJSON_EmptyResults(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchJSON(rootCmd, []domain.RankedResult{}, nil)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[]")
}
