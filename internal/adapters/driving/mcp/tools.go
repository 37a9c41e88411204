package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/services"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"the search query to find lecture pages"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Rerank bool   `json:"rerank,omitempty" jsonschema:"rerank candidates with the generation model for a sharper ordering"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	File       string  `json:"file"`
	Page       int     `json:"page"`
	Similarity float64 `json:"similarity"`
	Score      float64 `json:"score"`
	Content    string  `json:"content,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search across all indexed lecture pages",
	}, s.handleSearch)

	if s.ports.Chat != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question grounded in the indexed lecture pages, with citations",
		}, s.handleAsk)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = services.DefaultSearchLimit
	}

	opts := domain.SearchOptions{Limit: limit, Rerank: input.Rerank}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			File:       results[i].Record.FilePath,
			Page:       results[i].Record.PageNumber,
			Similarity: results[i].Similarity,
			Score:      results[i].Combined,
			Content:    results[i].Record.Text,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation. Stateless: each call is
// a fresh single-turn conversation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	result, err := s.ports.Chat.Ask(ctx, input.Question, nil)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  result.Answer,
		Sources: make([]string, len(result.Sources)),
	}
	for i, src := range result.Sources {
		output.Sources[i] = src.String()
	}

	return nil, output, nil
}
