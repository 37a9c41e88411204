package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/services"
)

var (
	searchLimit     int
	searchRerank    bool
	searchSummarize bool
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed pages",
	Long: `Performs semantic search across all indexed pages and prints the
best matching pages with file, page number and a text snippet.

With --rerank, a local generation model judges each candidate's
relevance and the scores are blended for a sharper ordering.
With --summarize, each result gets a query-focused one-line summary,
generated sequentially.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", services.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchRerank, "rerank", false, "rerank results with the generation model")
	searchCmd.Flags().BoolVar(&searchSummarize, "summarize", false, "summarise each result for the query")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit:  searchLimit,
		Rerank: searchRerank,
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	summaries := collectSummaries(cmd, query, results)

	if searchJSON {
		return outputSearchJSON(cmd, results, summaries)
	}

	return outputSearchTable(cmd, results, summaries)
}

// collectSummaries produces per-result summaries when --summarize is
// set and the summary service exists. Indexed parallel to results;
// nil otherwise.
func collectSummaries(cmd *cobra.Command, query string, results []domain.RankedResult) []string {
	if !searchSummarize || summaryService == nil || len(results) == 0 {
		return nil
	}

	summaries := make([]string, len(results))
	summaryService.SummarizeSequence(
		cmd.Context(), query, results,
		domain.NewSummaryCache(), &domain.CancelFlag{},
		func(i int, summary string) { summaries[i] = summary },
	)
	return summaries
}

// searchResultJSON is the JSON shape of one search result.
type searchResultJSON struct {
	File       string  `json:"file"`
	Page       int     `json:"page"`
	Similarity float64 `json:"similarity"`
	Combined   float64 `json:"combined_score"`
	Snippet    string  `json:"snippet"`
	Summary    string  `json:"summary,omitempty"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RankedResult, summaries []string) error {
	out := make([]searchResultJSON, len(results))
	for i, r := range results {
		out[i] = searchResultJSON{
			File:       r.Record.FilePath,
			Page:       r.Record.PageNumber,
			Similarity: r.Similarity,
			Combined:   r.Combined,
			Snippet:    r.Snippet(),
		}
		if summaries != nil {
			out[i].Summary = summaries[i]
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.RankedResult, summaries []string) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.Record.Ref(), r.Combined)
		if snippet := r.Snippet(); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		if summaries != nil && summaries[i] != "" {
			cmd.Printf("      Summary: %s\n", summaries[i])
		}
		cmd.Println()
	}

	return nil
}
