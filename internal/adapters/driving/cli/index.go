package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

var indexJSON bool

var indexCmd = &cobra.Command{
	Use:   "index [folder]",
	Short: "Index a folder of lecture documents",
	Long: `Walks the folder recursively, extracts per-page text from supported
documents (.pdf, .pptx, .docx, .txt, .md) and stores page embeddings.

Indexing is incremental: files whose size and modification time are
unchanged since the last run keep their stored pages and are not
re-embedded. Files that disappeared from the folder are removed from
the index.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	report, err := indexerService.Index(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	if indexJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputIndexReport(cmd, report)
}

func outputIndexReport(cmd *cobra.Command, report *domain.IndexReport) error {
	cmd.Printf("Indexed %s\n", report.Folder)
	cmd.Println()
	for _, f := range report.Files {
		marker := "+"
		if f.Reused {
			marker = "="
		}
		cmd.Printf("  %s %s (%d pages)\n", marker, f.Path, f.Pages)
	}
	if len(report.Files) > 0 {
		cmd.Println()
	}

	cmd.Printf("%d pages across %d files", report.TotalPages, report.TotalFiles)
	if report.ReusedCount > 0 {
		cmd.Printf(", %d unchanged", report.ReusedCount)
	}
	if report.SkippedCount > 0 {
		cmd.Printf(", %d skipped", report.SkippedCount)
	}
	if report.RemovedCount > 0 {
		cmd.Printf(", %d removed", report.RemovedCount)
	}
	cmd.Println()
	return nil
}
