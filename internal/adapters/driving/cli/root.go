// Package cli implements the lectern command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/lectern-labs/lectern-cli/internal/core/ports/driving"
	"github.com/lectern-labs/lectern-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired in by the composition root before Execute.
var (
	indexerService driving.Indexer
	searchService  driving.SearchService
	summaryService driving.SummaryService
	chatService    driving.ChatService

	// watchSupported reports whether a file path has an indexable
	// extension. Used by watch to filter filesystem events.
	watchSupported func(path string) bool
)

// verbose mirrors the --verbose persistent flag.
var verbose bool

// rootCmd is the base command; subcommands register themselves in
// their init functions.
var rootCmd = &cobra.Command{
	Use:   "lectern",
	Short: "Semantic search over your lecture documents",
	Long: `Lectern indexes a folder of lecture documents (PDF, PPTX, DOCX, text)
and answers natural language queries against them, page by page.

All inference runs against a local Ollama server; nothing leaves your
machine.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services bundles the driving ports the commands need.
type Services struct {
	Indexer driving.Indexer
	Search  driving.SearchService
	Summary driving.SummaryService
	Chat    driving.ChatService

	// WatchSupported filters filesystem events to indexable files.
	// nil means every file triggers reindexing.
	WatchSupported func(path string) bool
}

// SetServices wires the application services into the commands.
func SetServices(s Services) {
	indexerService = s.Indexer
	searchService = s.Search
	summaryService = s.Summary
	chatService = s.Chat
	watchSupported = s.WatchSupported
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
