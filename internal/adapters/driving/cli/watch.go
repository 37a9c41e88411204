package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lectern-labs/lectern-cli/internal/adapters/driven/watcher"
	"github.com/lectern-labs/lectern-cli/internal/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Index a folder and re-index on changes",
	Long: `Indexes the folder, then keeps watching it for file changes and
re-indexes whenever documents are added, modified or removed. Bursts
of changes are coalesced so a large copy triggers one re-index.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before re-indexing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	folder := args[0]

	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	ctx := cmd.Context()

	report, err := indexerService.Index(ctx, folder)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}
	if err := outputIndexReport(cmd, report); err != nil {
		return err
	}

	fw, err := watcher.New(watchSupported)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer fw.Close()
	fw.SetDebounce(watchDebounce)

	signals, err := fw.Watch(ctx, folder)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", folder, err)
	}

	cmd.Printf("Watching %s for changes. Press Ctrl-C to stop.\n", folder)

	for range signals {
		logger.Debug("change detected, re-indexing %s", folder)

		report, err := indexerService.Index(ctx, folder)
		if err != nil {
			// Keep watching; the next change gets another attempt.
			logger.Warn("re-index failed: %v", err)
			continue
		}
		if err := outputIndexReport(cmd, report); err != nil {
			return err
		}
	}

	return nil
}
