package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-labs/lectern-cli/internal/adapters/driven/watcher"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch [folder]", watchCmd.Use)
}

func TestWatchCmd_HasDebounceFlag(t *testing.T) {
	flag := watchCmd.Flags().Lookup("debounce")
	require.NotNil(t, flag, "debounce flag should exist")
	assert.Equal(t, watcher.DefaultDebounce.String(), flag.DefValue)
}

func TestWatchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestWatchCmd_ServiceNotConfigured(t *testing.T) {
	oldService := indexerService
	indexerService = nil
	defer func() {
		indexerService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch", "/lectures"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "indexer service not configured")
}
