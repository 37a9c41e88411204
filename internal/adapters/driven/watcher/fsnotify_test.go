package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, folder string) (<-chan struct{}, context.CancelFunc) {
	t.Helper()

	w, err := New(func(path string) bool {
		return strings.HasSuffix(path, ".txt")
	})
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := w.Watch(ctx, folder)
	require.NoError(t, err)

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, w.Close())
	})
	return changes, cancel
}

func waitForSignal(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("no change signal")
	}
}

func TestWatch_SignalsOnEligibleWrite(t *testing.T) {
	dir := t.TempDir()
	changes, _ := newTestWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("a"), 0o644))

	waitForSignal(t, changes)
}

func TestWatch_CoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	changes, _ := newTestWatcher(t, dir)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(strings.Repeat("x", i+1)), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	waitForSignal(t, changes)

	// The burst collapses into one signal; the channel stays quiet after.
	select {
	case <-changes:
		t.Fatal("burst produced a second signal")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_IgnoresUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	changes, _ := newTestWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("png"), 0o644))

	select {
	case <-changes:
		t.Fatal("unsupported file triggered a signal")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_SeesNestedFolders(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "week1")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	changes, _ := newTestWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(nested, "lecture.txt"), []byte("a"), 0o644))

	waitForSignal(t, changes)
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	changes, cancel := newTestWatcher(t, dir)

	cancel()

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
