// Package watcher monitors a lecture folder for document changes.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lectern-labs/lectern-cli/internal/logger"
)

// DefaultDebounce is how long the folder must stay quiet before a
// change signal is emitted. Editors and exporters write documents in
// bursts; one re-index per burst is enough since indexing is
// fingerprint-incremental anyway.
const DefaultDebounce = 2 * time.Second

// FolderWatcher emits a coalesced signal whenever eligible documents
// under a folder change.
type FolderWatcher struct {
	watcher   *fsnotify.Watcher
	supported func(path string) bool
	debounce  time.Duration
}

// New creates a folder watcher. supported filters events to eligible
// document paths; a nil filter passes everything.
func New(supported func(path string) bool) (*FolderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if supported == nil {
		supported = func(string) bool { return true }
	}

	return &FolderWatcher{
		watcher:   w,
		supported: supported,
		debounce:  DefaultDebounce,
	}, nil
}

// SetDebounce overrides the quiet period before a signal is emitted.
func (w *FolderWatcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Watch monitors folder and its subfolders until ctx is cancelled.
// Each value on the returned channel means at least one eligible
// document changed since the previous signal. The channel closes when
// watching stops.
func (w *FolderWatcher) Watch(ctx context.Context, folder string) (<-chan struct{}, error) {
	if err := w.addTree(folder); err != nil {
		return nil, err
	}

	changes := make(chan struct{}, 1)

	go func() {
		defer close(changes)

		var timer *time.Timer
		var timerC <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.relevant(event) {
					continue
				}
				logger.Debug("Change detected: %s (%s)", event.Name, event.Op)

				if timer == nil {
					timer = time.NewTimer(w.debounce)
					timerC = timer.C
				} else {
					timer.Reset(w.debounce)
				}

			case <-timerC:
				timer = nil
				timerC = nil
				select {
				case changes <- struct{}{}:
				default:
					// A signal is already pending.
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watch error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close stops the watcher.
func (w *FolderWatcher) Close() error {
	return w.watcher.Close()
}

// relevant reports whether an event should trigger a re-index, and
// registers newly created directories so nested changes are seen.
func (w *FolderWatcher) relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Create) {
		// New subdirectory: start watching it.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err == nil {
				logger.Debug("Watching new folder: %s", event.Name)
			}
			return true
		}
	}

	if !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) &&
		!event.Op.Has(fsnotify.Rename) {
		return false
	}

	return w.supported(event.Name)
}

// addTree registers folder and every subdirectory beneath it.
func (w *FolderWatcher) addTree(folder string) error {
	return filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}
