// Package watch re-runs a callback whenever a SQL file changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/satishbabariya/sqlcrud/internal/debug"
)

// DefaultDebounce is how long the watcher waits for writes to settle
const DefaultDebounce = 300 * time.Millisecond

var log = debug.Component("watch")

// Callback receives the current file contents
type Callback func(ctx context.Context, content []byte) error

// Watcher watches a file for changes
type Watcher struct {
	file     string
	callback Callback
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher creates a new file watcher
func NewWatcher(file string, callback Callback) (*Watcher, error) {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Editors often replace the file, so watch the directory
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		file:     absPath,
		callback: callback,
		watcher:  watcher,
		debounce: DefaultDebounce,
	}, nil
}

// SetDebounce changes the debounce interval
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run invokes the callback once, then again after every change, until ctx
// is cancelled. Callback errors after the first run are logged.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.fire(ctx); err != nil {
		return fmt.Errorf("initial run failed: %w", err)
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var debounceCh <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if eventPath, err := filepath.Abs(event.Name); err != nil || eventPath != w.file {
				continue
			}
			timer.Reset(w.debounce)
			debounceCh = timer.C

		case <-debounceCh:
			debounceCh = nil
			if err := w.fire(ctx); err != nil {
				log.Error("watch callback failed", "file", w.file, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "file", w.file, "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) fire(ctx context.Context) error {
	content, err := os.ReadFile(w.file)
	if err != nil {
		return err
	}
	log.Debug("file changed", "file", w.file, "bytes", len(content))
	return w.callback(ctx, content)
}
