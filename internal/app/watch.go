package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"imtest/pkg/logging"
)

const defaultDebounceInterval = 300 * time.Millisecond

// ConfigWatcher reports changes to one file. It watches the file's directory
// so that editors replacing the file by rename are noticed, and coalesces
// bursts of events into one notification.
type ConfigWatcher struct {
	mu sync.Mutex

	path             string
	debounceInterval time.Duration
	timer            *time.Timer
}

// NewConfigWatcher creates a watcher for path. A zero debounce interval
// selects the default.
func NewConfigWatcher(path string, debounceInterval time.Duration) *ConfigWatcher {
	if debounceInterval == 0 {
		debounceInterval = defaultDebounceInterval
	}
	return &ConfigWatcher{path: filepath.Clean(path), debounceInterval: debounceInterval}
}

// Run sends the file path on changes after each burst of events until ctx is
// cancelled. A pending notification is dropped when changes is full.
func (w *ConfigWatcher) Run(ctx context.Context, changes chan<- string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logging.Info("Watch", "Started watching %s for configuration changes", w.path)

	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			logging.Debug("Watch", "Event %s", event)
			w.debounce(changes)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watch", err, "File watcher error")
		}
	}
}

func (w *ConfigWatcher) debounce(changes chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceInterval, func() {
		select {
		case changes <- w.path:
		default:
			logging.Debug("Watch", "Change already pending for %s", w.path)
		}
	})
}

func (w *ConfigWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
