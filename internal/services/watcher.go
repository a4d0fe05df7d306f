package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	defaultDebounce = 500 * time.Millisecond
	reloadTimeout   = 30 * time.Second
)

// ErrWatcherStopped is returned by Start once Stop has released the watcher.
var ErrWatcherStopped = errors.New("data watcher stopped")

// Reloader is what the watcher refreshes.
type Reloader interface {
	Reload(ctx context.Context) error
}

// DataWatcher reloads the dataset after one of its files changes. Bursts of
// events are collapsed into a single reload.
type DataWatcher struct {
	watcher  *fsnotify.Watcher
	target   Reloader
	files    map[string]bool
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewDataWatcher(files DataFiles, target Reloader, logger *slog.Logger) (*DataWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	watched := make(map[string]bool)
	for _, path := range files.Paths() {
		watched[filepath.Clean(path)] = true
	}

	return &DataWatcher{
		watcher:  watcher,
		target:   target,
		files:    watched,
		debounce: defaultDebounce,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start watches the directories holding the data files. It does not block.
// A watcher cannot be restarted after Stop.
func (w *DataWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrWatcherStopped
	}
	if w.running {
		return nil
	}

	dirs := make(map[string]bool)
	for path := range w.files {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Info("watching data directory", "dir", dir)
	}

	w.running = true
	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and releases the watcher. Later calls are no-ops.
func (w *DataWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	return w.watcher.Close()
}

func (w *DataWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("data file changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("data watcher error", "error", err)

		case <-pending:
			pending = nil
			reloadCtx, cancel := context.WithTimeout(ctx, reloadTimeout)
			err := w.target.Reload(reloadCtx)
			cancel()
			if err != nil {
				w.logger.Error("dataset reload failed, keeping previous data", "error", err)
				continue
			}
			w.logger.Info("dataset reloaded")
		}
	}
}

func (w *DataWatcher) relevant(event fsnotify.Event) bool {
	if !w.files[filepath.Clean(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
