package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher notifies when a storage file is modified by another process, so
// in-memory state seeded at startup can be re-read. Bursts of events (sqlite
// writes touch the database and its journal) are collapsed into one callback.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func()
	logger   *logrus.Logger
	done     chan struct{}
}

// NewWatcher creates a watcher for the file at path
func NewWatcher(path string, debounce time.Duration, onChange func(), logger *logrus.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return &Watcher{
		watcher:  fw,
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Start watches the file's directory until ctx is cancelled or Close is
// called. Close must still be called when Start fails.
func (w *Watcher) Start(ctx context.Context) error {
	// watch the directory: sqlite replaces journal files and editors rename over targets
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		close(w.done)
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.WithField("path", w.path).Debug("Watching storage file for external changes")
	go w.run(ctx)
	return nil
}

// Close stops the watcher and waits for the event loop to exit
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("Storage watcher error")
		case <-fire:
			fire = nil
			w.onChange()
		}
	}
}

func (w *Watcher) matches(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	// covers the database file and its -journal / -wal siblings
	return strings.HasPrefix(filepath.Clean(ev.Name), w.path)
}
