// Package fswatcher notifies about changes to a single file using fsnotify.
package fswatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/user/avatarcrop/pkg/ports"
)

// DefaultDebounce collapses the burst of events editors and copy tools emit
// for a single save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher implements ports.Watcher.
type Watcher struct {
	debounce time.Duration
	logger   ports.Logger
}

// New creates a Watcher. A non-positive debounce uses DefaultDebounce.
func New(debounce time.Duration, logger ports.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{debounce: debounce, logger: logger.WithComponent("watch")}
}

// Watch watches the directory containing path, so atomic replacements
// (write to temp file, rename) are seen too. onChange runs on the watcher's
// timer goroutine, one call at a time.
func (w *Watcher) Watch(ctx context.Context, path string, onChange func(path string)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch folder %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Debug("Watching %s", abs)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	fire := func() {
		mu.Lock()
		defer mu.Unlock()
		onChange(path)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event, abs) {
				continue
			}
			w.logger.Debug("File event %s on %s", event.Op, event.Name)

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, fire)
			mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error: %v", err)
		}
	}
}

func relevant(event fsnotify.Event, target string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != target {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

var _ ports.Watcher = (*Watcher)(nil)
