// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package artifacts watches a locally synced artifacts directory and turns
// canvas file changes into refresh events on the bus, so an open canvas
// card redraws when the platform sync rewrites its file.
package artifacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/strand-tui/internal/bus"
	"github.com/jeranaias/strand-tui/internal/toolview"
)

// DefaultDebounce collapses the burst of write events a single file save
// produces into one refresh.
const DefaultDebounce = 250 * time.Millisecond

// ErrNoRoot indicates the watch root does not exist.
var ErrNoRoot = errors.New("artifacts directory does not exist")

// Watcher publishes CanvasUpdated events for canvas files changed under a
// synced artifacts root.
type Watcher struct {
	root     string
	bus      *bus.Bus[bus.CanvasUpdated]
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time // relative path -> last change time

	ctx    context.Context
	cancel context.CancelFunc
	done   sync.WaitGroup
}

// NewWatcher creates a watcher over root publishing on b. A non-positive
// debounce uses DefaultDebounce.
func NewWatcher(root string, b *bus.Bus[bus.CanvasUpdated], debounce time.Duration) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, ErrNoRoot
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		root:     root,
		bus:      b,
		watcher:  fsw,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch registers the directory tree and starts the event and debounce
// goroutines.
func (w *Watcher) Watch() error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	w.done.Add(2)
	go w.processEvents()
	go w.processPending()

	return nil
}

// Close stops watching and waits for the goroutines to exit.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.done.Wait()
	return err
}

// addRecursive adds a directory and all its subdirectories to the watch list.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			return nil
		}
		// Hidden directories hold sync bookkeeping, not artifacts.
		if name := filepath.Base(path); len(name) > 1 && name[0] == '.' {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return nil // Non-fatal, continue
		}
		return nil
	})
}

// processEvents consumes file system events.
func (w *Watcher) processEvents() {
	defer w.done.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create {
				w.handleFileChange(event.Name)
			}

			// New directories join the watch so canvases created after
			// startup are covered.
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addRecursive(event.Name)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Non-fatal; keep watching.
		}
	}
}

// handleFileChange records a canvas change for debounced publication. Paths
// are reported relative to the root, matching how tool calls name them.
func (w *Watcher) handleFileChange(path string) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	if !toolview.IsCanvasPath(rel) {
		return
	}

	w.mu.Lock()
	w.pending[rel] = time.Now()
	w.mu.Unlock()
}

// processPending publishes changes once they have been quiet for the
// debounce interval.
func (w *Watcher) processPending() {
	defer w.done.Done()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			w.mu.Lock()
			var ready []string
			for path, changed := range w.pending {
				if now.Sub(changed) >= w.debounce {
					ready = append(ready, path)
					delete(w.pending, path)
				}
			}
			w.mu.Unlock()

			for _, path := range ready {
				w.bus.Publish(bus.CanvasUpdated{
					CanvasPath: path,
					Timestamp:  now,
				})
			}
		}
	}
}
