// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package inventory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ignoredDirs are directory names that never belong to an uploadable
// codebase; changes inside them do not make the inventory stale.
var ignoredDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".idea":        true,
	".vscode":      true,
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
	"build":        true,
}

// Watcher marks the inventory stale when the watched local checkout
// changes, prompting the user to re-upload. Purely advisory: it never
// uploads anything itself.
type Watcher struct {
	ctrl     *Controller
	watcher  *fsnotify.Watcher
	debounce time.Duration
	cancel   context.CancelFunc
}

// NewWatcher creates a watcher over root, recursively. A zero debounce
// defaults to 500ms.
func NewWatcher(ctrl *Controller, root string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w := &Watcher{
		ctrl:     ctrl,
		watcher:  fsw,
		debounce: debounce,
	}
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.run(ctx)
	return w, nil
}

// addRecursive adds root and all its non-ignored subdirectories.
func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if !info.IsDir() {
			return nil
		}
		if ignoredDirs[filepath.Base(path)] {
			return filepath.SkipDir
		}
		// Watch failures on individual directories are non-fatal.
		_ = w.watcher.Add(path)
		return nil
	})
}

// run drains events with debouncing: a burst of writes collapses into one
// staleness transition.
func (w *Watcher) run(ctx context.Context) {
	var pending *time.Timer
	var lastPath string

	for {
		select {
		case <-ctx.Done():
			if pending != nil {
				pending.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			// New directories need to be picked up for further events.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}
			lastPath = event.Name
			if pending == nil {
				path := lastPath
				pending = time.AfterFunc(w.debounce, func() {
					w.ctrl.markStale(path)
				})
			} else {
				pending.Reset(w.debounce)
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// relevant filters events down to content-changing operations on
// non-ignored paths.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(event.Name), "/") {
		if ignoredDirs[part] {
			return false
		}
	}
	return true
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	return w.watcher.Close()
}
