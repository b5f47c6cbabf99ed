// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the global configuration whenever the config file changes on
// disk. Editors replace files rather than writing in place, so the watch is
// on the config directory and filtered by name. Returns a stop function.
func Watch(log *zap.Logger) (func(), error) {
	if log == nil {
		log = zap.NewNop()
	}
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if err := EnsureConfigDir(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		var pending *time.Timer
		const debounce = 250 * time.Millisecond

		reload := func() {
			if err := ReloadGlobal(); err != nil {
				log.Warn("config reload failed, keeping previous config", zap.Error(err))
				return
			}
			log.Info("config reloaded", zap.String("path", path))
		}

		for {
			select {
			case <-done:
				if pending != nil {
					pending.Stop()
				}
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filepath.Base(path) {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
					!event.Op.Has(fsnotify.Rename) {
					continue
				}
				if pending == nil {
					pending = time.AfterFunc(debounce, reload)
				} else {
					pending.Reset(debounce)
				}
			case _, ok := <-fsw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() {
		close(done)
		fsw.Close()
	}, nil
}
