// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jeranaias/codechat-tui/internal/backend"
	"github.com/jeranaias/codechat-tui/internal/chat"
	"github.com/jeranaias/codechat-tui/internal/config"
	"github.com/jeranaias/codechat-tui/internal/history"
	"github.com/jeranaias/codechat-tui/internal/inventory"
	"github.com/jeranaias/codechat-tui/internal/store"
)

// =============================================================================
// APPLICATION BOOTSTRAP
// =============================================================================

// App bundles the wired collaborators shared by every command.
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	Store     *store.SessionStore
	Backend   *backend.Client
	Inventory *inventory.Controller
	History   *history.Store // nil when recording is disabled
	Chat      *chat.Controller
}

// NewApp loads configuration and wires the full dependency graph.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	config.SetGlobal(cfg)

	if err := config.EnsureConfigDir(); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(filepath.Join(dir, "codechat.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	sessionStore, err := store.Open(filepath.Join(dir, "session"))
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client := backend.NewClientWithConfig(&backend.ClientConfig{
		PrimaryURL: cfg.Backend.PrimaryURL,
		LocalURL:   cfg.Backend.LocalURL,
	})

	inv := inventory.NewController(sessionStore, client, log)

	var hist *history.Store
	if cfg.History.Enabled {
		path, pathErr := cfg.HistoryPath()
		if pathErr == nil {
			hist, err = history.Open(path, log)
			if err != nil {
				// History is an enhancement, not a dependency.
				log.Warn("history recording disabled", zap.Error(err))
				hist = nil
			}
		}
	}

	var observer chat.Observer
	if hist != nil {
		observer = hist
	}
	chatCtrl := chat.NewController(sessionStore, client, inv, observer, log)

	return &App{
		Config:    cfg,
		Log:       log,
		Store:     sessionStore,
		Backend:   client,
		Inventory: inv,
		History:   hist,
		Chat:      chatCtrl,
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.History != nil {
		a.History.Close()
	}
	if a.Log != nil {
		_ = a.Log.Sync()
	}
}

// newLogger builds a file-backed zap logger. Logging goes to a file rather
// than stderr so it never corrupts the TUI or piped command output.
func newLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
