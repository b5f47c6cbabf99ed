// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/codechat-tui/internal/chat"
	"github.com/jeranaias/codechat-tui/internal/history"
	"github.com/jeranaias/codechat-tui/internal/inventory"
	"github.com/jeranaias/codechat-tui/internal/model"
)

// =============================================================================
// MESSAGES
// =============================================================================

// exchangeDoneMsg signals that a dispatched exchange settled. The outcome is
// already reconciled into the store; the UI only needs to re-render.
type exchangeDoneMsg struct{}

// healthMsg carries the latest primary-backend reachability probe.
type healthMsg struct{ online bool }

// healthTickMsg triggers the next periodic health probe.
type healthTickMsg struct{}

// inventoryMsg signals that the inventory finished refreshing.
type inventoryMsg struct{}

// uploadDoneMsg carries the outcome of an upload batch.
type uploadDoneMsg struct {
	count int
	err   error
}

// clearDoneMsg carries the outcome of a codebase clear.
type clearDoneMsg struct{ err error }

// diagramMsg carries generated Mermaid source for the diagram view.
type diagramMsg struct {
	source string
	err    error
}

// statsMsg carries refreshed history statistics for the performance view.
type statsMsg struct {
	stats  history.Stats
	recent []history.Entry
	err    error
}

// =============================================================================
// COMMANDS
// =============================================================================

// healthPollInterval is how often the status bar re-probes the backend.
const healthPollInterval = 10 * time.Second

// runExchangeCmd drives a dispatched exchange to resolution.
func runExchangeCmd(ctrl *chat.Controller, ex *chat.Exchange, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		ctrl.Run(ctx, ex)
		return exchangeDoneMsg{}
	}
}

// checkHealthCmd probes the primary backend once.
func checkHealthCmd(checker interface {
	CheckHealth(ctx context.Context) error
}) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return healthMsg{online: checker.CheckHealth(ctx) == nil}
	}
}

// healthTickCmd schedules the next periodic health probe.
func healthTickCmd() tea.Cmd {
	return tea.Tick(healthPollInterval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

// refreshInventoryCmd refreshes the file inventory from the server.
func refreshInventoryCmd(inv *inventory.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		inv.Refresh(ctx)
		return inventoryMsg{}
	}
}

// uploadCmd collects files under path and uploads them.
func uploadCmd(inv *inventory.Controller, path string) tea.Cmd {
	return func() tea.Msg {
		items, err := inventory.CollectLocal(path)
		if err != nil {
			return uploadDoneMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := inv.Upload(ctx, items); err != nil {
			return uploadDoneMsg{err: err}
		}
		return uploadDoneMsg{count: len(items)}
	}
}

// clearFilesCmd asks the backend to discard its codebase.
func clearFilesCmd(inv *inventory.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return clearDoneMsg{err: inv.Clear(ctx)}
	}
}

// chunkDiagramCmd generates a structure diagram for a retrieved chunk.
func chunkDiagramCmd(ctrl *chat.Controller, mode model.Mode, chunk model.CodeChunk) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		src, err := ctrl.ChunkDiagram(ctx, mode, chunk)
		return diagramMsg{source: src, err: err}
	}
}

// moduleDiagramCmd generates a module structure diagram from the inventory.
func moduleDiagramCmd(ctrl *chat.Controller, mode model.Mode, files []model.FileRecord, retrieved []model.CodeChunk) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		src, err := ctrl.ModuleDiagram(ctx, mode, files, retrieved)
		return diagramMsg{source: src, err: err}
	}
}

// statsCmd loads history statistics for the performance view.
func statsCmd(hist *history.Store) tea.Cmd {
	return func() tea.Msg {
		if hist == nil {
			return statsMsg{stats: history.Stats{ByMode: map[string]int{}}}
		}
		stats, err := hist.Stats()
		if err != nil {
			return statsMsg{err: err}
		}
		recent, err := hist.Recent(10)
		if err != nil {
			return statsMsg{stats: stats, err: err}
		}
		return statsMsg{stats: stats, recent: recent}
	}
}
