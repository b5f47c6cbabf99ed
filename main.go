// codechat - a terminal dashboard for chatting with your codebase.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/codechat-tui/internal/cli"
	"github.com/jeranaias/codechat-tui/internal/config"
	"github.com/jeranaias/codechat-tui/internal/inventory"
	"github.com/jeranaias/codechat-tui/internal/server"
	"github.com/jeranaias/codechat-tui/internal/ui/dashboard"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdFiles:
		cli.HandleFiles(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdServe:
		cli.HandleServe(args)
	case cli.CmdExport:
		cli.HandleExport(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp(args)
	default:
		cli.HandleHelp(args)
	}
}

// runTUI launches the full-screen dashboard with the optional background
// services the configuration enables: the checkout staleness watcher, config
// hot reload, and the read-only inspection server.
func runTUI(args []string) {
	app, err := cli.NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	cfg := app.Config

	if cfg.Watch.Enabled && cfg.Watch.Path != "" {
		w, err := inventory.NewWatcher(app.Inventory, cfg.Watch.Path,
			time.Duration(cfg.Watch.DebounceMs)*time.Millisecond)
		if err != nil {
			app.Log.Warn("checkout watcher disabled", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	if stop, err := config.Watch(app.Log); err == nil {
		defer stop()
	}

	if cfg.Server.Enabled {
		srv := server.New(app.Store, app.Inventory, app.History, app.Backend,
			&cfg.Server, app.Log)
		go func() {
			if err := srv.Start(); err != nil {
				app.Log.Warn("inspection server stopped", zap.Error(err))
			}
		}()
	}

	m := dashboard.New(app.Store, app.Chat, app.Inventory, app.Backend,
		app.History, cfg, app.Log)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
