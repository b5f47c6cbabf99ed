// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command handler for the codechat CLI.
//
// Handles "codechat status": one screen of backend reachability, session
// mode and settings, codebase inventory, and history totals.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/codechat-tui/internal/ui/styles"
)

// HandleStatus handles the "status" command.
func HandleStatus(args []string) {
	app, err := NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("codechat " + Version)
	fmt.Println()

	if err := app.Backend.CheckHealth(ctx); err != nil {
		fmt.Println("  backend:  " + styles.RenderError("offline") + "  (" + app.Config.Backend.PrimaryURL + ")")
	} else {
		fmt.Println("  backend:  " + styles.RenderSuccess("online") + "   (" + app.Config.Backend.PrimaryURL + ")")
	}

	fmt.Printf("  mode:     %s\n", app.Store.Mode())
	s := app.Store.Settings()
	fmt.Printf("  settings: temperature=%.1f top_k=%d threshold=%.2f filter=%s\n",
		s.Temperature, s.TopK, s.SimilarityThreshold, orNone(s.FilterType))

	app.Inventory.Refresh(ctx)
	files := app.Inventory.Files()
	line := fmt.Sprintf("  codebase: %d files", len(files))
	if app.Inventory.Stale() {
		line += "  " + styles.RenderWarning("(stale mirror)")
	}
	fmt.Println(line)

	fmt.Printf("  messages: %d in transcript\n", len(app.Store.Messages()))

	if app.History != nil {
		stats, err := app.History.Stats()
		if err == nil {
			fmt.Printf("  history:  %d exchanges (%d ok, %d failed)\n",
				stats.Total, stats.Succeeded, stats.Failed)
		}
	} else {
		fmt.Println("  history:  disabled")
	}
}
