// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the codechat CLI.
//
// Handles "codechat ask", which sends one question through the full
// controller pipeline (guards, transcript, persistence, history) and prints
// the rendered answer.
//
// Examples:
//   codechat ask "How does the indexer chunk files?"
//   codechat ask --local "Explain the upload endpoint"
//   codechat ask --top-k 10 --threshold 0.5 "Where is auth handled?"
//   codechat ask --json "List the public API routes"
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/jeranaias/codechat-tui/internal/backend"
	"github.com/jeranaias/codechat-tui/internal/model"
	"github.com/jeranaias/codechat-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the shared glamour renderer for markdown output.
var markdownRenderer *glamour.TermRenderer

func init() {
	markdownRenderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
}

// renderMarkdown renders markdown for terminal display. Returns the content
// unchanged when rendering fails or stdout is not a terminal, so piped
// output stays clean.
func renderMarkdown(content string) string {
	if markdownRenderer == nil || !term.IsTerminal(int(os.Stdout.Fd())) {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAsk handles the "ask" command.
func HandleAsk(args []string) {
	parser := NewArgParser(args)
	query := strings.Join(parser.Positional(), " ")

	app, err := NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// Per-invocation overrides only; the persisted session settings are
	// untouched unless the user changes them in the dashboard or REPL.
	settings := app.Store.Settings()
	settings.Temperature = parser.FloatFlag("temp", settings.Temperature)
	settings.TopK = parser.IntFlag("top-k", settings.TopK)
	settings.SimilarityThreshold = parser.FloatFlag("threshold", settings.SimilarityThreshold)
	settings.FilterType = parser.FlagOrDefault("filter", settings.FilterType)
	settings = settings.Normalize()

	mode := app.Store.Mode()
	if parser.BoolFlag("local") {
		mode = model.ModeLocal
	}

	ctx := context.Background()
	if app.Config.Backend.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(app.Config.Backend.TimeoutSecs)*time.Second)
		defer cancel()
	}

	// Refresh inventory first so the no-codebase guard sees fresh state.
	app.Inventory.Refresh(ctx)

	ex, err := app.Chat.Begin(query)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		os.Exit(1)
	}
	ex.Mode = mode
	ex.Settings = settings

	resp, askErr := app.Backend.Ask(ctx, ex.Mode, ex.Query, ex.Settings)
	if askErr != nil {
		app.Chat.FailWith(ex, askErr)
		fmt.Fprintln(os.Stderr, styles.RenderError(backend.Summarize(askErr)))
		os.Exit(1)
	}
	app.Chat.Complete(ex, resp)

	if parser.BoolFlag("json") {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Print(renderMarkdown(resp.Answer))
	if len(resp.RetrievedContext) > 0 {
		fmt.Println()
		fmt.Println(styles.RenderInfo(fmt.Sprintf("%d sources", len(resp.RetrievedContext))))
		for i, chunk := range resp.RetrievedContext {
			line := fmt.Sprintf("  %d. %s", i+1, chunk.Source)
			if sym := chunk.Symbol(); sym != "" {
				line += " (" + sym + ")"
			}
			fmt.Println(line)
		}
	}
}
