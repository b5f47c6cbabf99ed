// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive REPL command handler for the codechat CLI.
//
// Handles "codechat chat": a readline-style loop over the same controller
// the dashboard uses, for terminals where a full-screen TUI is unwanted
// (ssh sessions, scripting around a pty, screen readers).
//
// Interactive commands:
//   /mode [primary|local]   Show or switch the query mode
//   /settings               Show current query settings
//   /files                  List the uploaded codebase
//   /clear                  Clear the transcript
//   /export                 Print the transcript as markdown
//   /help                   Show available commands
//   /quit, exit             Leave the REPL
//   Ctrl+C                  Cancel the current line
//   Ctrl+D                  Leave the REPL
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/codechat-tui/internal/backend"
	"github.com/jeranaias/codechat-tui/internal/config"
	"github.com/jeranaias/codechat-tui/internal/model"
	"github.com/jeranaias/codechat-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	replInfoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	replWarnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ReplInput provides input history and line editing for the REPL.
type ReplInput struct {
	line        *liner.State
	historyFile string
}

// NewReplInput creates a liner-backed reader with persistent history.
func NewReplInput() *ReplInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	r := &ReplInput{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	r.loadHistory()
	return r
}

func (r *ReplInput) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line, recording non-empty input in history.
func (r *ReplInput) ReadInput(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *ReplInput) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (r *ReplInput) Close() {
	r.saveHistory()
	r.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat handles the "chat" command.
func HandleChat(args []string) {
	parser := NewArgParser(args)

	app, err := NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if parser.BoolFlag("local") {
		app.Store.SetMode(model.ModeLocal)
	}

	input := NewReplInput()
	defer input.Close()

	// Prime the inventory mirror so the no-codebase guard reflects the
	// backend, not a stale snapshot.
	refreshCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	app.Inventory.Refresh(refreshCtx)
	cancel()

	fmt.Println(welcomeStyle.Render("codechat " + Version))
	fmt.Println(replInfoStyle.Render(fmt.Sprintf("mode: %s | files: %d | /help for commands",
		app.Store.Mode(), len(app.Inventory.Files()))))
	fmt.Println()

	for {
		raw, err := input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C cancels the line, not the session.
				fmt.Println(replInfoStyle.Render("(cancelled; /quit to exit)"))
				continue
			}
			// io.EOF on Ctrl+D.
			fmt.Println()
			return
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}
		if strings.HasPrefix(line, "/") {
			if replCommand(app, line) {
				return
			}
			continue
		}

		replAsk(app, line)
	}
}

// replCommand executes a slash command. Returns true when the REPL should
// exit.
func replCommand(app *App, line string) bool {
	fields := strings.Fields(line)
	cmd := fields[0]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(replInfoStyle.Render(`  /mode [primary|local]   show or switch the query mode
  /settings               show current query settings
  /files                  list the uploaded codebase
  /clear                  clear the transcript
  /export                 print the transcript as markdown
  /quit                   leave the REPL`))

	case "/mode", "/m":
		if len(fields) > 1 {
			m := model.Mode(fields[1])
			if !m.Valid() {
				fmt.Println(replWarnStyle.Render("unknown mode " + fields[1] + " (primary or local)"))
				break
			}
			if err := app.Store.SetMode(m); err != nil {
				fmt.Println(replWarnStyle.Render(err.Error()))
				break
			}
		}
		fmt.Println(replInfoStyle.Render("mode: " + app.Store.Mode().String()))

	case "/settings", "/s":
		s := app.Store.Settings()
		fmt.Println(replInfoStyle.Render(fmt.Sprintf(
			"temperature=%.1f top_k=%d threshold=%.2f filter=%s",
			s.Temperature, s.TopK, s.SimilarityThreshold, orNone(s.FilterType))))

	case "/files", "/f":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		app.Inventory.Refresh(ctx)
		cancel()
		files := app.Inventory.Files()
		if len(files) == 0 {
			fmt.Println(replInfoStyle.Render("no codebase uploaded"))
			break
		}
		for _, f := range files {
			fmt.Printf("  %s\n", f.Name)
		}

	case "/clear", "/c":
		if err := app.Store.ClearMessages(); err != nil {
			fmt.Println(replWarnStyle.Render(err.Error()))
			break
		}
		fmt.Println(replInfoStyle.Render("transcript cleared"))

	case "/export", "/e":
		fmt.Print(app.Store.ExportMarkdown())

	default:
		fmt.Println(replWarnStyle.Render("unknown command " + cmd + " (/help for commands)"))
	}
	return false
}

// replAsk dispatches one question synchronously and prints the outcome.
func replAsk(app *App, query string) {
	ex, err := app.Chat.Begin(query)
	if err != nil {
		fmt.Println(replWarnStyle.Render(err.Error()))
		return
	}

	ctx := context.Background()
	if app.Config.Backend.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(app.Config.Backend.TimeoutSecs)*time.Second)
		defer cancel()
	}

	resp, askErr := app.Backend.Ask(ctx, ex.Mode, ex.Query, ex.Settings)
	if askErr != nil {
		app.Chat.FailWith(ex, askErr)
		fmt.Println(replWarnStyle.Render(backend.Summarize(askErr)))
		return
	}
	app.Chat.Complete(ex, resp)

	fmt.Print(renderMarkdown(resp.Answer))
	if len(resp.RetrievedContext) > 0 {
		srcs := make([]string, 0, len(resp.RetrievedContext))
		for _, chunk := range resp.RetrievedContext {
			srcs = append(srcs, chunk.Source)
		}
		fmt.Println(replInfoStyle.Render("sources: " + strings.Join(srcs, ", ")))
	}
	fmt.Println()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
