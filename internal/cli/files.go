// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// files.go - Codebase management command handler for the codechat CLI.
//
// Handles "codechat files":
//   codechat files list            List the uploaded codebase
//   codechat files upload <path>   Upload a file or directory
//   codechat files clear [--yes]   Clear the codebase (and the transcript)
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/codechat-tui/internal/inventory"
	"github.com/jeranaias/codechat-tui/internal/ui/styles"
)

// HandleFiles handles the "files" command.
func HandleFiles(args []string) {
	parser := NewArgParser(args)

	app, err := NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	switch parser.Subcommand() {
	case "", "list", "ls":
		filesList(app)
	case "upload", "up":
		rest := parser.PositionalAfterSubcommand()
		if len(rest) == 0 {
			fmt.Fprintln(os.Stderr, styles.RenderError("usage: codechat files upload <path>"))
			os.Exit(1)
		}
		filesUpload(app, rest[0])
	case "clear":
		filesClear(app, parser.BoolFlag("yes", "y"))
	default:
		fmt.Fprintln(os.Stderr, styles.RenderError("unknown subcommand "+parser.Subcommand()+" (list, upload, clear)"))
		os.Exit(1)
	}
}

func filesList(app *App) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	app.Inventory.Refresh(ctx)

	files := app.Inventory.Files()
	if len(files) == 0 {
		fmt.Println(styles.RenderInfo("No codebase uploaded."))
		return
	}
	if app.Inventory.Stale() {
		fmt.Println(styles.RenderWarning("Showing the last known inventory; the backend could not be reached."))
	}
	for _, f := range files {
		line := f.Name
		if f.Type != "" {
			line += "  (" + f.Type + ")"
		}
		fmt.Println("  " + line)
	}
	fmt.Println(styles.RenderInfo(fmt.Sprintf("%d files", len(files))))
}

func filesUpload(app *App, path string) {
	items, err := inventory.CollectLocal(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := app.Inventory.Upload(ctx, items); err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		os.Exit(1)
	}
	fmt.Println(styles.RenderSuccess(fmt.Sprintf("Uploaded %d files.", len(items))))
}

func filesClear(app *App, confirmed bool) {
	if !confirmed {
		fmt.Print("Clear the uploaded codebase and the chat transcript? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Inventory.Clear(ctx); err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		os.Exit(1)
	}
	fmt.Println(styles.RenderSuccess("Codebase and transcript cleared."))
}
