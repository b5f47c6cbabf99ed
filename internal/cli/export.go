// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export.go - Transcript export command handler for the codechat CLI.
//
// Handles "codechat export": prints the persisted transcript as markdown,
// or as JSON with --json. Output goes to stdout so it can be piped.
package cli

import (
	"fmt"
	"os"
)

// HandleExport handles the "export" command.
func HandleExport(args []string) {
	parser := NewArgParser(args)

	app, err := NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if parser.BoolFlag("json") {
		data, err := app.Store.ExportJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Print(app.Store.ExportMarkdown())
}
