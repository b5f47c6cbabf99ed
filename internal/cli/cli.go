// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
)

// Version information (set at build time from main).
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Cmd identifies a top-level CLI command.
type Cmd int

const (
	CmdTUI Cmd = iota // default: launch the dashboard
	CmdAsk
	CmdChat
	CmdFiles
	CmdStatus
	CmdServe
	CmdExport
	CmdConfig
	CmdVersion
	CmdHelp
)

// Parse maps os.Args onto a command and its remaining arguments.
func Parse() (Cmd, []string) {
	if len(os.Args) < 2 {
		return CmdTUI, nil
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "ask":
		return CmdAsk, args
	case "chat":
		return CmdChat, args
	case "files":
		return CmdFiles, args
	case "status":
		return CmdStatus, args
	case "serve":
		return CmdServe, args
	case "export":
		return CmdExport, args
	case "config":
		return CmdConfig, args
	case "version", "--version", "-v":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	case "tui", "dashboard":
		return CmdTUI, args
	default:
		// Unknown word: treat the whole tail as an ask query.
		return CmdAsk, os.Args[1:]
	}
}

// HandleVersion prints version information.
func HandleVersion(args []string) {
	fmt.Printf("codechat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// HandleHelp prints usage.
func HandleHelp(args []string) {
	fmt.Print(`codechat - terminal dashboard for chatting with your codebase

Usage:
  codechat                    Launch the dashboard TUI
  codechat ask [question]     Ask a single question and print the answer
  codechat chat               Interactive REPL with input history
  codechat files <subcommand> Manage the uploaded codebase
  codechat status             Show backend, inventory, and session state
  codechat serve              Run the read-only inspection HTTP server
  codechat export             Print the transcript as markdown
  codechat config <get|set|path>  Inspect or edit configuration
  codechat version            Print version information

Ask flags:
  --local                Use the local backend for this question
  --temp FLOAT           Sampling temperature (0.0-2.0)
  --top-k INT            Number of chunks to retrieve
  --threshold FLOAT      Minimum similarity (0.0-1.0)
  --filter TYPE          Restrict retrieval to a chunk type
  --json                 Print the raw response as JSON

Files subcommands:
  codechat files list
  codechat files upload <path>
  codechat files clear [--yes]

Environment:
  CODECHAT_PRIMARY_URL, CODECHAT_LOCAL_URL, CODECHAT_MODE,
  CODECHAT_SERVER_ADDR, CODECHAT_WATCH_PATH, CODECHAT_NO_HISTORY
`)
}
