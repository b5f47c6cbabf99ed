// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and execution for codechat.
//
// The binary defaults to the full-screen dashboard; every other command is
// a non-interactive surface over the same session store and controllers,
// so a question asked via "codechat ask" lands in the same transcript the
// dashboard shows.
//
// # Usage
//
// Parse and dispatch commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    cli.HandleAsk(args)
//	case cli.CmdChat:
//	    cli.HandleChat(args)
//	// ... other commands
//	}
//
// # Commands
//
//   - ask: single question, answer to stdout
//   - chat: readline REPL with persistent input history
//   - files: list/upload/clear the backend codebase
//   - status: backend, session, and history summary
//   - serve: read-only HTTP inspection server
//   - export: transcript as markdown or JSON
//   - config: show/set/reset/path
package cli
