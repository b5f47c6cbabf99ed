// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - Inspection server command handler for the codechat CLI.
//
// Handles "codechat serve": runs the read-only HTTP inspection server in
// the foreground until interrupted.
//
// Flags:
//   --addr HOST:PORT   Listen address (overrides config)
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeranaias/codechat-tui/internal/server"
)

// HandleServe handles the "serve" command.
func HandleServe(args []string) {
	parser := NewArgParser(args)

	app, err := NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	serverCfg := app.Config.Server
	if addr := parser.Flag("addr"); addr != "" {
		serverCfg.Addr = addr
	}

	srv := server.New(app.Store, app.Inventory, app.History, app.Backend, &serverCfg, app.Log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Printf("Inspection server listening on http://%s (Ctrl+C to stop)\n", serverCfg.Addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}
