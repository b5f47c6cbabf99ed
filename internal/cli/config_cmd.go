// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Config command implementation for codechat.
//
// Subcommands:
//   show (default)      Display current configuration
//   set <key> <value>   Set a configuration value
//   reset               Reset to default configuration
//   path                Show configuration file path
//
// Configuration keys accepted by set:
//   primary_url         Primary backend base URL
//   local_url           Local backend base URL
//   timeout_secs        Request timeout in seconds
//   mode                Default query mode (primary/local)
//   theme               UI theme name
//   show_debug          Show retrieval debug info (true/false)
//   server_addr         Inspection server listen address
//   server_enabled      Start the inspection server (true/false)
//   watch_path          Local checkout path for the staleness watcher
//   history_enabled     Record exchanges to SQLite (true/false)
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/codechat-tui/internal/config"
	"github.com/jeranaias/codechat-tui/internal/ui/styles"
)

var (
	configTitleStyle = lipgloss.NewStyle().
				Foreground(styles.Purple).
				Bold(true)

	configSectionStyle = lipgloss.NewStyle().
				Foreground(styles.Cyan).
				Bold(true)

	configKeyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(22)

	configValueStyle = lipgloss.NewStyle().
				Foreground(styles.TextPrimary)
)

// HandleConfig handles the "config" command.
func HandleConfig(args []string) {
	parser := NewArgParser(args)

	var err error
	switch parser.Subcommand() {
	case "", "show", "get":
		err = configShow()
	case "set":
		rest := parser.PositionalAfterSubcommand()
		if len(rest) < 2 {
			err = fmt.Errorf("usage: codechat config set <key> <value>")
		} else {
			err = configSet(rest[0], rest[1])
		}
	case "reset":
		err = configReset()
	case "path":
		err = configPath()
	default:
		err = fmt.Errorf("unknown config subcommand: %s", parser.Subcommand())
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		os.Exit(1)
	}
}

func configShow() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (using defaults)\n", err)
		cfg = config.Default()
	}

	fmt.Println()
	fmt.Println(configTitleStyle.Render("codechat configuration"))
	fmt.Println(strings.Repeat("=", 41))
	fmt.Println()

	fmt.Println(configSectionStyle.Render("[backend]"))
	printKV("primary_url:", cfg.Backend.PrimaryURL)
	printKV("local_url:", cfg.Backend.LocalURL)
	printKV("timeout_secs:", strconv.Itoa(cfg.Backend.TimeoutSecs))
	fmt.Println()

	fmt.Println(configSectionStyle.Render("[query]"))
	printKV("mode:", cfg.Query.Mode)
	printKV("temperature:", fmt.Sprintf("%.1f", cfg.Query.Temperature))
	printKV("top_k:", strconv.Itoa(cfg.Query.TopK))
	printKV("similarity_threshold:", fmt.Sprintf("%.2f", cfg.Query.SimilarityThreshold))
	fmt.Println()

	fmt.Println(configSectionStyle.Render("[server]"))
	printKV("enabled:", strconv.FormatBool(cfg.Server.Enabled))
	printKV("addr:", cfg.Server.Addr)
	fmt.Println()

	fmt.Println(configSectionStyle.Render("[ui]"))
	printKV("theme:", cfg.UI.Theme)
	printKV("show_debug:", strconv.FormatBool(cfg.UI.ShowDebug))
	fmt.Println()

	fmt.Println(configSectionStyle.Render("[watch]"))
	printKV("enabled:", strconv.FormatBool(cfg.Watch.Enabled))
	printKV("path:", cfg.Watch.Path)
	fmt.Println()

	fmt.Println(configSectionStyle.Render("[history]"))
	printKV("enabled:", strconv.FormatBool(cfg.History.Enabled))
	fmt.Println()

	return nil
}

func printKV(key, value string) {
	fmt.Printf("  %s%s\n", configKeyStyle.Render(key), configValueStyle.Render(value))
}

func configSet(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	switch key {
	case "primary_url":
		cfg.Backend.PrimaryURL = value
	case "local_url":
		cfg.Backend.LocalURL = value
	case "timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeout_secs must be an integer: %q", value)
		}
		cfg.Backend.TimeoutSecs = n
	case "mode":
		cfg.Query.Mode = value
	case "theme":
		cfg.UI.Theme = value
	case "show_debug":
		cfg.UI.ShowDebug = value == "true"
	case "server_addr":
		cfg.Server.Addr = value
	case "server_enabled":
		cfg.Server.Enabled = value == "true"
	case "watch_path":
		cfg.Watch.Path = value
		cfg.Watch.Enabled = value != ""
	case "history_enabled":
		cfg.History.Enabled = value == "true"
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess(key + " = " + value))
	return nil
}

func configReset() error {
	if err := config.Save(config.Default()); err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess("Configuration reset to defaults."))
	return nil
}

func configPath() error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		fmt.Println(styles.RenderInfo("(not created yet; defaults are in effect)"))
	}
	return nil
}
