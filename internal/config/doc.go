// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// codechat.
//
// Configuration is TOML with sensible defaults, optional .env loading, and
// environment variable overrides.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (CODECHAT_*), including any set via ./.env
//   - ~/.codechat/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	primary := cfg.Backend.PrimaryURL
//	mode := cfg.Query.Mode
package config
