// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend.PrimaryURL != "http://127.0.0.1:8000" {
		t.Errorf("PrimaryURL = %q", cfg.Backend.PrimaryURL)
	}
	if cfg.Backend.LocalURL != "http://127.0.0.1:8001" {
		t.Errorf("LocalURL = %q", cfg.Backend.LocalURL)
	}
	if cfg.Backend.TimeoutSecs != 120 {
		t.Errorf("TimeoutSecs = %d", cfg.Backend.TimeoutSecs)
	}
	if cfg.Query.Mode != "primary" {
		t.Errorf("Mode = %q", cfg.Query.Mode)
	}
	if cfg.Query.Temperature != 0.2 || cfg.Query.TopK != 5 || cfg.Query.SimilarityThreshold != 0.7 {
		t.Errorf("query defaults = %+v", cfg.Query)
	}
	if cfg.Server.Enabled {
		t.Error("server should default to disabled")
	}
	if !cfg.History.Enabled {
		t.Error("history should default to enabled")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad primary url", func(c *Config) { c.Backend.PrimaryURL = "not a url" }, "backend.primary_url"},
		{"negative timeout", func(c *Config) { c.Backend.TimeoutSecs = -1 }, "backend.timeout_secs"},
		{"unknown mode", func(c *Config) { c.Query.Mode = "cloud" }, "query.mode"},
		{"temperature out of range", func(c *Config) { c.Query.Temperature = 3 }, "query.temperature"},
		{"zero top_k", func(c *Config) { c.Query.TopK = 0 }, "query.top_k"},
		{"threshold out of range", func(c *Config) { c.Query.SimilarityThreshold = 1.5 }, "query.similarity_threshold"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -5 }, "watch.debounce_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var errs ValidateErrors
			if !errors.As(err, &errs) {
				t.Fatalf("error type = %T", err)
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an error on %s, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Query.Mode = "cloud"
	cfg.UI.Theme = "neon"

	err := cfg.Validate()
	var errs ValidateErrors
	if !errors.As(err, &errs) || len(errs) != 2 {
		t.Errorf("expected 2 collected errors, got %v", err)
	}
	if !strings.Contains(errs.Error(), ";") {
		t.Errorf("joined message should separate errors: %q", errs.Error())
	}
}

// =============================================================================
// DEFAULT FILLING
// =============================================================================

func TestSetDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.Backend.PrimaryURL == "" || cfg.Backend.TimeoutSecs == 0 {
		t.Errorf("backend defaults not filled: %+v", cfg.Backend)
	}
	if cfg.Query.Mode != "primary" || cfg.Query.TopK != 5 {
		t.Errorf("query defaults not filled: %+v", cfg.Query)
	}
	if cfg.Server.Addr == "" {
		t.Error("server addr default not filled")
	}
}

func TestSetDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Backend.PrimaryURL = "http://example.com:9000"
	cfg.Query.TopK = 12
	cfg.SetDefaults()

	if cfg.Backend.PrimaryURL != "http://example.com:9000" {
		t.Error("explicit URL was overwritten")
	}
	if cfg.Query.TopK != 12 {
		t.Error("explicit top_k was overwritten")
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CODECHAT_PRIMARY_URL", "http://10.0.0.5:8000")
	t.Setenv("CODECHAT_MODE", "local")
	t.Setenv("CODECHAT_TIMEOUT_SECS", "30")
	t.Setenv("CODECHAT_SERVER_ADDR", "127.0.0.1:9999")
	t.Setenv("CODECHAT_NO_HISTORY", "1")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.PrimaryURL != "http://10.0.0.5:8000" {
		t.Errorf("PrimaryURL = %q", cfg.Backend.PrimaryURL)
	}
	if cfg.Query.Mode != "local" {
		t.Errorf("Mode = %q", cfg.Query.Mode)
	}
	if cfg.Backend.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d", cfg.Backend.TimeoutSecs)
	}
	// A server address implies the server should run.
	if cfg.Server.Addr != "127.0.0.1:9999" || !cfg.Server.Enabled {
		t.Errorf("server override = %+v", cfg.Server)
	}
	if cfg.History.Enabled {
		t.Error("CODECHAT_NO_HISTORY=1 should disable history")
	}
}

func TestApplyEnvOverrides_MalformedTimeoutIgnored(t *testing.T) {
	t.Setenv("CODECHAT_TIMEOUT_SECS", "soon")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.Backend.TimeoutSecs != 120 {
		t.Errorf("malformed timeout should be ignored, got %d", cfg.Backend.TimeoutSecs)
	}
}

// =============================================================================
// TOML ROUND TRIP
// =============================================================================

func TestSaveLoadTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Backend.PrimaryURL = "http://192.168.1.10:8000"
	cfg.Query.Temperature = 0.8
	cfg.UI.Theme = "light"
	cfg.Watch.Path = "/repo"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded := Default()
	if err := LoadTOML(loaded, path); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}

	if loaded.Backend.PrimaryURL != "http://192.168.1.10:8000" {
		t.Errorf("PrimaryURL = %q", loaded.Backend.PrimaryURL)
	}
	if loaded.Query.Temperature != 0.8 {
		t.Errorf("Temperature = %g", loaded.Query.Temperature)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("Theme = %q", loaded.UI.Theme)
	}
	if loaded.Watch.Path != "/repo" {
		t.Errorf("Watch.Path = %q", loaded.Watch.Path)
	}
}

func TestLoadFromPath_InvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Query.Mode = "cloud"
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("invalid persisted config should fail to load")
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := Default()
	cfg.History.Path = "/tmp/custom.db"
	path, err := cfg.HistoryPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/tmp/custom.db" {
		t.Errorf("explicit history path should win, got %q", path)
	}

	cfg.History.Path = ""
	path, err = cfg.HistoryPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "history.db" {
		t.Errorf("default history path = %q", path)
	}
}
