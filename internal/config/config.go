// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/codechat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete codechat configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend endpoint configuration
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Query defaults applied to a fresh session
	Query QueryConfig `toml:"query" json:"query"`

	// Local read-only HTTP server configuration
	Server ServerConfig `toml:"server" json:"server"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Watch configuration for the local checkout staleness watcher
	Watch WatchConfig `toml:"watch" json:"watch"`

	// History (exchange recording) configuration
	History HistoryConfig `toml:"history" json:"history"`
}

// BackendConfig contains the two RAG backend endpoints.
type BackendConfig struct {
	// PrimaryURL is the base URL of the primary (cloud-embedding) backend
	PrimaryURL string `toml:"primary_url" json:"primary_url"`
	// LocalURL is the base URL of the fully local backend
	LocalURL string `toml:"local_url" json:"local_url"`
	// TimeoutSecs is the per-request timeout in seconds (0 = no timeout)
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// QueryConfig contains the retrieval parameter defaults.
type QueryConfig struct {
	// Mode is the startup backend mode: "primary" or "local"
	Mode string `toml:"mode" json:"mode"`
	// Temperature is the default sampling temperature (0.0-2.0)
	Temperature float64 `toml:"temperature" json:"temperature"`
	// TopK is the default number of chunks to retrieve
	TopK int `toml:"top_k" json:"top_k"`
	// SimilarityThreshold is the default minimum similarity (0.0-1.0)
	SimilarityThreshold float64 `toml:"similarity_threshold" json:"similarity_threshold"`
}

// ServerConfig contains the local inspection server configuration.
type ServerConfig struct {
	// Enabled controls whether the read-only HTTP server starts
	Enabled bool `toml:"enabled" json:"enabled"`
	// Addr is the listen address (host:port)
	Addr string `toml:"addr" json:"addr"`
	// RateLimitRPS is the per-server request rate limit (0 = unlimited)
	RateLimitRPS float64 `toml:"rate_limit_rps" json:"rate_limit_rps"`
	// RateLimitBurst is the rate limiter burst size
	RateLimitBurst int `toml:"rate_limit_burst" json:"rate_limit_burst"`
}

// UIConfig contains dashboard configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowDebug displays retrieval debug info alongside answers
	ShowDebug bool `toml:"show_debug" json:"show_debug"`
	// CompactMode uses a more compact layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// WatchConfig contains the local checkout watcher configuration.
type WatchConfig struct {
	// Enabled controls whether the staleness watcher starts
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the local checkout root to watch (empty = disabled)
	Path string `toml:"path" json:"path"`
	// DebounceMs collapses event bursts into one staleness transition
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms"`
}

// HistoryConfig contains exchange history recording configuration.
type HistoryConfig struct {
	// Enabled controls whether resolved exchanges are recorded
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the SQLite database path (empty = ~/.codechat/history.db)
	Path string `toml:"path" json:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Backend: BackendConfig{
			PrimaryURL:  "http://127.0.0.1:8000",
			LocalURL:    "http://127.0.0.1:8001",
			TimeoutSecs: 120,
		},

		Query: QueryConfig{
			Mode:                "primary",
			Temperature:         0.2,
			TopK:                5,
			SimilarityThreshold: 0.7,
		},

		Server: ServerConfig{
			Enabled:        false,
			Addr:           "127.0.0.1:8090",
			RateLimitRPS:   10,
			RateLimitBurst: 20,
		},

		UI: UIConfig{
			Theme:       "dark",
			ShowDebug:   false,
			CompactMode: false,
		},

		Watch: WatchConfig{
			Enabled:    false,
			Path:       "",
			DebounceMs: 500,
		},

		History: HistoryConfig{
			Enabled: true,
			Path:    "",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the codechat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".codechat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// HistoryPath returns the effective history database path.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.codechat/config.toml, falling back to
// defaults when the file is absent. A .env file in the working directory is
// read first so CODECHAT_* variables set there behave like real environment.
// Environment overrides are applied last.
func Load() (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation, bypassing the default search locations.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# codechat configuration file\n")
	buf.WriteString("# Generated by codechat - edit with care\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	for _, ep := range []struct {
		field string
		value string
	}{
		{"backend.primary_url", c.Backend.PrimaryURL},
		{"backend.local_url", c.Backend.LocalURL},
	} {
		u, err := url.Parse(ep.value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   ep.field,
				Message: fmt.Sprintf("invalid URL '%s'", ep.value),
			})
		}
	}

	if c.Backend.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_secs",
			Message: "must be non-negative",
		})
	}

	validModes := map[string]bool{"primary": true, "local": true}
	if !validModes[strings.ToLower(c.Query.Mode)] {
		errs = append(errs, ValidationError{
			Field:   "query.mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: primary, local", c.Query.Mode),
		})
	}

	if c.Query.Temperature < 0 || c.Query.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "query.temperature",
			Message: fmt.Sprintf("must be between 0.0 and 2.0, got %g", c.Query.Temperature),
		})
	}
	if c.Query.TopK < 1 {
		errs = append(errs, ValidationError{
			Field:   "query.top_k",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Query.TopK),
		})
	}
	if c.Query.SimilarityThreshold < 0 || c.Query.SimilarityThreshold > 1 {
		errs = append(errs, ValidationError{
			Field:   "query.similarity_threshold",
			Message: "must be between 0.0 and 1.0",
		})
	}

	if c.Server.RateLimitRPS < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.rate_limit_rps",
			Message: "must be non-negative",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if c.Watch.DebounceMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce_ms",
			Message: "must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Backend.PrimaryURL == "" {
		c.Backend.PrimaryURL = defaults.Backend.PrimaryURL
	}
	if c.Backend.LocalURL == "" {
		c.Backend.LocalURL = defaults.Backend.LocalURL
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}

	if c.Query.Mode == "" {
		c.Query.Mode = defaults.Query.Mode
	}
	if c.Query.Temperature == 0 {
		c.Query.Temperature = defaults.Query.Temperature
	}
	if c.Query.TopK == 0 {
		c.Query.TopK = defaults.Query.TopK
	}
	if c.Query.SimilarityThreshold == 0 {
		c.Query.SimilarityThreshold = defaults.Query.SimilarityThreshold
	}

	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.RateLimitRPS == 0 {
		c.Server.RateLimitRPS = defaults.Server.RateLimitRPS
	}
	if c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = defaults.Server.RateLimitBurst
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}

	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = defaults.Watch.DebounceMs
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CODECHAT_PRIMARY_URL: overrides backend.primary_url
//   - CODECHAT_LOCAL_URL: overrides backend.local_url
//   - CODECHAT_TIMEOUT_SECS: overrides backend.timeout_secs
//   - CODECHAT_MODE: overrides query.mode
//   - CODECHAT_THEME: overrides ui.theme
//   - CODECHAT_SERVER_ADDR: overrides server.addr
//   - CODECHAT_WATCH_PATH: overrides watch.path (and enables the watcher)
//   - CODECHAT_NO_HISTORY: set to "1" or "true" to disable history recording
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CODECHAT_PRIMARY_URL"); v != "" {
		c.Backend.PrimaryURL = v
	}
	if v := os.Getenv("CODECHAT_LOCAL_URL"); v != "" {
		c.Backend.LocalURL = v
	}
	if v := os.Getenv("CODECHAT_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			c.Backend.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("CODECHAT_MODE"); v != "" {
		c.Query.Mode = v
	}
	if v := os.Getenv("CODECHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("CODECHAT_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
		c.Server.Enabled = true
	}
	if v := os.Getenv("CODECHAT_WATCH_PATH"); v != "" {
		c.Watch.Path = v
		c.Watch.Enabled = true
	}
	if v := os.Getenv("CODECHAT_NO_HISTORY"); v != "" {
		if v == "1" || strings.EqualFold(v, "true") {
			c.History.Enabled = false
		}
	}
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
