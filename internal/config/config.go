// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for strand.
//
// Configuration lives in TOML at ~/.strand/config.toml with sensible
// defaults, environment variable overrides, and validation.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/strand-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete strand configuration.
type Config struct {
	// API connection
	API APIConfig `toml:"api"`

	// UI behavior
	UI UIConfig `toml:"ui"`

	// Local storage
	Storage StorageConfig `toml:"storage"`

	// Synced artifacts directory (canvas refresh watching)
	Artifacts ArtifactsConfig `toml:"artifacts"`

	// Live call monitoring
	Call CallConfig `toml:"call"`
}

// APIConfig configures the platform connection.
type APIConfig struct {
	// BaseURL is the platform API root, e.g. "https://api.example.com".
	BaseURL string `toml:"base_url"`

	// Token is the bearer token. Prefer STRAND_API_TOKEN over storing it
	// in the file.
	Token string `toml:"token"`
}

// UIConfig configures rendering behavior.
type UIConfig struct {
	// ThrottleIntervalMs caps streaming preview redraws to one per interval.
	ThrottleIntervalMs int `toml:"throttle_interval_ms"`

	// Theme selects "dark", "light", or "auto".
	Theme string `toml:"theme"`

	// MaxWidth caps rendered content width; 0 means full terminal width.
	MaxWidth int `toml:"max_width"`
}

// StorageConfig configures local thread persistence.
type StorageConfig struct {
	// Dir holds the playback database. Empty uses ~/.strand.
	Dir string `toml:"dir"`
}

// ArtifactsConfig configures the synced artifacts watcher.
type ArtifactsConfig struct {
	// WatchDir is the locally synced artifacts root. Empty disables the
	// watcher.
	WatchDir string `toml:"watch_dir"`

	// DebounceMs is the quiet period before a change event publishes.
	DebounceMs int `toml:"debounce_ms"`
}

// CallConfig configures the live call monitor.
type CallConfig struct {
	// PollIntervalMs is the polling backup cadence behind the websocket.
	PollIntervalMs int `toml:"poll_interval_ms"`
}

// ThrottleInterval returns the UI throttle interval as a duration.
func (c *Config) ThrottleInterval() time.Duration {
	return time.Duration(c.UI.ThrottleIntervalMs) * time.Millisecond
}

// ArtifactsDebounce returns the watcher debounce as a duration.
func (c *Config) ArtifactsDebounce() time.Duration {
	return time.Duration(c.Artifacts.DebounceMs) * time.Millisecond
}

// CallPollInterval returns the call poll cadence as a duration.
func (c *Config) CallPollInterval() time.Duration {
	return time.Duration(c.Call.PollIntervalMs) * time.Millisecond
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://api.strand.dev",
		},
		UI: UIConfig{
			ThrottleIntervalMs: 100,
			Theme:              "auto",
			MaxWidth:           0,
		},
		Storage: StorageConfig{
			Dir: "", // resolved to ~/.strand at load
		},
		Artifacts: ArtifactsConfig{
			DebounceMs: 250,
		},
		Call: CallConfig{
			PollIntervalMs: 5000,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the strand configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".strand"), nil
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
	return os.MkdirAll(dir, 0o755)
}

// ensureSecurePermissions checks and fixes permissions on the config file.
// SECURITY: Config files should be 0600 (owner read/write only) to protect the API token.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm() != 0o600 {
		if err := os.Chmod(path, 0o600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions: %w", err)
		}
	}
	return nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load loads configuration from ~/.strand/config.toml, falling back to
// defaults when no file exists. Environment overrides apply last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadFile(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile decodes the TOML file at path into cfg.
// SECURITY: Checks and fixes file permissions on load.
func LoadFile(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems; warn and carry on.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// fillDefaults resolves zero values that need runtime information.
func (c *Config) fillDefaults() {
	if c.Storage.Dir == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Storage.Dir = dir
		}
	}
	if c.UI.ThrottleIntervalMs <= 0 {
		c.UI.ThrottleIntervalMs = 100
	}
	if c.Artifacts.DebounceMs <= 0 {
		c.Artifacts.DebounceMs = 250
	}
	if c.Call.PollIntervalMs <= 0 {
		c.Call.PollIntervalMs = 5000
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "auto"
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies STRAND_* environment variables over the loaded
// values.
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("STRAND_API_URL"); u != "" {
		c.API.BaseURL = u
	}
	if token := os.Getenv("STRAND_API_TOKEN"); token != "" {
		c.API.Token = token
	}
	if dir := os.Getenv("STRAND_STORAGE_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if dir := os.Getenv("STRAND_ARTIFACTS_DIR"); dir != "" {
		c.Artifacts.WatchDir = dir
	}
	if theme := os.Getenv("STRAND_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if ms := os.Getenv("STRAND_THROTTLE_MS"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil && n > 0 {
			c.UI.ThrottleIntervalMs = n
		}
	}
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to ~/.strand/config.toml.
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
// SECURITY: Config files carry 0600 permissions (owner read/write only).
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(cfg, path)
}

// SaveFile writes the configuration to an explicit path.
func SaveFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# strand configuration file")
	fmt.Fprintln(&buf, "# Generated by strand - edit with care")
	fmt.Fprintln(&buf, "")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
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

// Validate checks the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.API.BaseURL == "" {
		errs = append(errs, ValidationError{"api.base_url", "must not be empty"})
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{"api.base_url", "must be an http(s) URL"})
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{"ui.theme", "must be auto, dark, or light"})
	}

	if c.UI.ThrottleIntervalMs < 0 {
		errs = append(errs, ValidationError{"ui.throttle_interval_ms", "must not be negative"})
	}
	if c.UI.MaxWidth < 0 {
		errs = append(errs, ValidationError{"ui.max_width", "must not be negative"})
	}
	if c.Call.PollIntervalMs < 0 {
		errs = append(errs, ValidationError{"call.poll_interval_ms", "must not be negative"})
	}

	if c.Artifacts.WatchDir != "" {
		if info, err := os.Stat(c.Artifacts.WatchDir); err != nil || !info.IsDir() {
			errs = append(errs, ValidationError{"artifacts.watch_dir", "directory does not exist"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
