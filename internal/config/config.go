// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for parley.
//
// TOML configuration with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file location:
//   - ~/.parley/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete parley configuration.
type Config struct {
	// General settings
	Version string `toml:"version"`

	// APIURL is the backend origin. The "/api" prefix is appended per
	// request.
	APIURL string `toml:"api_url"`

	// DefaultModel is the model transmitted when none is selected.
	DefaultModel string `toml:"default_model"`

	// Streaming enables the event-stream send path. When false every
	// send uses the buffered endpoint.
	Streaming bool `toml:"streaming"`

	// RequestTimeoutSecs bounds non-streaming requests. 0 disables the
	// timeout entirely.
	RequestTimeoutSecs int `toml:"request_timeout_secs"`

	// Auth configuration
	Auth AuthConfig `toml:"auth"`

	// Cache configuration
	Cache CacheConfig `toml:"cache"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// AuthConfig contains session management configuration.
type AuthConfig struct {
	// ProbeIntervalSecs is how often the session is re-probed.
	ProbeIntervalSecs int `toml:"probe_interval_secs"`

	// RefreshIntervalMins is how often an authenticated session's token
	// is refreshed. Must undercut the server's token lifetime.
	RefreshIntervalMins int `toml:"refresh_interval_mins"`

	// PersistCookies keeps the session across runs by sealing the
	// cookie jar to disk.
	PersistCookies bool `toml:"persist_cookies"`
}

// CacheConfig contains sidebar cache configuration.
type CacheConfig struct {
	// Enabled controls whether the metadata cache is active.
	Enabled bool `toml:"enabled"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode"`
	// ShowModelInStatus displays the active model in the status bar
	ShowModelInStatus bool `toml:"show_model_in_status"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version:            "1.0.0",
		APIURL:             "http://127.0.0.1:8000",
		DefaultModel:       "gpt-3.5-turbo",
		Streaming:          true,
		RequestTimeoutSecs: 30,

		Auth: AuthConfig{
			ProbeIntervalSecs:   60,
			RefreshIntervalMins: 45,
			PersistCookies:      true,
		},

		Cache: CacheConfig{
			Enabled: true,
		},

		UI: UIConfig{
			Theme:             "dark",
			CompactMode:       false,
			ShowModelInStatus: true,
		},
	}
}

// RequestTimeout returns the non-streaming request timeout as a
// duration, 0 when disabled.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// ProbeInterval returns the session probe interval.
func (c *Config) ProbeInterval() time.Duration {
	return time.Duration(c.Auth.ProbeIntervalSecs) * time.Second
}

// RefreshInterval returns the token refresh interval.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Auth.RefreshIntervalMins) * time.Minute
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the parley configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".parley"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// FilePath returns the path of a named file inside the config
// directory (cache database, cookie jar, shared auth state).
func FilePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// The session jar path means the directory can hold credentials; files
// should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load loads configuration from the config file, falling back to
// defaults when none exists. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := loadTOML(cfg, path); err != nil {
				loadErr = fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, loadErr
}

// loadTOML loads configuration from a TOML file.
func loadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// Save saves the configuration to the default TOML file with 0600
// permissions.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# parley configuration file")
	fmt.Fprintln(file, "# Generated by parley - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
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

	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "api_url",
				Message: fmt.Sprintf("invalid URL '%s'", c.APIURL),
			})
		}
	}

	if c.RequestTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "request_timeout_secs",
			Message: "must be non-negative (0 disables the timeout)",
		})
	}

	if c.Auth.ProbeIntervalSecs < 5 {
		errs = append(errs, ValidationError{
			Field:   "auth.probe_interval_secs",
			Message: fmt.Sprintf("must be at least 5 seconds, got %d", c.Auth.ProbeIntervalSecs),
		})
	}

	// The refresh must undercut the server's 60-minute token lifetime.
	if c.Auth.RefreshIntervalMins < 1 || c.Auth.RefreshIntervalMins > 59 {
		errs = append(errs, ValidationError{
			Field:   "auth.refresh_interval_mins",
			Message: fmt.Sprintf("must be 1-59 minutes, got %d", c.Auth.RefreshIntervalMins),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value
// configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.APIURL == "" {
		c.APIURL = defaults.APIURL
	}
	if c.DefaultModel == "" {
		c.DefaultModel = defaults.DefaultModel
	}
	if c.Auth.ProbeIntervalSecs == 0 {
		c.Auth.ProbeIntervalSecs = defaults.Auth.ProbeIntervalSecs
	}
	if c.Auth.RefreshIntervalMins == 0 {
		c.Auth.RefreshIntervalMins = defaults.Auth.RefreshIntervalMins
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PARLEY_API_URL: overrides api_url
//   - PARLEY_MODEL: overrides default_model
//   - PARLEY_NO_STREAM: set to "1" or "true" to disable streaming
//   - PARLEY_TIMEOUT_SECS: overrides request_timeout_secs
//   - PARLEY_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if apiURL := os.Getenv("PARLEY_API_URL"); apiURL != "" {
		c.APIURL = apiURL
	}

	if model := os.Getenv("PARLEY_MODEL"); model != "" {
		c.DefaultModel = model
	}

	if noStream := os.Getenv("PARLEY_NO_STREAM"); noStream != "" {
		if noStream == "1" || strings.ToLower(noStream) == "true" {
			c.Streaming = false
		}
	}

	if timeout := os.Getenv("PARLEY_TIMEOUT_SECS"); timeout != "" {
		var secs int
		if _, err := fmt.Sscanf(timeout, "%d", &secs); err == nil && secs >= 0 {
			c.RequestTimeoutSecs = secs
		}
	}

	if theme := os.Getenv("PARLEY_THEME"); theme != "" {
		c.UI.Theme = theme
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
			// Log but don't fail - use defaults
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
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
