package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Config holds application configuration.
type Config struct {
	// DataDir is the legacy per-app data directory. The store file lived
	// here before the shared-container move.
	DataDir string `json:"dataDir"`
	// SharedDir is the shared-container directory observed by the main
	// process, widgets and extensions alike.
	SharedDir string `json:"sharedDir"`

	LogLevel  string `json:"logLevel"`
	PrettyLog bool   `json:"prettyLog"`

	// FetchTimeoutSec bounds a single link-metadata request.
	FetchTimeoutSec int `json:"fetchTimeoutSec"`
	// FallbackAfterSec bounds how long a preview may stay in the loading
	// state before the first-letter fallback is forced.
	FallbackAfterSec int `json:"fallbackAfterSec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:          filepath.Join(home, ".config", "linkmark"),
		SharedDir:        filepath.Join(home, ".local", "share", "linkmark"),
		LogLevel:         "info",
		PrettyLog:        false,
		FetchTimeoutSec:  15,
		FallbackAfterSec: 30,
	}
}

// FetchTimeout returns the metadata fetch timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// FallbackAfter returns the forced preview fallback window as a duration.
func (c Config) FallbackAfter() time.Duration {
	return time.Duration(c.FallbackAfterSec) * time.Second
}

// StorePath returns the canonical store file location in the shared container.
func (c Config) StorePath() string {
	return filepath.Join(c.SharedDir, "bookmarks.db")
}

// LegacyStorePath returns the pre-migration store file location.
func (c Config) LegacyStorePath() string {
	return filepath.Join(c.DataDir, "bookmarks.db")
}

// PreviewDir returns the shared preview cache directory.
func (c Config) PreviewDir() string {
	return filepath.Join(c.SharedDir, "previews")
}

// LegacyPreviewDir returns the pre-migration, per-app preview directory.
func (c Config) LegacyPreviewDir() string {
	return filepath.Join(c.DataDir, "previews")
}

// ReloadMarkerPath returns the marker file used to signal widget reloads.
func (c Config) ReloadMarkerPath() string {
	return filepath.Join(c.SharedDir, "reload")
}

// Load reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := DefaultConfig()
			// Non-fatal: return defaults even if the save fails
			_ = Save(path, &cfg)
			return &cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if cfg.DataDir == "" {
		cfg.DataDir = defaults.DataDir
	}
	if cfg.SharedDir == "" {
		cfg.SharedDir = defaults.SharedDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.FetchTimeoutSec <= 0 {
		cfg.FetchTimeoutSec = defaults.FetchTimeoutSec
	}
	if cfg.FallbackAfterSec <= 0 {
		cfg.FallbackAfterSec = defaults.FallbackAfterSec
	}

	return &cfg, nil
}

// Save writes config to the JSON file.
// Creates the directory if it doesn't exist.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the default config path: ~/.config/linkmark/config.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "linkmark", "config.json"), nil
}
