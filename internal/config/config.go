// Package config loads the ranker settings from <data_dir>/config.yaml, an
// optional <data_dir>/.env and RANKER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/infblueocean/ranker/internal/share"
)

// Config is the persistent application configuration
type Config struct {
	// DataDir holds the database, logs and event journal. Not persisted.
	DataDir string `yaml:"-"`

	// Database is the sqlite file, relative to DataDir unless absolute.
	Database string `yaml:"database"`

	LogLevel string `yaml:"log_level"`

	// TierMode makes new sessions parse "1. item" style tier prefixes.
	TierMode bool `yaml:"tier_mode"`

	Share ShareConfig `yaml:"share"`
	UI    UIConfig    `yaml:"ui"`
}

// ShareConfig controls share tokens
type ShareConfig struct {
	Compress share.CompressMode `yaml:"compress"`
	BaseURL  string             `yaml:"base_url"` // links are BaseURL#token; empty means bare tokens
}

// UIConfig holds UI preferences
type UIConfig struct {
	HistoryLimit int  `yaml:"history_limit"`
	ShowProgress bool `yaml:"show_progress"`
}

// Environment overrides, applied after config.yaml and .env.
const (
	EnvHome          = "RANKER_HOME"
	EnvLogLevel      = "RANKER_LOG_LEVEL"
	EnvTierMode      = "RANKER_TIER_MODE"
	EnvShareCompress = "RANKER_SHARE_COMPRESS"
	EnvShareBaseURL  = "RANKER_SHARE_BASE_URL"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// DefaultConfig returns sensible defaults rooted at dataDir.
func DefaultConfig(dataDir string) *Config {
	return &Config{
		DataDir:  dataDir,
		Database: "ranker.db",
		LogLevel: "info",
		Share: ShareConfig{
			Compress: share.CompressAuto,
		},
		UI: UIConfig{
			HistoryLimit: 20,
			ShowProgress: true,
		},
	}
}

// DefaultDataDir returns $RANKER_HOME, or ~/.ranker.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home directory: %w", err)
	}
	return filepath.Join(home, ".ranker"), nil
}

// Load reads the config for dataDir (DefaultDataDir when empty). A missing
// config file yields defaults; a malformed one is an error.
func Load(dataDir string) (*Config, error) {
	if dataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(filepath.Join(dataDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := DefaultConfig(dataDir)
	data, err := os.ReadFile(cfg.Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", cfg.Path(), err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", cfg.Path(), err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvTierMode); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvTierMode, err)
		}
		c.TierMode = on
	}
	if v := os.Getenv(EnvShareCompress); v != "" {
		c.Share.Compress = share.CompressMode(v)
	}
	if v := os.Getenv(EnvShareBaseURL); v != "" {
		c.Share.BaseURL = v
	}
	return nil
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	if !logLevels[c.LogLevel] {
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	if !c.Share.Compress.Valid() {
		return fmt.Errorf("config: unknown share.compress %q", c.Share.Compress)
	}
	if c.Database == "" {
		return errors.New("config: database must not be empty")
	}
	if c.UI.HistoryLimit < 0 {
		return fmt.Errorf("config: ui.history_limit must be >= 0, got %d", c.UI.HistoryLimit)
	}
	return nil
}

// Save writes the config as YAML, creating DataDir if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Path(), data, 0600)
}

// Path returns the config file location.
func (c *Config) Path() string { return filepath.Join(c.DataDir, "config.yaml") }

// DatabasePath resolves Database against DataDir.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Database) || c.Database == ":memory:" {
		return c.Database
	}
	return filepath.Join(c.DataDir, c.Database)
}

// LogDir is where the dated diagnostic logs go.
func (c *Config) LogDir() string { return filepath.Join(c.DataDir, "logs") }

// EventsPath is the JSONL event journal.
func (c *Config) EventsPath() string { return filepath.Join(c.DataDir, "events.jsonl") }

// Codec returns the share codec configured by Share.
func (c *Config) Codec() share.Codec { return share.Codec{Compress: c.Share.Compress} }
