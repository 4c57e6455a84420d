// Package config loads wosync settings from an optional TOML file with
// environment-variable overrides for the paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DBPath    string `toml:"db_path"`
	StackPath string `toml:"stack_path"`

	// JournalPath backs the default journal channel: pushed services land
	// in this append-only file instead of a live remote session.
	JournalPath string `toml:"journal_path"`

	// Duplicate-date tolerance for the push engine, in calendar days.
	// The ±1 day default is heuristic; widen or narrow it here.
	DuplicateToleranceDays int `toml:"duplicate_tolerance_days"`

	// Staging-time floor for computed durations. 0 keeps the zero-minute
	// clamp; some remote setups want a 5-minute minimum per service.
	MinimumDurationMin int `toml:"minimum_duration_min"`

	RetryAttempts int `toml:"retry_attempts"`
	RetryDelayMS  int `toml:"retry_delay_ms"`
}

// RetryDelay returns the configured delay between channel retries.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// Load reads ~/.wosync/config.toml when present, applies defaults for
// anything unset, then lets WOSYNC_DB / WOSYNC_STACK / WOSYNC_CONFIG
// environment variables override.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("finding home directory: %w", err)
	}

	cfg := &Config{
		DBPath:                 filepath.Join(home, ".wosync", "wosync.db"),
		StackPath:              filepath.Join(home, ".wosync", "stack.json"),
		JournalPath:            filepath.Join(home, ".wosync", "remote.jsonl"),
		DuplicateToleranceDays: 1,
		MinimumDurationMin:     0,
		RetryAttempts:          3,
		RetryDelayMS:           500,
	}

	cfgPath := filepath.Join(home, ".wosync", "config.toml")
	if env := os.Getenv("WOSYNC_CONFIG"); env != "" {
		cfgPath = env
	}
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	if env := os.Getenv("WOSYNC_DB"); env != "" {
		cfg.DBPath = env
	}
	if env := os.Getenv("WOSYNC_STACK"); env != "" {
		cfg.StackPath = env
	}

	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.StackPath = expandHome(cfg.StackPath, home)
	cfg.JournalPath = expandHome(cfg.JournalPath, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
