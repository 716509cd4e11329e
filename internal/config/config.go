// Package config handles process configuration from environment variables
// and the search configuration file describing marketplaces and items.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the process-level configuration.
type Config struct {
	DatabasePath string
	ConfigPath   string
	LogLevel     string
	FetchDelay   time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/monitor.db"
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "./config.json5"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	delay := 1 * time.Second
	if raw := os.Getenv("FETCH_DELAY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_DELAY %q: %w", raw, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("FETCH_DELAY must not be negative, got %s", d)
		}
		delay = d
	}

	return &Config{
		DatabasePath: dbPath,
		ConfigPath:   cfgPath,
		LogLevel:     logLevel,
		FetchDelay:   delay,
	}, nil
}
