// Package config provides environment-driven configuration for degrees-go.
//
// Values are read from DEGREES_* environment variables, optionally seeded
// from a .env file in the working directory. Command-line flags override
// whatever is loaded here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix.
const Prefix = "DEGREES"

// Config holds all application configuration values.
type Config struct {
	// Workers is the number of goroutines used per all-sources sweep.
	// Zero or negative means GOMAXPROCS.
	Workers int `envconfig:"WORKERS" default:"0"`

	// LogLevel is the minimum log level.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFormat is "json" or "text".
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// DataDir holds the indexed graph snapshot, relative to the working directory.
	DataDir string `envconfig:"DATA_DIR" default:".degrees"`

	// WatchDebounce is how long watch mode waits for writes to settle.
	WatchDebounce time.Duration `envconfig:"WATCH_DEBOUNCE" default:"500ms"`

	// MetricsAddr, when set, exposes Prometheus metrics from serve mode.
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`
}

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("DEGREES_LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.DataDir == "" {
		return errors.New("DEGREES_DATA_DIR must not be empty")
	}
	if c.WatchDebounce < 0 {
		return errors.New("DEGREES_WATCH_DEBOUNCE must not be negative")
	}
	return nil
}
