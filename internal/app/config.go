package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for one run.
type Config struct {
	// MakefilePath is the definition file. When empty, the default file
	// names are probed in WorkDir.
	MakefilePath string
	WorkDir      string

	// Target is the task to run; empty selects the configured default task.
	Target string
	// Args are the trailing arguments, forwarded verbatim to placeholders.
	Args []string

	Workers  int
	FailFast bool
	List     bool
	NoColor  bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	return &cfg, nil
}
