package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/bsseqgrid/internal/target"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // .hcl or .yaml files and directories
	// Targets override execution targets from the configuration files.
	Targets []string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	// Workers overrides execution.jobs when positive.
	Workers   int
	DryRun    bool
	List      bool
	EventsURL string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 && !target.IsHelpOnly(cfg.Targets) {
		return nil, errors.New("at least one configuration path is required")
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.DryRun && cfg.List {
		return nil, errors.New("dry-run and list are mutually exclusive")
	}
	return &cfg, nil
}
