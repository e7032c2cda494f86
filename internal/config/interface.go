package config

import (
	"context"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, merges it on top of
	// Defaults and returns the validated, format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
