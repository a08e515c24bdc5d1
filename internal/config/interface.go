package config

import "context"

// Loader is the interface for a format-specific definition loader.
type Loader interface {
	// Load reads the definition source at path once and translates it into
	// the format-agnostic model.
	Load(ctx context.Context, path string) (*Model, error)
}
