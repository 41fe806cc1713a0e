// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every variable the daemon reads.
const EnvPrefix = "SHELFSIM_"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvPrefixed loads configuration whose struct tags omit the shared
// prefix, so `env:"HTTP_ADDR"` reads SHELFSIM_HTTP_ADDR.
func ParseEnvPrefixed(target any, prefix string) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
