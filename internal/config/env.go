package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds overrides read from the environment.
// Unset variables leave the pointer fields nil.
type EnvConfig struct {
	DBPath      string `env:"FOCUSPLAY_DB_PATH"`
	AuthToken   string `env:"FOCUSPLAY_AUTH_TOKEN"`
	ProviderURL string `env:"FOCUSPLAY_AUTH_URL"`
	Seed        *int64 `env:"FOCUSPLAY_SEED"`
}

// LoadEnv parses FOCUSPLAY_* variables.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse env: %w", err)
	}
	return cfg, nil
}

// ResolveDBPath prefers the environment override over the XDG default.
func (e EnvConfig) ResolveDBPath() string {
	if e.DBPath != "" {
		return e.DBPath
	}
	return DefaultDBPath()
}
