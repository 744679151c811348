// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play PlayConfig `toml:"play"`
	Auth AuthConfig `toml:"auth"`
}

// PlayConfig maps play-related settings.
type PlayConfig struct {
	Seed         *int64 `toml:"seed"`
	HistoryLimit *int   `toml:"history-limit"`
	TimeLimit    *bool  `toml:"time-limit"`
}

// AuthConfig maps sign-in gate settings.
type AuthConfig struct {
	Required    *bool   `toml:"required"`
	ProviderURL *string `toml:"provider-url"`
	TokenPath   *string `toml:"token-path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
