package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Play.Seed != nil || cfg.Auth.Required != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigDecodesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `[play]
seed = 42
history-limit = 50

[auth]
required = false
provider-url = "https://auth.example.com"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Play.Seed == nil || *cfg.Play.Seed != 42 {
		t.Fatalf("unexpected seed: %v", cfg.Play.Seed)
	}
	if cfg.Play.HistoryLimit == nil || *cfg.Play.HistoryLimit != 50 {
		t.Fatalf("unexpected history limit: %v", cfg.Play.HistoryLimit)
	}
	if cfg.Auth.Required == nil || *cfg.Auth.Required {
		t.Fatalf("expected auth.required=false")
	}
	if cfg.Auth.ProviderURL == nil || *cfg.Auth.ProviderURL != "https://auth.example.com" {
		t.Fatalf("unexpected provider url: %v", cfg.Auth.ProviderURL)
	}
}

func TestLoadConfigRejectsEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("FOCUSPLAY_DB_PATH", "/tmp/fp.db")
	t.Setenv("FOCUSPLAY_SEED", "7")
	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.ResolveDBPath() != "/tmp/fp.db" {
		t.Fatalf("unexpected db path: %s", cfg.ResolveDBPath())
	}
	if cfg.Seed == nil || *cfg.Seed != 7 {
		t.Fatalf("unexpected seed: %v", cfg.Seed)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "focusplay", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "focusplay", "focusplay.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
}
