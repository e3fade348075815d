package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != DefaultHTTPAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultHTTPAddr)
	}
	if cfg.Postgres.Database != DefaultPGDatabase {
		t.Errorf("Postgres.Database = %q, want %q", cfg.Postgres.Database, DefaultPGDatabase)
	}
	if cfg.Telegram.Enabled {
		t.Error("Telegram.Enabled should default to false")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[log]
level = "debug"
format = "json"

[server]
addr = ":9090"

[link]
secret = "s3cret"
token_window = "5m"

[telegram]
enabled = true
bot_token = "123:abc"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Link.Secret != "s3cret" {
		t.Errorf("Link.Secret = %q", cfg.Link.Secret)
	}
	if cfg.Link.Window() != 5*time.Minute {
		t.Errorf("Link.Window() = %v", cfg.Link.Window())
	}
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken != "123:abc" {
		t.Errorf("Telegram = %+v", cfg.Telegram)
	}
	// Untouched sections keep their defaults.
	if cfg.Postgres.Host != DefaultPGHost {
		t.Errorf("Postgres.Host = %q", cfg.Postgres.Host)
	}
}

func TestDurationFallbacks(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{"empty", "", 10 * time.Minute},
		{"invalid", "soon", 10 * time.Minute},
		{"negative", "-1m", 10 * time.Minute},
		{"valid", "30s", 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := LinkConfig{TokenWindow: tt.raw}
			if got := c.Window(); got != tt.want {
				t.Errorf("Window() = %v, want %v", got, tt.want)
			}
		})
	}
	if got := (AuthConfig{JWTExpiresIn: "bad"}).JWTExpiry(); got != 24*time.Hour {
		t.Errorf("JWTExpiry() = %v, want 24h", got)
	}
}
