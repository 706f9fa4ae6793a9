package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CharacterID != "main" {
		t.Errorf("CharacterID = %q, want %q", cfg.CharacterID, "main")
	}
	if cfg.HTTP.Addr != "127.0.0.1:8484" {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.HTTP.Addr, "127.0.0.1:8484")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be true by default")
	}
	if cfg.Streaks.EarlyTolerancePct != 25 {
		t.Errorf("Streaks.EarlyTolerancePct = %d, want 25", cfg.Streaks.EarlyTolerancePct)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
db_path = "/tmp/lf.db"
character_id = "ada"
log_level = "debug"

[http]
addr = ":9000"

[streaks]
early_tolerance_pct = 10
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LIFEFORGE_HTTP_ADDR", ":9100")
	t.Setenv("LIFEFORGE_METRICS_ENABLED", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/lf.db" || cfg.CharacterID != "ada" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.HTTP.Addr != ":9100" {
		t.Errorf("HTTP.Addr = %q, want env override", cfg.HTTP.Addr)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be overridden by env")
	}
	if cfg.Streaks.EarlyTolerancePct != 10 {
		t.Errorf("EarlyTolerancePct = %d, want 10", cfg.Streaks.EarlyTolerancePct)
	}
	if cfg.Housekeeping.Schedule != "*/15 * * * *" {
		t.Errorf("Schedule = %q, want default kept", cfg.Housekeeping.Schedule)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CharacterID != "main" {
		t.Errorf("CharacterID = %q", cfg.CharacterID)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"empty character", func(c *Config) { c.CharacterID = " " }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"tolerance over 100", func(c *Config) { c.Streaks.EarlyTolerancePct = 101 }},
		{"negative tolerance", func(c *Config) { c.Streaks.EarlyTolerancePct = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if err != nil || got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
			}
		})
	}
}
