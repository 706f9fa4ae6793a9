// Package config loads lifeforge settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	DBPath       string             `toml:"db_path" env:"LIFEFORGE_DB"`
	CharacterID  string             `toml:"character_id" env:"LIFEFORGE_CHARACTER"`
	CatalogPath  string             `toml:"catalog_path" env:"LIFEFORGE_CATALOG"`
	LogLevel     string             `toml:"log_level" env:"LIFEFORGE_LOG_LEVEL"`
	HTTP         HTTPConfig         `toml:"http" envPrefix:"LIFEFORGE_HTTP_"`
	Metrics      MetricsConfig      `toml:"metrics" envPrefix:"LIFEFORGE_METRICS_"`
	Housekeeping HousekeepingConfig `toml:"housekeeping" envPrefix:"LIFEFORGE_HOUSEKEEPING_"`
	Streaks      StreaksConfig      `toml:"streaks" envPrefix:"LIFEFORGE_STREAKS_"`
}

type HTTPConfig struct {
	Addr string `toml:"addr" env:"ADDR"`
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled" env:"ENABLED"`
}

type HousekeepingConfig struct {
	// Schedule is a five-field cron expression; empty disables the sweep.
	Schedule string `toml:"schedule" env:"SCHEDULE"`
}

type StreaksConfig struct {
	EarlyTolerancePct int `toml:"early_tolerance_pct" env:"EARLY_TOLERANCE_PCT"`
}

func DefaultConfig() Config {
	return Config{
		CharacterID: "main",
		LogLevel:    "info",
		HTTP:        HTTPConfig{Addr: "127.0.0.1:8484"},
		Metrics:     MetricsConfig{Enabled: true},
		Housekeeping: HousekeepingConfig{
			Schedule: "*/15 * * * *",
		},
		Streaks: StreaksConfig{EarlyTolerancePct: 25},
	}
}

// DefaultConfigPath returns ~/.lifeforge/config.toml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".lifeforge", "config.toml"), nil
}

// Load starts from DefaultConfig, applies the TOML file at path when it
// exists and then environment overrides. An empty path uses DefaultConfigPath.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.CharacterID) == "" {
		return errors.New("config: character_id is required")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if p := c.Streaks.EarlyTolerancePct; p < 0 || p > 100 {
		return fmt.Errorf("config: streaks.early_tolerance_pct must be 0..100, got %d", p)
	}
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", s)
	}
}

// Logger builds a text logger on stderr at the configured level.
func (c Config) Logger() *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
