// Package config loads server configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the full server configuration surface.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"SCRIBBLEBOARD_ADDR" envDefault:":3002"`
	// StaticDir is the root of the rendering-client bundle.
	StaticDir string `env:"SCRIBBLEBOARD_STATIC_DIR" envDefault:"./client/dist"`
	// HistoryCap bounds the committed stroke history.
	HistoryCap int `env:"SCRIBBLEBOARD_HISTORY_CAP" envDefault:"1000"`
	// Space is the id of the shared space this deployment serves.
	Space string `env:"SCRIBBLEBOARD_SPACE" envDefault:"default"`
	// MDNS enables LAN advertisement of the board.
	MDNS bool `env:"SCRIBBLEBOARD_MDNS" envDefault:"false"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"SCRIBBLEBOARD_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.HistoryCap <= 0 {
		return Config{}, fmt.Errorf("history cap must be positive, got %d", cfg.HistoryCap)
	}
	if cfg.Space == "" {
		return Config{}, fmt.Errorf("space id must not be empty")
	}
	return cfg, nil
}
