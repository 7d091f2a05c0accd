// Package config loads CLI and service settings from the environment.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds process-wide settings.
type Config struct {
	Addr      string `env:"SKEMA_ADDR"       envDefault:":8080"`
	LogLevel  string `env:"SKEMA_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"SKEMA_LOG_FORMAT" envDefault:"json"`
	Lang      string `env:"SKEMA_LANG"       envDefault:"en"`
	FailFast  bool   `env:"SKEMA_FAIL_FAST"  envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration read from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Logger builds a logger writing to w. An unknown level falls back to info;
// LogFormat "console" selects the human-readable writer.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
