package config

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.LogLevel != "info" || cfg.Lang != "en" || cfg.FailFast {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SKEMA_ADDR", "127.0.0.1:9000")
	t.Setenv("SKEMA_LANG", "ja")
	t.Setenv("SKEMA_FAIL_FAST", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.Lang != "ja" || !cfg.FailFast {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadError(t *testing.T) {
	t.Setenv("SKEMA_FAIL_FAST", "not-a-bool")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Config{LogLevel: "warn"}.Logger(&buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestLoggerBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := Config{LogLevel: "loud"}.Logger(&buf)
	log.Debug().Msg("debug")
	log.Info().Msg("info")
	if strings.Contains(buf.String(), "debug") || !strings.Contains(buf.String(), "info") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
}
