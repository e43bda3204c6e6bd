package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.MaxConns != 15 {
		t.Errorf("expected max_conns 15, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Auth.AccessTokenTTL != 30*time.Minute {
		t.Errorf("expected token ttl 30m, got %v", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Agents.MetricCapacity != 1024 {
		t.Errorf("expected metric capacity 1024, got %d", cfg.Agents.MetricCapacity)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
logging:
  level: "debug"
agents:
  metric_capacity: 64
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Agents.MetricCapacity != 64 {
		t.Errorf("expected metric capacity 64, got %d", cfg.Agents.MetricCapacity)
	}
	// Unchanged fields keep defaults
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected default NATS URL, got %s", cfg.NATS.URL)
	}
}

func TestLoadYAMLMissingFileIsNotError(t *testing.T) {
	cfg := Defaults()
	if err := loadYAML(&cfg, filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("missing file must not error, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("AGENTRY_PORT", "7777")
	t.Setenv("AGENTRY_LOG_LEVEL", "warn")
	t.Setenv("AGENTRY_METRIC_CAPACITY", "256")

	cfg := Defaults()
	loadEnv(&cfg)

	if cfg.Server.Port != "7777" {
		t.Errorf("expected port 7777, got %s", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Agents.MetricCapacity != 256 {
		t.Errorf("expected capacity 256, got %d", cfg.Agents.MetricCapacity)
	}
}

func TestValidateRejectsAuthWithoutSecret(t *testing.T) {
	cfg := Defaults()
	cfg.Auth.Enabled = true
	if err := validate(&cfg); err == nil {
		t.Fatal("expected error for enabled auth without secret")
	}

	cfg.Auth.JWTSecret = "supersecret"
	if err := validate(&cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsZeroMetricCapacity(t *testing.T) {
	cfg := Defaults()
	cfg.Agents.MetricCapacity = 0
	if err := validate(&cfg); err == nil {
		t.Fatal("expected error for zero metric capacity")
	}
}
