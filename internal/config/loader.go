package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "agentry.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "AGENTRY_PORT")
	setString(&cfg.Server.CORSOrigin, "AGENTRY_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "AGENTRY_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "AGENTRY_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "AGENTRY_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "AGENTRY_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "AGENTRY_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.Logging.Level, "AGENTRY_LOG_LEVEL")
	setString(&cfg.Logging.Service, "AGENTRY_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "AGENTRY_LOG_ASYNC")
	setBool(&cfg.Auth.Enabled, "AGENTRY_AUTH_ENABLED")
	setString(&cfg.Auth.JWTSecret, "AGENTRY_JWT_SECRET")
	setDuration(&cfg.Auth.AccessTokenTTL, "AGENTRY_ACCESS_TOKEN_TTL")
	setInt(&cfg.Auth.BcryptCost, "AGENTRY_BCRYPT_COST")
	setInt64(&cfg.Cache.MaxCostBytes, "AGENTRY_CACHE_MAX_COST")
	setDuration(&cfg.Cache.HealthTTL, "AGENTRY_CACHE_HEALTH_TTL")
	setInt(&cfg.Agents.MetricCapacity, "AGENTRY_METRIC_CAPACITY")
}

// validate rejects configurations the service cannot run with.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres dsn is required")
	}
	if cfg.Auth.Enabled && cfg.Auth.JWTSecret == "" {
		return errors.New("auth enabled but jwt_secret is empty")
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost %d out of range [4,31]", cfg.Auth.BcryptCost)
	}
	if cfg.Agents.MetricCapacity <= 0 {
		return errors.New("agent metric capacity must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
