// Package config loads and validates application configuration from a file
// with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/bluemens/dermatopathology-scheduler/pkg/logger"
)

// envPrefix marks environment variables that override file configuration,
// e.g. DERMSCHED_DATABASE__HOST overrides database.host.
const envPrefix = "DERMSCHED_"

// Config is the application configuration.
type Config struct {
	App       AppConfig       `json:"app"`
	Database  DatabaseConfig  `json:"database"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Metrics   MetricsConfig   `json:"metrics"`
	Logging   logger.Config   `json:"logging"`
}

// AppConfig holds application identity settings.
type AppConfig struct {
	Name string `json:"name"`
	Env  string `json:"env"` // development/production/test
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// SchedulerConfig holds solve settings.
type SchedulerConfig struct {
	TimeLimit time.Duration `json:"time_limit"`
	Engine    string        `json:"engine"`
}

// MetricsConfig holds the Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
	Path    string `json:"path"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name: "dermsched",
			Env:  "development",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Name:            "dermsched",
			User:            "dermsched",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Scheduler: SchedulerConfig{
			TimeLimit: 5 * time.Minute,
			Engine:    "dfs",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9822",
			Path:    "/metrics",
		},
		Logging: logger.DefaultConfig(),
	}
}

// Load reads configuration from path (YAML or JSON), applies environment
// overrides and validates the result. An empty path loads defaults plus
// environment overrides only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.App.Env {
	case "development", "production", "test":
	default:
		return fmt.Errorf("unknown app env %q", c.App.Env)
	}
	if c.Scheduler.TimeLimit <= 0 {
		return fmt.Errorf("scheduler time_limit must be positive, got %s", c.Scheduler.TimeLimit)
	}
	if c.Scheduler.Engine != "dfs" {
		return fmt.Errorf("unknown scheduler engine %q", c.Scheduler.Engine)
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database port %d out of range", c.Database.Port)
	}
	return nil
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool { return c.App.Env == "production" }
