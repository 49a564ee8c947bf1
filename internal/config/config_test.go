package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.IsProduction() {
		t.Error("default env should not be production")
	}
	if cfg.Scheduler.Engine != "dfs" {
		t.Errorf("default engine = %q, want dfs", cfg.Scheduler.Engine)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown env", func(c *Config) { c.App.Env = "staging" }},
		{"zero time limit", func(c *Config) { c.Scheduler.TimeLimit = 0 }},
		{"unknown engine", func(c *Config) { c.Scheduler.Engine = "cplex" }},
		{"bad db port", func(c *Config) { c.Database.Port = 70000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
app:
  env: production
database:
  host: db.internal
  port: 5433
scheduler:
  time_limit: 30s
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("env override not applied")
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Errorf("database = %s:%d, want db.internal:5433", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Scheduler.TimeLimit != 30*time.Second {
		t.Errorf("time limit = %s, want 30s", cfg.Scheduler.TimeLimit)
	}
	// Untouched settings keep their defaults.
	if cfg.Metrics.Addr != ":9822" {
		t.Errorf("metrics addr = %q, want the default", cfg.Metrics.Addr)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DERMSCHED_DATABASE__HOST", "env-host")
	t.Setenv("DERMSCHED_APP__ENV", "test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Host != "env-host" {
		t.Errorf("database host = %q, want env-host", cfg.Database.Host)
	}
	if cfg.App.Env != "test" {
		t.Errorf("app env = %q, want test", cfg.App.Env)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Error("expected an error for unsupported format")
	}
}

func TestLoadInvalidFileContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "scheduler:\n  engine: simplex\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a validation error for the unknown engine")
	}
}

func TestDSN(t *testing.T) {
	cfg := Default()
	cfg.Database.Password = "secret"
	dsn := cfg.Database.DSN()
	want := "host=localhost port=5432 user=dermsched password=secret dbname=dermsched sslmode=disable"
	if dsn != want {
		t.Errorf("dsn = %q, want %q", dsn, want)
	}
}
