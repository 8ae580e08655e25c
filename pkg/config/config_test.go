package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  listen_address: \":9000\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ListenAddress != ":9000" {
		t.Errorf("listen_address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read_timeout = %v, want default 10s", cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %q/%q", cfg.Logging.Level, cfg.Logging.Format)
	}
	if cfg.Admission.Algorithm != "token_bucket" {
		t.Errorf("algorithm = %q, want token_bucket", cfg.Admission.Algorithm)
	}
	if cfg.Admission.WriteCost != 5 || cfg.Admission.ReadCost != 1 {
		t.Errorf("costs = %d/%d, want 5/1", cfg.Admission.WriteCost, cfg.Admission.ReadCost)
	}
	if cfg.Audit.Backend != "memory" {
		t.Errorf("audit backend = %q, want memory", cfg.Audit.Backend)
	}
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: ":8080"
  read_timeout: 5s
logging:
  level: debug
  format: text
admission:
  algorithm: sliding_log
  window: 30s
  anonymous_capacity: 3
audit:
  backend: sqlite
  db_path: /tmp/audit.db
reaper:
  schedule: "*/5 * * * *"
  max_idle: 2h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Admission.Algorithm != "sliding_log" || cfg.Admission.Window != 30*time.Second {
		t.Errorf("admission = %+v", cfg.Admission)
	}
	if cfg.Audit.DBPath != "/tmp/audit.db" {
		t.Errorf("db_path = %q", cfg.Audit.DBPath)
	}
	if cfg.Reaper.Schedule != "*/5 * * * *" || cfg.Reaper.MaxIdle != 2*time.Hour {
		t.Errorf("reaper = %+v", cfg.Reaper)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  listen_address: \":9000\"\n")

	t.Setenv("GATEWARDEN_SERVER_LISTEN_ADDRESS", ":7777")
	t.Setenv("GATEWARDEN_ADMISSION_ALGORITHM", "fixed_window")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.ListenAddress != ":7777" {
		t.Errorf("env override ignored: %q", cfg.Server.ListenAddress)
	}
	if cfg.Admission.Algorithm != "fixed_window" {
		t.Errorf("env override ignored: %q", cfg.Admission.Algorithm)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad algorithm", func(c *Config) { c.Admission.Algorithm = "leaky_bucket" }},
		{"zero window", func(c *Config) { c.Admission.Window = 0 }},
		{"write below read", func(c *Config) { c.Admission.WriteCost = 1; c.Admission.ReadCost = 5 }},
		{"sqlite without path", func(c *Config) { c.Audit.Backend = "sqlite"; c.Audit.DBPath = "" }},
		{"bad audit backend", func(c *Config) { c.Audit.Backend = "postgres" }},
		{"schedule without idle", func(c *Config) { c.Reaper.Schedule = "* * * * *"; c.Reaper.MaxIdle = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if err := Validate(Default()); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}
