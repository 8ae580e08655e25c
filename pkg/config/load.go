package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults and
// GATEWARDEN_* environment overrides, and validates the result.
//
// The loading sequence is:
//  1. Parse YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration a daemon runs with when no file is given.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// applyEnvOverrides applies GATEWARDEN_SECTION_FIELD environment variables on
// top of the file configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("GATEWARDEN_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("GATEWARDEN_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("GATEWARDEN_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	if val := os.Getenv("GATEWARDEN_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("GATEWARDEN_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("GATEWARDEN_ADMISSION_ALGORITHM"); val != "" {
		cfg.Admission.Algorithm = val
	}
	if val := os.Getenv("GATEWARDEN_ADMISSION_CAPACITY_FILE"); val != "" {
		cfg.Admission.CapacityFile = val
	}
	if val := os.Getenv("GATEWARDEN_ADMISSION_ANONYMOUS_CAPACITY"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Admission.AnonymousCapacity = n
		}
	}

	if val := os.Getenv("GATEWARDEN_AUDIT_BACKEND"); val != "" {
		cfg.Audit.Backend = val
	}
	if val := os.Getenv("GATEWARDEN_AUDIT_DB_PATH"); val != "" {
		cfg.Audit.DBPath = val
	}

	if val := os.Getenv("GATEWARDEN_REAPER_SCHEDULE"); val != "" {
		cfg.Reaper.Schedule = val
	}
}
