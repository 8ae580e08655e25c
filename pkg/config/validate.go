package config

import (
	"fmt"

	"atlas-hq/gatewarden/pkg/admission"
)

// Validate checks the configuration for invalid or inconsistent values.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address cannot be empty")
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 || cfg.Server.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts cannot be negative")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text; got %q", cfg.Logging.Format)
	}

	if !admission.Algorithm(cfg.Admission.Algorithm).Valid() {
		return fmt.Errorf("admission.algorithm %q is not a known algorithm", cfg.Admission.Algorithm)
	}
	if cfg.Admission.Window <= 0 {
		return fmt.Errorf("admission.window must be positive")
	}
	if cfg.Admission.AnonymousCapacity <= 0 {
		return fmt.Errorf("admission.anonymous_capacity must be positive")
	}
	if cfg.Admission.WriteCost <= 0 || cfg.Admission.ReadCost <= 0 {
		return fmt.Errorf("admission costs must be positive")
	}
	if cfg.Admission.WriteCost < cfg.Admission.ReadCost {
		return fmt.Errorf("admission.write_cost (%d) cannot be below admission.read_cost (%d)",
			cfg.Admission.WriteCost, cfg.Admission.ReadCost)
	}

	switch cfg.Audit.Backend {
	case "memory":
	case "sqlite":
		if cfg.Audit.DBPath == "" {
			return fmt.Errorf("audit.db_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("audit.backend must be memory or sqlite; got %q", cfg.Audit.Backend)
	}

	if cfg.Reaper.Schedule != "" && cfg.Reaper.MaxIdle <= 0 {
		return fmt.Errorf("reaper.max_idle must be positive when a schedule is set")
	}

	return nil
}
