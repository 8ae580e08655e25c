package config

import "time"

// ApplyDefaults fills in default values for any unset configuration fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = ":8484"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = 1 << 20 // 1 MiB
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Admission.Algorithm == "" {
		cfg.Admission.Algorithm = "token_bucket"
	}
	if cfg.Admission.Window == 0 {
		cfg.Admission.Window = time.Second
	}
	if cfg.Admission.AnonymousCapacity == 0 {
		cfg.Admission.AnonymousCapacity = 10
	}
	if cfg.Admission.WriteCost == 0 {
		cfg.Admission.WriteCost = 5
	}
	if cfg.Admission.ReadCost == 0 {
		cfg.Admission.ReadCost = 1
	}

	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = "memory"
	}
	if cfg.Audit.MaxRecords == 0 {
		cfg.Audit.MaxRecords = 10000
	}

	if cfg.Reaper.MaxIdle == 0 {
		cfg.Reaper.MaxIdle = time.Hour
	}
}
