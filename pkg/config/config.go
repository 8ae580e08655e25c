// Package config loads and validates the gatewarden daemon configuration.
//
// Configuration comes from a YAML file, with defaults applied for anything
// unset and GATEWARDEN_* environment variables taking precedence over the
// file.
package config

import "time"

// Config is the root daemon configuration.
type Config struct {
	// Server configures the HTTP admission endpoint.
	Server ServerConfig `yaml:"server"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Admission configures the limiter core.
	Admission AdmissionConfig `yaml:"admission"`

	// Audit configures the decision audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Reaper configures idle-key eviction.
	Reaper ReaperConfig `yaml:"reaper"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	ListenAddress  string        `yaml:"listen_address"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
}

// LoggingConfig configures the slog logger.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`
}

// AdmissionConfig configures the limiter core.
type AdmissionConfig struct {
	// Algorithm selects the bucket variant: "token_bucket", "sliding_log",
	// or "fixed_window".
	Algorithm string `yaml:"algorithm"`

	// Window is the window duration for the sliding log and fixed window
	// variants.
	Window time.Duration `yaml:"window"`

	// AnonymousCapacity is the base capacity for identity-less callers.
	AnonymousCapacity int64 `yaml:"anonymous_capacity"`

	// WriteCost and ReadCost weigh methods against every bucket.
	WriteCost int64 `yaml:"write_cost"`
	ReadCost  int64 `yaml:"read_cost"`

	// CapacityFile is the YAML capacity table path. Empty uses built-in
	// defaults only.
	CapacityFile string `yaml:"capacity_file"`

	// WatchCapacityFile hot-reloads the capacity file on change.
	WatchCapacityFile bool `yaml:"watch_capacity_file"`
}

// AuditConfig configures the decision audit trail.
type AuditConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// DBPath is the SQLite database path (sqlite backend only).
	DBPath string `yaml:"db_path"`

	// MaxRecords bounds the memory backend's ring.
	MaxRecords int `yaml:"max_records"`
}

// ReaperConfig configures idle-key eviction.
type ReaperConfig struct {
	// Schedule is a standard cron expression; empty disables reaping.
	Schedule string `yaml:"schedule"`

	// MaxIdle is how long a key may go untouched before eviction.
	MaxIdle time.Duration `yaml:"max_idle"`
}
