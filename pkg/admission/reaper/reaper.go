// Package reaper evicts idle bucket keys from an admission registry on a
// schedule.
//
// The admission core never evicts on its own: a long-running deployment with
// high key cardinality opts into reaping by configuring a cron schedule and a
// maximum idle age. Idleness is judged by event time, so a replay of old logs
// does not keep otherwise-dead keys alive against the wall clock unless its
// event times do.
package reaper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"atlas-hq/gatewarden/pkg/admission"
)

// Config configures a Reaper.
type Config struct {
	// Schedule is a standard cron expression, e.g. "*/5 * * * *" for every
	// five minutes. Empty disables the reaper.
	Schedule string

	// MaxIdle is how long a key may go untouched before eviction.
	// Default: 1 hour.
	MaxIdle time.Duration
}

// Reaper sweeps idle keys out of a registry on a cron schedule.
type Reaper struct {
	registry *admission.Registry
	config   Config
	cron     *cron.Cron
	logger   *slog.Logger
	mu       sync.Mutex
	running  bool
}

// New creates a Reaper over registry.
func New(registry *admission.Registry, cfg Config, logger *slog.Logger) *Reaper {
	if cfg.MaxIdle <= 0 {
		cfg.MaxIdle = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Reaper{
		registry: registry,
		config:   cfg,
		cron:     cron.New(),
		logger:   logger.With("component", "admission.reaper"),
	}
}

// Start begins scheduled sweeping. A no-op when no schedule is configured.
func (r *Reaper) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config.Schedule == "" {
		r.logger.Info("reap schedule not configured, skipping reaper")
		return nil
	}

	if _, err := cron.ParseStandard(r.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", r.config.Schedule, err)
	}

	if _, err := r.cron.AddFunc(r.config.Schedule, r.sweep); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	r.cron.Start()
	r.running = true

	r.logger.Info("reaper started",
		"schedule", r.config.Schedule,
		"max_idle", r.config.MaxIdle,
	)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	return nil
}

// Stop halts scheduled sweeping.
func (r *Reaper) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.cron.Stop()
	r.running = false
	r.logger.Info("reaper stopped")
}

// sweep evicts keys idle longer than MaxIdle.
func (r *Reaper) sweep() {
	cutoff := time.Now().Add(-r.config.MaxIdle)
	evicted := r.registry.Sweep(cutoff)
	if evicted > 0 {
		r.logger.Info("swept idle keys",
			"evicted", evicted,
			"remaining", r.registry.Len(),
		)
	}
}
