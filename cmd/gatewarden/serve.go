package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"atlas-hq/gatewarden/pkg/admission"
	"atlas-hq/gatewarden/pkg/admission/audit"
	"atlas-hq/gatewarden/pkg/admission/capacity"
	"atlas-hq/gatewarden/pkg/admission/reaper"
	"atlas-hq/gatewarden/pkg/config"
	"atlas-hq/gatewarden/pkg/server"
	"atlas-hq/gatewarden/pkg/telemetry/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admission daemon",
	Long: `Start the HTTP admission daemon.

The daemon exposes POST /v1/check for admission decisions, GET /v1/audit/recent
for the decision trail, /healthz, and Prometheus metrics on /metrics. It shuts
down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger, err := logging.New(cfg.Logging, nil)
	if err != nil {
		return err
	}

	// Capacity tables, with optional hot reload.
	provider := capacity.NewStatic(capacity.Defaults())
	if cfg.Admission.CapacityFile != "" {
		table, err := capacity.LoadTable(cfg.Admission.CapacityFile)
		if err != nil {
			return err
		}
		provider.Replace(table)
	}

	limiter := admission.New(admission.Config{
		Capacity:          provider,
		Algorithm:         admission.Algorithm(cfg.Admission.Algorithm),
		Window:            cfg.Admission.Window,
		AnonymousCapacity: cfg.Admission.AnonymousCapacity,
		WriteCost:         cfg.Admission.WriteCost,
		ReadCost:          cfg.Admission.ReadCost,
		Metrics:           admission.NewMetrics(),
		Logger:            logger,
	})

	sink, err := newSink(cfg.Audit)
	if err != nil {
		return err
	}
	defer sink.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Admission.WatchCapacityFile && cfg.Admission.CapacityFile != "" {
		watcher, err := capacity.NewWatcher(cfg.Admission.CapacityFile, provider, logger)
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil && ctx.Err() == nil {
				logger.Error("capacity watcher stopped", "error", err)
			}
		}()
	}

	keyReaper := reaper.New(limiter.Registry(), reaper.Config{
		Schedule: cfg.Reaper.Schedule,
		MaxIdle:  cfg.Reaper.MaxIdle,
	}, logger)
	if err := keyReaper.Start(ctx); err != nil {
		return err
	}
	defer keyReaper.Stop()

	return server.New(cfg.Server, limiter, sink, logger).Start(ctx)
}

func newSink(cfg config.AuditConfig) (audit.Sink, error) {
	switch cfg.Backend {
	case "sqlite":
		return audit.NewSQLiteSink(cfg.DBPath)
	case "", "memory":
		return audit.NewMemorySink(cfg.MaxRecords), nil
	}
	return nil, fmt.Errorf("unknown audit backend %q", cfg.Backend)
}
