// Package server exposes the admission limiter over HTTP.
//
// The daemon serves POST /v1/check for out-of-process callers, /healthz for
// liveness, and /metrics for Prometheus. Embedders that already run an HTTP
// stack can use Middleware instead and skip the daemon entirely.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"atlas-hq/gatewarden/pkg/admission"
	"atlas-hq/gatewarden/pkg/admission/audit"
	"atlas-hq/gatewarden/pkg/config"
)

// Server is the HTTP admission daemon.
type Server struct {
	config     config.ServerConfig
	limiter    *admission.Limiter
	sink       audit.Sink
	logger     *slog.Logger
	httpServer *http.Server

	mu        sync.Mutex
	isRunning bool
}

// New creates a Server. sink may be nil to disable the audit trail.
func New(cfg config.ServerConfig, limiter *admission.Limiter, sink audit.Sink, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:  cfg,
		limiter: limiter,
		sink:    sink,
		logger:  logger.With("component", "server"),
	}
}

// Start starts the HTTP server and blocks until the listener fails or ctx is
// cancelled, at which point it shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.routes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting admission server", "address", s.config.ListenAddress)
		errChan <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}
	s.isRunning = false

	s.logger.Info("shutting down admission server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/check", s.handleCheck)
	mux.HandleFunc("GET /v1/audit/recent", s.handleAuditRecent)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}
