package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"northstar-hq/relay/pkg/config"
	"northstar-hq/relay/pkg/normalize"
	"northstar-hq/relay/pkg/race"
	"northstar-hq/relay/pkg/records"
)

// Server is the HTTP API server.
type Server struct {
	config       config.ServerConfig
	orchestrator *race.Orchestrator
	health       *race.HealthAggregator
	normalizer   *normalize.Normalizer
	store        records.Store
	metrics      http.Handler
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new API server. The metrics registry may be nil,
// in which case /metrics returns 404.
func NewServer(cfg config.ServerConfig, orch *race.Orchestrator, health *race.HealthAggregator, norm *normalize.Normalizer, store records.Store, metricsHandler http.Handler) *Server {
	return &Server{
		config:       cfg,
		orchestrator: orch,
		health:       health,
		normalizer:   norm,
		store:        store,
		metrics:      metricsHandler,
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting api server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("api server stopped")
	})

	return shutdownErr
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/healthz", &livenessHandler{})
	mux.Handle("/readyz", &readinessHandler{health: s.health})
	mux.Handle("/v1/race", &raceHandler{orchestrator: s.orchestrator, normalizer: s.normalizer, store: s.store})
	mux.Handle("/v1/reports/latest", &latestReportHandler{store: s.store})
	mux.Handle("/v1/reports", &listReportsHandler{store: s.store})
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}

	var handler http.Handler = mux
	handler = loggingMiddleware(handler)
	handler = recoveryMiddleware(handler)
	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
