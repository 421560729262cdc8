package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agntcy/tourist-scheduler/a2a"
	"github.com/agntcy/tourist-scheduler/config"
	"github.com/agntcy/tourist-scheduler/dashboard"
	"github.com/agntcy/tourist-scheduler/internal/metrics"
	"github.com/agntcy/tourist-scheduler/internal/server"
	"github.com/agntcy/tourist-scheduler/internal/telemetry"
	"github.com/agntcy/tourist-scheduler/schedule"
)

// =============================================================================
// Server
// =============================================================================

// Server is the scheduler's main server: the A2A endpoint, the dashboard
// WebSocket hub, and the metrics listener.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	httpManager    *server.Manager
	metricsManager *server.Manager

	store       *schedule.Store
	coordinator *schedule.Coordinator
	a2aServer   *a2a.Server
	hub         *dashboard.Hub

	metricsCollector *metrics.Collector
	otelProviders    *telemetry.Providers

	backgroundCancel context.CancelFunc

	startTime time.Time
	wg        sync.WaitGroup
}

// NewServer creates a new server instance.
func NewServer(cfg *config.Config, logger *zap.Logger, providers *telemetry.Providers) *Server {
	return &Server{
		cfg:           cfg,
		logger:        logger,
		otelProviders: providers,
		startTime:     time.Now(),
	}
}

// =============================================================================
// Startup
// =============================================================================

// Start wires the scheduler components and starts all listeners.
func (s *Server) Start() error {
	s.metricsCollector = metrics.NewCollector("tourist_scheduler", s.logger)

	s.initScheduler()

	// Background context for the rate limiter cleanup loop and the server
	// error watcher; cancelled on Shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	s.backgroundCancel = cancel

	if err := s.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.wg.Add(1)
	go s.watchServerErrors(ctx)

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
	)

	return nil
}

// initScheduler builds the store, dashboard fanout, coordinator, and the
// A2A surface.
func (s *Server) initScheduler() {
	s.store = schedule.NewStore()

	// Dashboard sinks: the WebSocket hub always, the HTTP sink only when
	// a URL is configured.
	s.hub = dashboard.NewHub(s.cfg.Dashboard.SendBuffer, s.logger)
	sinks := []dashboard.Notifier{s.hub}
	if s.cfg.Dashboard.SinkURL != "" {
		sinks = append(sinks, dashboard.NewHTTPNotifier(
			s.cfg.Dashboard.SinkURL,
			s.cfg.Dashboard.NotifyTimeout,
			s.logger,
		))
	}
	fanout := dashboard.NewFanout(s.logger, sinks...)

	s.coordinator = schedule.NewCoordinator(s.store, fanout, s.metricsCollector, &schedule.CoordinatorConfig{
		AgentID:       s.cfg.Scheduler.AgentID,
		NotifyTimeout: s.cfg.Dashboard.NotifyTimeout,
		Logger:        s.logger,
	})

	s.a2aServer = a2a.NewServer(s.coordinator, &a2a.ServerConfig{
		BaseURL:        s.cfg.Scheduler.BaseURL,
		AgentName:      s.cfg.Scheduler.AgentName,
		Description:    "Matches tourist requests to guide offers under budget, time-window and capacity constraints",
		Version:        s.cfg.Scheduler.AgentVersion,
		RequestTimeout: s.cfg.Scheduler.RequestTimeout,
		EnableAuth:     s.cfg.Scheduler.AuthToken != "",
		AuthToken:      s.cfg.Scheduler.AuthToken,
		Logger:         s.logger,
	})

	s.logger.Info("Scheduler initialized",
		zap.String("agent_id", s.cfg.Scheduler.AgentID),
		zap.Bool("http_sink_enabled", s.cfg.Dashboard.SinkURL != ""),
	)
}

// =============================================================================
// HTTP server
// =============================================================================

func (s *Server) startHTTPServer(ctx context.Context) error {
	mux := http.NewServeMux()

	// Health and version endpoints
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/version", s.handleVersion)

	// A2A routes
	mux.Handle("/.well-known/agent.json", s.a2aServer)
	mux.Handle("/a2a/messages", s.a2aServer)
	mux.Handle("/a2a/state", s.a2aServer)

	// Dashboard WebSocket subscribers
	mux.Handle("/ws", s.hub)

	skipAuthPaths := []string{"/health", "/healthz", "/ready", "/readyz", "/version", "/metrics", "/.well-known/agent.json"}

	middlewares := []Middleware{
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		CORS(s.cfg.Server.CORSAllowedOrigins),
		RateLimiter(ctx, float64(s.cfg.Server.RateLimitRPS), s.cfg.Server.RateLimitBurst, s.logger),
		MetricsMiddleware(s.metricsCollector),
		OTelTracing(),
	}
	if len(s.cfg.Server.APIKeys) > 0 {
		middlewares = append(middlewares,
			APIKeyAuth(s.cfg.Server.APIKeys, skipAuthPaths, s.cfg.Server.AllowQueryAPIKey, s.logger))
	}
	if s.cfg.JWT.Enabled {
		// SubjectAnnotator runs after JWTAuth so the verified subject is
		// already in the request context.
		middlewares = append(middlewares, JWTAuth(s.cfg.JWT, skipAuthPaths, s.logger), SubjectAnnotator())
	}
	handler := Chain(mux, middlewares...)

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		MaxHeaderBytes:  1 << 20, // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.httpManager = server.NewManager(handler, serverConfig, s.logger)

	if err := s.httpManager.Start(); err != nil {
		return err
	}

	s.logger.Info("HTTP server started", zap.Int("port", s.cfg.Server.HTTPPort))
	return nil
}

// =============================================================================
// Metrics server
// =============================================================================

func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.metricsManager = server.NewManager(mux, serverConfig, s.logger)

	if err := s.metricsManager.Start(); err != nil {
		return err
	}

	s.logger.Info("Metrics server started", zap.Int("port", s.cfg.Server.MetricsPort))
	return nil
}

// =============================================================================
// Health handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	summary := s.store.Summary()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"uptime":      time.Since(s.startTime).String(),
		"tourists":    summary.TouristCount,
		"guides":      summary.GuideCount,
		"assignments": summary.AssignmentCount,
		"subscribers": s.hub.SubscriberCount(),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ready": true})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Shutdown
// =============================================================================

// watchServerErrors surfaces listener failures from either server until
// shutdown cancels the context.
func (s *Server) watchServerErrors(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-s.httpManager.Errors():
			s.logger.Error("HTTP server failed", zap.Error(err))
		case err := <-s.metricsManager.Errors():
			s.logger.Error("Metrics server failed", zap.Error(err))
		}
	}
}

// WaitForShutdown blocks until a termination signal, then shuts down.
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}
	s.Shutdown()
}

// Shutdown gracefully stops all services.
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx := context.Background()

	if s.backgroundCancel != nil {
		s.backgroundCancel()
	}

	if s.httpManager != nil {
		if err := s.httpManager.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}

	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	if s.hub != nil {
		s.hub.Close()
	}

	if s.otelProviders != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := s.otelProviders.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Telemetry shutdown error", zap.Error(err))
		}
		cancel()
	}

	s.wg.Wait()

	s.logger.Info("Graceful shutdown completed")
}
