package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/auth"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/config"
)

// Server hosts the REST API.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	shutdown   time.Duration
}

// NewServer builds the route table and wraps it with the shared middleware.
func NewServer(cfg *config.Config, handler *Handler, tokens *auth.TokenService, registry *prometheus.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authed := authMiddleware(tokens)

	// Public
	mux.HandleFunc("GET /healthz", handler.handleHealth)
	mux.HandleFunc("POST /api/v1/auth/signup", handler.handleSignup)
	mux.HandleFunc("POST /api/v1/auth/login", handler.handleLogin)
	mux.HandleFunc("GET /api/v1/projects", handler.handleListOpenProjects)
	mux.HandleFunc("GET /api/v1/projects/{id}", handler.handleGetProject)

	if registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// Authenticated
	mux.Handle("GET /api/v1/profiles/{id}", authed(http.HandlerFunc(handler.handleGetProfile)))
	mux.Handle("PUT /api/v1/profiles/{id}", authed(http.HandlerFunc(handler.handleUpdateProfile)))

	mux.Handle("POST /api/v1/projects", authed(http.HandlerFunc(handler.handleCreateProject)))
	mux.Handle("GET /api/v1/my/projects", authed(http.HandlerFunc(handler.handleListMyProjects)))
	mux.Handle("GET /api/v1/my/bids", authed(http.HandlerFunc(handler.handleListMyBids)))

	mux.Handle("POST /api/v1/projects/{id}/bids", authed(http.HandlerFunc(handler.handleSubmitBid)))
	mux.Handle("GET /api/v1/projects/{id}/bids", authed(http.HandlerFunc(handler.handleListProjectBids)))
	mux.Handle("GET /api/v1/projects/{id}/bids/export", authed(http.HandlerFunc(handler.handleExportProjectBids)))
	mux.Handle("POST /api/v1/projects/{id}/bids/{bidID}/accept", authed(http.HandlerFunc(handler.handleAcceptBid)))
	mux.Handle("POST /api/v1/projects/{id}/bids/{bidID}/review", authed(http.HandlerFunc(handler.handleReviewBid)))

	mux.Handle("GET /api/v1/dashboard/supplier", authed(http.HandlerFunc(handler.handleSupplierDashboard)))
	mux.Handle("GET /api/v1/dashboard/buyer", authed(http.HandlerFunc(handler.handleBuyerDashboard)))
	mux.Handle("GET /api/v1/notifications", authed(http.HandlerFunc(handler.handleListNotifications)))

	root := chain(mux,
		requestIDMiddleware(),
		recoveryMiddleware(logger),
		loggingMiddleware(logger),
		rateLimitMiddleware(cfg.Security.RateLimit.RequestsPerSecond, cfg.Security.RateLimit.BurstSize),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      http.TimeoutHandler(root, cfg.Server.RequestTimeout, "request timeout"),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		logger:   logger,
		shutdown: cfg.Server.ShutdownTimeout,
	}
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured grace period.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdown)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
