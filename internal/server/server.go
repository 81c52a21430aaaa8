// Package server exposes recipe generation and history over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/hammamikhairi/aichef/internal/engine"
	"github.com/hammamikhairi/aichef/internal/logger"
)

// Config holds server settings.
type Config struct {
	Address string
	// RateLimit is the sustained request rate for API routes, per second.
	RateLimit float64
	RateBurst int
	// RequestTimeout bounds a single generation, retries included.
	RequestTimeout time.Duration
	// DefaultUserID scopes history when a request has no X-User-Id header.
	DefaultUserID   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:         ":8080",
		RateLimit:       2,
		RateBurst:       5,
		RequestTimeout:  2 * time.Minute,
		DefaultUserID:   "local",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    3 * time.Minute,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server is the HTTP front end of the engine.
type Server struct {
	config      Config
	engine      *engine.Engine
	log         *logger.Logger
	rateLimiter *rate.Limiter
	httpServer  *http.Server
	ready       atomic.Bool
}

// New creates a server. Zero-valued config fields fall back to defaults.
func New(eng *engine.Engine, cfg Config, log *logger.Logger) *Server {
	def := DefaultConfig()
	if cfg.Address == "" {
		cfg.Address = def.Address
	}
	if cfg.RateBurst < 1 {
		cfg.RateBurst = def.RateBurst
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.DefaultUserID == "" {
		cfg.DefaultUserID = def.DefaultUserID
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		// Must outlast a full retry budget.
		cfg.WriteTimeout = cfg.RequestTimeout + time.Minute
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = def.IdleTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}
	if log == nil {
		log = logger.Nop()
	}

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}

	s := &Server{
		config:      cfg,
		engine:      eng,
		log:         log,
		rateLimiter: rate.NewLimiter(limit, cfg.RateBurst),
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// System endpoints (no rate limiting)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/recipes", s.withMiddleware(s.handleGenerate))
	mux.HandleFunc("GET /v1/history", s.withMiddleware(s.handleHistory))
	mux.HandleFunc("GET /v1/history/{id}", s.withMiddleware(s.handleHistoryEntry))
	mux.HandleFunc("GET /v1/history/{id}/html", s.withMiddleware(s.handleHistoryHTML))

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.ready.Store(true)
	s.log.Info("server listening on %s", ln.Addr())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errCh:
		s.ready.Store(false)
		return err
	}
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.log.Info("shutting down server")
	return s.httpServer.Shutdown(shutdownCtx)
}
