package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asyncell-dev/asyncell/pkg/middleware"
	"github.com/asyncell-dev/asyncell/pkg/todo"
)

// Config holds the server configuration.
type Config struct {
	// Addr is the listen address (default ":8080").
	Addr string

	// Namespace is the Prometheus metrics namespace (default "asyncell").
	Namespace string

	// Registry is the Prometheus registry. Nil uses a fresh registry so
	// repeated server constructions never collide on registration.
	Registry *prometheus.Registry

	// Logger is the structured logger. Nil uses slog.Default().
	Logger *slog.Logger

	// ShutdownTimeout bounds graceful shutdown (default 5s).
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		Namespace:       "asyncell",
		ShutdownTimeout: 5 * time.Second,
	}
}

// Server serves one todo controller over REST and WebSocket.
type Server struct {
	cfg      Config
	log      *slog.Logger
	ctrl     *todo.Controller
	metrics  *cellMetrics
	registry *prometheus.Registry
	router   chi.Router

	// unobserve detaches the metrics watcher from the cell.
	unobserve func()
}

// New creates a server around ctrl. Call Close when done to detach the
// server's cell subscriptions, or let Run do it on shutdown.
func New(ctrl *todo.Controller, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "asyncell"
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		log:      log,
		ctrl:     ctrl,
		registry: cfg.Registry,
	}

	s.metrics = newCellMetrics(cfg.Registry, cfg.Namespace, ctrl.Cell())
	s.unobserve = s.metrics.observe(ctrl.Cell())
	s.router = s.routes()

	return s
}

// routes builds the chi router with the middleware stack.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Prometheus(
		middleware.WithNamespace(s.cfg.Namespace),
		middleware.WithRegistry(s.registry),
	))
	r.Use(middleware.OpenTelemetry(
		middleware.WithTracerName(s.cfg.Namespace),
	))

	r.Route("/api/todos", func(r chi.Router) {
		r.Get("/", s.handleGetTodos)
		r.Post("/", s.handleAddTodo)
		r.Delete("/last", s.handleRemoveLast)
		r.Post("/refresh", s.handleRefresh)
	})

	r.Get("/ws", s.handleWS)
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// Handler returns the server's HTTP handler, for embedding in a larger
// router or for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close detaches the server's cell subscriptions. Idempotent.
func (s *Server) Close() {
	if s.unobserve != nil {
		s.unobserve()
		s.unobserve = nil
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	httpSrv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
