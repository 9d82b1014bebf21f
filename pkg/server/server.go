package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls the server. Zero fields fall back to defaults.
type Config struct {
	Address         string
	Seed            int64
	ShutdownTimeout time.Duration
	Logger          *slog.Logger

	// DisableMetrics drops the /metrics route. Collectors still run;
	// they are just not exposed.
	DisableMetrics bool

	// CheckOrigin overrides the WebSocket origin check. Nil allows
	// same-host origins only.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:         ":8080",
		Seed:            1,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is the HTTP/WebSocket front end.
type Server struct {
	config   *Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	upgrader websocket.Upgrader

	nextSessionID atomic.Uint64
	httpServer    *http.Server
}

// New creates a server from config. A nil config uses defaults.
func New(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.Address == "" {
		config.Address = defaults.Address
	}
	if config.Seed == 0 {
		config.Seed = defaults.Seed
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		config:   config,
		logger:   config.Logger.With("component", "server"),
		registry: registry,
		metrics:  NewMetrics(registry),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
	}
	s.httpServer = &http.Server{
		Addr:              config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", s.handleHealth)
	if !s.config.DisableMetrics {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	id := s.nextSessionID.Add(1)
	s.metrics.SessionsTotal.Inc()
	s.metrics.ActiveSessions.Inc()
	s.logger.Info("session opened", "session", id, "remote", r.RemoteAddr)

	// Per-session seed offset keeps label sequences distinct across
	// sessions while staying reproducible for a fixed base seed.
	sess := newSession(id, conn, s.logger, s.metrics, s.config.Seed+int64(id))
	go sess.run()
}

// Run serves until ctx is canceled or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
