// Package server hosts the WebSocket endpoint and operational HTTP surface.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nbody_galaxy_sim/internal/config"
	"nbody_galaxy_sim/internal/session"
	"nbody_galaxy_sim/internal/simulation"
	"nbody_galaxy_sim/internal/watchdog"
	"nbody_galaxy_sim/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// Server accepts client connections and gives each one its own simulation.
type Server struct {
	logger   *zap.Logger
	defaults *config.Config
	wd       *watchdog.Watchdog
	upgrader websocket.Upgrader

	baseCtx    context.Context
	httpServer *http.Server
}

// New creates a server listening on addr. defaults seeds every new
// session's simulation.
func New(addr string, defaults *config.Config, wd *watchdog.Watchdog, logger *zap.Logger) *Server {
	s := &Server{
		logger:   logger,
		defaults: defaults,
		wd:       wd,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		baseCtx: context.Background(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", metrics.Handler())

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the HTTP mux, mainly for tests driving the server through
// httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until the context is cancelled, then shuts down gracefully.
// The watchdog monitor runs alongside the listener.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.wd.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// handleWS upgrades the connection and runs a session for its lifetime.
// Each session owns a fresh simulation seeded from the server defaults.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sim, err := simulation.NewSimulation(s.defaults.Clone(), s.logger)
	if err != nil {
		s.logger.Error("invalid default configuration", zap.Error(err))
		conn.Close()
		return
	}

	session.New(conn, sim, s.wd, s.logger).Run(s.baseCtx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
