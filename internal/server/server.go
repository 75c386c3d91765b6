// Package server runs a service's HTTP listener and owns the shared
// startup and shutdown sequence.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

const shutdownGrace = 10 * time.Second

type Server struct {
	srv      *http.Server
	log      *slog.Logger
	draining atomic.Bool
}

func New(port int, log *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		log: log,
	}
}

// Draining reports whether shutdown has begun; /readyz turns 503 then.
func (s *Server) Draining() bool {
	return s.draining.Load()
}

// Run serves handler until ctx is cancelled, then drains in-flight requests
// for up to the grace period.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln, handler)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	s.srv.Handler = handler

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", ln.Addr().String())
		err := s.srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.draining.Store(true)
	s.log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	err := s.srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	s.log.Info("shutdown complete")
	return nil
}
