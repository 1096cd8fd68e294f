// Package server envuelve http.Server con apagado ordenado.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
)

type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	srv      *http.Server
	shutdown time.Duration
}

func New(cfg Config, handler http.Handler) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       60 * time.Second,
		},
		shutdown: cfg.ShutdownTimeout,
	}
}

// Run sirve hasta que ctx se cancela y luego drena los requests en vuelo.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve es Run sobre un listener ya abierto (tests).
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := logger.L().With(logger.Component("http.server"))
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logger.String("addr", ln.Addr().String()))
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", logger.DurationMs(s.shutdown.Milliseconds()))
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdown)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
