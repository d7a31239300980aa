package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server on the configured address until SIGINT or
// SIGTERM, then shuts down gracefully. A listener failure also triggers the
// shutdown and is returned.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", s.Cfg.GetAddr())
		if err := s.E.Start(s.Cfg.GetAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
	}()

	waitForShutdown(ctx)
	slog.Info("Shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	err := s.Shutdown(shutdownCtx)

	select {
	case serr := <-serveErr:
		return errors.Join(serr, err)
	default:
		return err
	}
}
