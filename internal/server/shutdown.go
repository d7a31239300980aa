package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nfrund/relay/internal/module"
)

// waitForShutdown blocks until an interrupt or terminate signal is received
// or ctx is done.
func waitForShutdown(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}

// Shutdown stops the server in dependency order: open websocket connections,
// modules, the HTTP server, then the event bus and tracer. Connections go
// first so that their departure events still reach module subscribers.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if err := s.bridge.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("websocket shutdown: %w", err))
	}
	if err := module.ShutdownAll(ctx, s.modules); err != nil {
		errs = append(errs, err)
	}
	if err := s.E.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	s.cleanup()

	err := errors.Join(errs...)
	if err != nil {
		slog.Error("Shutdown completed with errors", "error", err)
	} else {
		slog.Info("Shutdown complete")
	}
	return err
}
