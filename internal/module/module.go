package module

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/relay/internal/registry"
)

// Module defines the contract for a self-contained application feature.
type Module interface {
	// Name returns a unique identifier for the module.
	Name() string

	// Register is called during application startup to register the module's
	// services with the central registry.
	Register(reg *registry.Registry) error

	// Boot is called after all modules have registered their services.
	// This is the phase for setting up routes and subscriptions.
	Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error

	// Shutdown is called during graceful application shutdown, in reverse
	// boot order.
	Shutdown(ctx context.Context) error
}

// BaseModule provides default no-op implementations for Module methods.
// Modules can embed this to avoid implementing methods they don't need.
type BaseModule struct{}

func (m *BaseModule) Register(reg *registry.Registry) error { return nil }
func (m *BaseModule) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	return nil
}
func (m *BaseModule) Shutdown(ctx context.Context) error {
	return nil
}

// Init registers every module, then boots them in order. Modules that booted
// before a failure are shut down again and the failure is returned.
func Init(ctx context.Context, mods []Module, router *echo.Group, reg *registry.Registry) error {
	for _, m := range mods {
		if err := m.Register(reg); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}
	for i, m := range mods {
		if err := m.Boot(ctx, router, reg); err != nil {
			err = fmt.Errorf("boot module %s: %w", m.Name(), err)
			return errors.Join(err, ShutdownAll(ctx, mods[:i]))
		}
	}
	return nil
}

// ShutdownAll shuts modules down in reverse order. Every module is given the
// chance to stop; the errors are joined.
func ShutdownAll(ctx context.Context, mods []Module) error {
	var errs []error
	for i := len(mods) - 1; i >= 0; i-- {
		if err := mods[i].Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown module %s: %w", mods[i].Name(), err))
		}
	}
	return errors.Join(errs...)
}
