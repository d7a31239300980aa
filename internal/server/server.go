package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nfrund/relay/internal/app"
	"github.com/nfrund/relay/internal/config"
	"github.com/nfrund/relay/internal/middleware"
	"github.com/nfrund/relay/internal/module"
	"github.com/nfrund/relay/internal/registry"
	"github.com/nfrund/relay/internal/websocket"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      config.Provider
	Registry *registry.Registry
	Deps     app.Dependencies

	bridge  *websocket.Bridge
	modules []module.Module
	cleanup func()
}

// New builds the core services, boots the application modules and registers
// the operational routes. The returned server is ready for Start or for
// serving through httptest.
func New(ctx context.Context, cfg config.Provider) (*Server, error) {
	reg := registry.New(cfg)

	deps, cleanup, err := app.NewDependencies(ctx, reg)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.Logger)
	if r, ok := deps.Renderer.(echo.Renderer); ok {
		e.Renderer = r
	}
	setupErrorHandling(e)

	s := &Server{
		E:        e,
		Cfg:      cfg,
		Registry: reg,
		Deps:     deps,
		bridge:   deps.Bridge,
		cleanup:  cleanup,
	}

	if err := s.InitModules(ctx, app.NewModules(deps)); err != nil {
		cleanup()
		return nil, err
	}
	s.RegisterRoutes()

	return s, nil
}

// setupErrorHandling installs an HTTP error handler that logs unhandled
// errors with a stack trace and delegates the response to echo.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code >= http.StatusInternalServerError {
			logger := middleware.FromContext(c.Request().Context())
			logger.Error("Internal Server Error (Unhandled)",
				"error", err.Error(),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

// InitModules registers and boots mods on the root route group.
func (s *Server) InitModules(ctx context.Context, mods []module.Module) error {
	if err := module.Init(ctx, mods, s.E.Group(""), s.Registry); err != nil {
		return fmt.Errorf("init modules: %w", err)
	}
	s.modules = mods
	for _, m := range mods {
		slog.Info("Module booted", "module", m.Name())
	}
	return nil
}
