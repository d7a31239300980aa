// Package rendering turns templ and gomponents views into HTTP responses
// and byte fragments.
package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer renders any supported component.
type Renderer interface {
	// RenderComponent renders component to bytes, for htmx fragments.
	RenderComponent(ctx context.Context, component any) ([]byte, error)

	// RenderPage writes component as a full HTML response.
	RenderPage(c echo.Context, status int, component any) error
}

// node is satisfied by gomponents.Node without importing it here.
type node interface {
	Render(w io.Writer) error
}

// UniversalRenderer renders templ.Component and gomponents.Node values. It
// also implements echo.Renderer so handlers may call c.Render with the
// component passed as data.
type UniversalRenderer struct{}

var (
	_ Renderer      = (*UniversalRenderer)(nil)
	_ echo.Renderer = (*UniversalRenderer)(nil)
)

func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

func (r *UniversalRenderer) render(ctx context.Context, component any, w io.Writer) error {
	switch v := component.(type) {
	case templ.Component:
		return v.Render(ctx, w)
	case node:
		return v.Render(w)
	default:
		return fmt.Errorf("unsupported component type %T", component)
	}
}

func (r *UniversalRenderer) RenderComponent(ctx context.Context, component any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.render(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("render component: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage buffers the output first so a render failure can still become
// a 500 instead of a truncated page.
func (r *UniversalRenderer) RenderPage(c echo.Context, status int, component any) error {
	body, err := r.RenderComponent(c.Request().Context(), component)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	return c.HTMLBlob(status, body)
}

// Render implements echo.Renderer. name is ignored; data is the component.
func (r *UniversalRenderer) Render(w io.Writer, _ string, data any, c echo.Context) error {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}
	return r.render(c.Request().Context(), data, w)
}
