package chat

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/relay/internal/middleware"
	"github.com/nfrund/relay/internal/modules/chat/templates"
	"github.com/nfrund/relay/internal/presence"
	"github.com/nfrund/relay/internal/rendering"
)

// Handler serves the chat module's HTTP pages and fragments.
type Handler struct {
	presence *presence.Registry
	renderer rendering.Renderer
	roster   presence.RosterRenderer
	wsPath   string
}

// NewHandler creates a handler. A nil roster falls back to the default
// renderer.
func NewHandler(p *presence.Registry, r rendering.Renderer, roster presence.RosterRenderer, wsPath string) *Handler {
	if roster == nil {
		roster = presence.DefaultRenderer
	}
	return &Handler{presence: p, renderer: r, roster: roster, wsPath: wsPath}
}

// Lobby serves the browser client.
func (h *Handler) Lobby(c echo.Context) error {
	return h.renderer.RenderPage(c, http.StatusOK, templates.Lobby(templates.LobbyProps{
		WSPath:     h.wsPath,
		RosterPath: "/users",
		Roster:     h.roster(h.presence.Snapshot().Usernames()),
	}))
}

// Users renders the roster fragment polled by the lobby.
func (h *Handler) Users(c echo.Context) error {
	users := h.presence.Snapshot().Usernames()
	middleware.FromContext(c.Request().Context()).Debug("Rendering roster", "users", len(users))
	return h.renderer.RenderPage(c, http.StatusOK, h.roster(users))
}

type statsResponse struct {
	Users int `json:"users"`
}

// Stats reports how many users are joined.
func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, statsResponse{Users: h.presence.Len()})
}
