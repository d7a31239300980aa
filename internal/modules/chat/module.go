package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/relay/internal/hub"
	"github.com/nfrund/relay/internal/module"
	"github.com/nfrund/relay/internal/packet"
	"github.com/nfrund/relay/internal/presence"
	"github.com/nfrund/relay/internal/pubsub"
	"github.com/nfrund/relay/internal/registry"
	"github.com/nfrund/relay/internal/rendering"
	"github.com/nfrund/relay/internal/websocket"
)

// WSPath is where the chat websocket endpoint is mounted.
const WSPath = "/ws"

// RouterKey resolves the chat session router from the registry.
var RouterKey registry.Key[*Router] = "chat.router"

// ChatModule implements the module.Module interface for the chat relay.
type ChatModule struct {
	module.BaseModule
	deps   Dependencies
	cancel context.CancelFunc
}

// Dependencies holds all the services that the ChatModule requires to operate.
type Dependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	Presence   *presence.Registry
	Hub        *hub.Hub
	Parser     *packet.Parser
	Bridge     *websocket.Bridge
	// Roster overrides the HTML roster fragment. Optional.
	Roster presence.RosterRenderer
}

// New creates a new instance of the ChatModule, injecting its dependencies.
func New(deps Dependencies) *ChatModule {
	return &ChatModule{deps: deps}
}

// Name returns the module name.
func (m *ChatModule) Name() string {
	return "chat"
}

// Register makes the session router available to other modules.
func (m *ChatModule) Register(reg *registry.Registry) error {
	registry.Provide(reg, RouterKey, func(*registry.Registry) (*Router, error) {
		return NewRouter(m.deps.Presence, m.deps.Hub, m.deps.Parser, m.deps.Publisher), nil
	})
	return nil
}

// Boot mounts the websocket endpoint and pages, and starts the activity
// subscriber.
func (m *ChatModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	router, err := registry.Get(reg, RouterKey)
	if err != nil {
		return err
	}

	if m.deps.Subscriber != nil {
		subCtx, cancel := context.WithCancel(ctx)
		m.cancel = cancel
		if err := NewActivitySubscriber(m.deps.Subscriber, nil).Start(subCtx); err != nil {
			cancel()
			return fmt.Errorf("start chat activity subscriber: %w", err)
		}
	}

	slog.Info("Booting ChatModule: Setting up routes...")
	handler := NewHandler(m.deps.Presence, m.deps.Renderer, m.deps.Roster, WSPath)

	g.GET(WSPath, m.deps.Bridge.Handler(router))
	g.GET("/", handler.Lobby)
	g.GET("/users", handler.Users)
	g.GET("/stats", handler.Stats)

	return nil
}

// Shutdown stops the activity subscriber. The server closes open connections
// through the websocket bridge before modules shut down.
func (m *ChatModule) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down ChatModule...")
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}
