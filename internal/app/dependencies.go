package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/nfrund/relay/internal/hub"
	"github.com/nfrund/relay/internal/packet"
	"github.com/nfrund/relay/internal/presence"
	"github.com/nfrund/relay/internal/pubsub"
	"github.com/nfrund/relay/internal/registry"
	"github.com/nfrund/relay/internal/rendering"
	"github.com/nfrund/relay/internal/topicmgr"
	"github.com/nfrund/relay/internal/websocket"
)

// Version is reported to the tracer and by the CLI. Set at build time with
// -ldflags "-X github.com/nfrund/relay/internal/app.Version=v1.2.3".
var Version = "dev"

// Dependencies holds the core services that are required by the application's modules.
// This struct is passed from the main application entrypoint to wire up the modules.
type Dependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	TopicMgr   *topicmgr.Manager
	Presence   *presence.Registry
	Hub        *hub.Hub
	Parser     *packet.Parser
	Bridge     *websocket.Bridge
	Roster     presence.RosterRenderer
}

// NewDependencies builds the core services from the registry's configuration
// and registers each of them under its framework key. The returned cleanup
// closes the event bus and flushes the tracer; call it after the HTTP server
// and websocket bridge have stopped.
func NewDependencies(ctx context.Context, reg *registry.Registry) (Dependencies, func(), error) {
	cfg := reg.Config()

	tracer, flush, err := pubsub.SetupOTel(ctx, pubsub.TracingConfig{
		Enabled:        cfg.GetTracingEnabled(),
		ServiceName:    cfg.GetTracingServiceName(),
		ServiceVersion: Version,
		ZipkinURL:      cfg.GetTracingZipkinURL(),
	})
	if err != nil {
		return Dependencies{}, nil, fmt.Errorf("setup tracing: %w", err)
	}
	bus := pubsub.NewWatermillBridgeWithTracer(tracer)
	cleanup := func() {
		_ = bus.Close()
		flush()
	}

	registry.Set(reg, registry.TracerKey, tracer)
	registry.Set(reg, registry.PublisherKey, pubsub.Publisher(bus))
	registry.Set(reg, registry.SubscriberKey, pubsub.Subscriber(bus))
	registry.Set(reg, registry.TopicManagerKey, topicmgr.Default())
	registry.Set(reg, registry.RendererKey, rendering.Renderer(rendering.NewUniversalRenderer()))
	registry.Set(reg, registry.RosterViewKey, presence.RosterRenderer(presence.DefaultRenderer))

	registry.Provide(reg, registry.PresenceKey, func(*registry.Registry) (*presence.Registry, error) {
		return presence.NewRegistry(), nil
	})
	registry.Provide(reg, registry.HubKey, func(*registry.Registry) (*hub.Hub, error) {
		return hub.NewHub(), nil
	})
	registry.Provide(reg, registry.ParserKey, func(*registry.Registry) (*packet.Parser, error) {
		return packet.NewParser(), nil
	})
	registry.Provide(reg, registry.BridgeKey, func(r *registry.Registry) (*websocket.Bridge, error) {
		pub, err := registry.Get(r, registry.PublisherKey)
		if err != nil {
			return nil, err
		}
		c := r.Config()
		return websocket.NewBridge(websocket.Options{
			SendBuffer:   c.GetSendBuffer(),
			ReadLimit:    c.GetReadLimit(),
			WriteTimeout: c.GetWriteTimeout(),
			PingInterval: c.GetPingInterval(),
		}, pub), nil
	})

	deps, err := resolve(reg)
	if err != nil {
		cleanup()
		return Dependencies{}, nil, err
	}
	return deps, cleanup, nil
}

func resolve(reg *registry.Registry) (Dependencies, error) {
	var deps Dependencies
	var errs []error
	get := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	deps.Publisher, err = registry.Get(reg, registry.PublisherKey)
	get(err)
	deps.Subscriber, err = registry.Get(reg, registry.SubscriberKey)
	get(err)
	deps.Renderer, err = registry.Get(reg, registry.RendererKey)
	get(err)
	deps.TopicMgr, err = registry.Get(reg, registry.TopicManagerKey)
	get(err)
	deps.Presence, err = registry.Get(reg, registry.PresenceKey)
	get(err)
	deps.Hub, err = registry.Get(reg, registry.HubKey)
	get(err)
	deps.Parser, err = registry.Get(reg, registry.ParserKey)
	get(err)
	deps.Bridge, err = registry.Get(reg, registry.BridgeKey)
	get(err)
	deps.Roster, err = registry.Get(reg, registry.RosterViewKey)
	get(err)

	return deps, errors.Join(errs...)
}
