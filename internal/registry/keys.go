package registry

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/nfrund/relay/internal/hub"
	"github.com/nfrund/relay/internal/packet"
	"github.com/nfrund/relay/internal/presence"
	"github.com/nfrund/relay/internal/pubsub"
	"github.com/nfrund/relay/internal/rendering"
	"github.com/nfrund/relay/internal/topicmgr"
	"github.com/nfrund/relay/internal/websocket"
)

// Framework service keys. Modules resolve shared infrastructure through these.
var (
	PublisherKey    Key[pubsub.Publisher]        = "pubsub.publisher"
	SubscriberKey   Key[pubsub.Subscriber]       = "pubsub.subscriber"
	TracerKey       Key[trace.Tracer]            = "pubsub.tracer"
	TopicManagerKey Key[*topicmgr.Manager]       = "topicmgr.manager"
	PresenceKey     Key[*presence.Registry]      = "presence.registry"
	HubKey          Key[*hub.Hub]                = "hub"
	ParserKey       Key[*packet.Parser]          = "packet.parser"
	BridgeKey       Key[*websocket.Bridge]       = "websocket.bridge"
	RendererKey     Key[rendering.Renderer]      = "rendering.renderer"
	RosterViewKey   Key[presence.RosterRenderer] = "presence.roster_renderer"
)
