package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nfrund/relay/internal/domain"
	"github.com/nfrund/relay/internal/hub"
	"github.com/nfrund/relay/internal/metrics"
	"github.com/nfrund/relay/internal/modules/chat/events"
	"github.com/nfrund/relay/internal/packet"
	"github.com/nfrund/relay/internal/presence"
	"github.com/nfrund/relay/internal/pubsub"
	"github.com/nfrund/relay/internal/websocket"
)

// Packet outcomes recorded in relay_packets_total.
const (
	outcomeAccepted  = "accepted"
	outcomeRejected  = "rejected"
	outcomeIgnored   = "ignored"
	outcomeMalformed = "malformed"
)

// Router is the per-connection session state machine. A connection is ACTIVE
// while the registry holds an identity for it and UNJOINED otherwise; no
// other session state exists.
type Router struct {
	registry  *presence.Registry
	hub       *hub.Hub
	parser    *packet.Parser
	publisher pubsub.Publisher
	logger    *slog.Logger
}

var _ websocket.FrameHandler = (*Router)(nil)

// NewRouter wires a router. publisher may be nil to disable activity events.
func NewRouter(registry *presence.Registry, h *hub.Hub, parser *packet.Parser, publisher pubsub.Publisher) *Router {
	return &Router{
		registry:  registry,
		hub:       h,
		parser:    parser,
		publisher: publisher,
		logger:    slog.Default().With("component", "chat_router"),
	}
}

// Departure maps a close reason to how the departure is reported.
func Departure(reason string) string {
	if reason == domain.CloseReasonLeaving {
		return "left"
	}
	return "timed out"
}

// HandleFrame parses one inbound frame and acts on it. Malformed frames and
// packets that are not valid in the connection's state are dropped.
func (r *Router) HandleFrame(ctx context.Context, conn domain.Connection, raw []byte) {
	start := time.Now()

	pkt, err := r.parser.Parse(raw)
	if err != nil {
		r.logger.Debug("Ignoring malformed frame", "connID", conn.ID(), "error", err)
		metrics.PacketsTotal.WithLabelValues("unknown", outcomeMalformed).Inc()
		return
	}
	typ := string(pkt.Type())

	outcome := outcomeIgnored
	self, active := r.registry.Find(conn.ID())
	if !active {
		if req, ok := pkt.(packet.JoinRequest); ok {
			outcome = r.join(ctx, conn, req)
		}
	} else {
		switch p := pkt.(type) {
		case packet.LeaveRequest:
			outcome = r.leave(conn, self)
		case packet.ChatMessage:
			outcome = r.chat(ctx, self, p)
		case packet.DirectMessage:
			outcome = r.direct(ctx, self, p)
		}
	}

	if outcome == outcomeIgnored {
		r.logger.Debug("Ignoring packet", "connID", conn.ID(), "type", typ, "joined", active)
	}
	metrics.PacketsTotal.WithLabelValues(typ, outcome).Inc()
	metrics.FrameHandlingDuration.WithLabelValues(typ).Observe(time.Since(start).Seconds())
}

func (r *Router) join(ctx context.Context, conn domain.Connection, req packet.JoinRequest) string {
	self, err := r.registry.Register(conn, req.Username)
	if err != nil {
		reason := packet.ReasonDuplicateUsername
		if errors.Is(err, domain.ErrAlreadyJoined) {
			reason = packet.ReasonAlreadyJoined
		}
		r.logger.Debug("Join rejected", "connID", conn.ID(), "username", req.Username, "reason", reason)
		r.reply(conn, packet.JoinRejection{Reason: reason})
		return outcomeRejected
	}

	// Roster and notification targets come from the same post-registration
	// snapshot so they agree with each other.
	snap := r.registry.Snapshot()
	r.reply(conn, packet.NewJoinConfirmation(self.Username, snap.Usernames()))
	r.hub.Deliver(snap.Except(self.ConnID), packet.UserJoined{Username: self.Username})

	r.publish(self.Username, func() error {
		return pubsub.Publish(ctx, r.publisher, events.TopicUserJoined, self.Username, events.UserJoined{
			Username: self.Username,
			ConnID:   self.ConnID,
			Users:    snap.Len(),
		})
	})
	return outcomeAccepted
}

// leave only starts the transport close; departure is handled by HandleClose.
func (r *Router) leave(conn domain.Connection, self presence.Identity) string {
	r.logger.Debug("Leave requested", "connID", conn.ID(), "username", self.Username)
	if err := conn.Close(domain.CloseReasonLeaving); err != nil {
		r.logger.Warn("Failed to close connection", "connID", conn.ID(), "error", err)
	}
	return outcomeAccepted
}

func (r *Router) chat(ctx context.Context, self presence.Identity, msg packet.ChatMessage) string {
	n := r.hub.Deliver(r.registry.Snapshot(), packet.ChatMessageDelivery{
		Username: self.Username,
		Text:     msg.Text,
	})

	r.publish(self.Username, func() error {
		return pubsub.Publish(ctx, r.publisher, events.TopicMessageSent, self.Username, events.MessageSent{
			Username:   self.Username,
			Text:       msg.Text,
			Recipients: n,
		})
	})
	return outcomeAccepted
}

func (r *Router) direct(ctx context.Context, self presence.Identity, msg packet.DirectMessage) string {
	target, found := r.registry.FindByUsername(msg.To)
	if found {
		if err := r.hub.Send(target.Conn, packet.DirectMessageDelivery{From: self.Username, Text: msg.Text}); err != nil {
			r.logger.Debug("Direct message not delivered", "from", self.Username, "to", msg.To, "error", err)
		}
	} else {
		r.reply(self.Conn, packet.DirectMessageError{Username: msg.To, Reason: packet.ReasonNoUser})
	}

	r.publish(self.Username, func() error {
		return pubsub.Publish(ctx, r.publisher, events.TopicDirectSent, self.Username, events.DirectSent{
			From:      self.Username,
			To:        msg.To,
			Text:      msg.Text,
			Delivered: found,
		})
	})
	return outcomeAccepted
}

// HandleClose runs once per connection after its transport has ended.
// Joined users are announced to everyone else, then removed.
func (r *Router) HandleClose(ctx context.Context, conn domain.Connection, reason string) {
	if self, ok := r.registry.Find(conn.ID()); ok {
		r.hub.Deliver(r.registry.Snapshot().Except(self.ConnID), packet.UserLeft{Username: self.Username})

		connected := time.Since(self.JoinedAt)
		metrics.SessionDuration.Observe(connected.Seconds())
		r.logger.Debug("User departed", "username", self.Username, "reason", reason,
			"departure", Departure(reason), "connected_for", connected)

		r.publish(self.Username, func() error {
			return pubsub.Publish(ctx, r.publisher, events.TopicUserLeft, self.Username, events.UserLeft{
				Username: self.Username,
				ConnID:   self.ConnID,
				Reason:   reason,
			})
		})
	}
	r.registry.Unregister(conn.ID())
}

func (r *Router) reply(conn domain.Connection, pkt packet.Server) {
	if err := r.hub.Send(conn, pkt); err != nil {
		r.logger.Debug("Reply not delivered", "connID", conn.ID(), "type", pkt.Type(), "error", err)
	}
}

func (r *Router) publish(username string, send func() error) {
	if r.publisher == nil {
		return
	}
	if err := send(); err != nil {
		r.logger.Warn("Failed to publish activity event", "username", username, "error", err)
	}
}
