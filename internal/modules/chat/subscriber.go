package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nfrund/relay/internal/metrics"
	"github.com/nfrund/relay/internal/modules/chat/events"
	"github.com/nfrund/relay/internal/pubsub"
	"github.com/nfrund/relay/internal/websocket"
)

// ActivitySubscriber listens for chat activity on the bus and writes the
// server's human-readable activity log.
type ActivitySubscriber struct {
	subscriber pubsub.Subscriber
	logger     *slog.Logger
}

// NewActivitySubscriber creates a subscriber that logs through logger, or
// through the default logger when logger is nil.
func NewActivitySubscriber(sub pubsub.Subscriber, logger *slog.Logger) *ActivitySubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivitySubscriber{
		subscriber: sub,
		logger:     logger.With("component", "chat_activity"),
	}
}

// Start subscribes to every chat event and the websocket lifecycle topics.
// Handlers run until ctx is cancelled or the bus is closed.
func (s *ActivitySubscriber) Start(ctx context.Context) error {
	s.logger.Info("Starting chat activity subscriber")

	return errors.Join(
		pubsub.Subscribe(ctx, s.subscriber, events.TopicUserJoined, s.handleJoined),
		pubsub.Subscribe(ctx, s.subscriber, events.TopicUserLeft, s.handleLeft),
		pubsub.Subscribe(ctx, s.subscriber, events.TopicMessageSent, s.handleMessage),
		pubsub.Subscribe(ctx, s.subscriber, events.TopicDirectSent, s.handleDirect),
		s.subscriber.Subscribe(ctx, websocket.TopicConnectionOpened.Name(), s.handleLifecycle),
		s.subscriber.Subscribe(ctx, websocket.TopicConnectionClosed.Name(), s.handleLifecycle),
	)
}

func (s *ActivitySubscriber) handleJoined(_ context.Context, ev events.UserJoined) error {
	metrics.ChatEvents.WithLabelValues(events.TopicUserJoined.Name()).Inc()
	s.logger.Info(fmt.Sprintf("%s joined", ev.Username), "connID", ev.ConnID, "users", ev.Users)
	return nil
}

func (s *ActivitySubscriber) handleLeft(_ context.Context, ev events.UserLeft) error {
	metrics.ChatEvents.WithLabelValues(events.TopicUserLeft.Name()).Inc()
	s.logger.Info(fmt.Sprintf("%s %s", ev.Username, Departure(ev.Reason)), "connID", ev.ConnID, "reason", ev.Reason)
	return nil
}

func (s *ActivitySubscriber) handleMessage(_ context.Context, ev events.MessageSent) error {
	metrics.ChatEvents.WithLabelValues(events.TopicMessageSent.Name()).Inc()
	s.logger.Info(fmt.Sprintf("[%s] %s", ev.Username, ev.Text), "recipients", ev.Recipients)
	return nil
}

func (s *ActivitySubscriber) handleDirect(_ context.Context, ev events.DirectSent) error {
	metrics.ChatEvents.WithLabelValues(events.TopicDirectSent.Name()).Inc()
	s.logger.Info(fmt.Sprintf("[%s -> %s] %s", ev.From, ev.To, ev.Text), "delivered", ev.Delivered)
	return nil
}

func (s *ActivitySubscriber) handleLifecycle(_ context.Context, msg pubsub.Message) error {
	var ev websocket.LifecycleEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return fmt.Errorf("decode %s payload: %w", msg.Topic, err)
	}
	s.logger.Debug("Connection lifecycle", "topic", msg.Topic, "connID", ev.ConnID, "remoteAddr", ev.RemoteAddr, "reason", ev.Reason)
	return nil
}
