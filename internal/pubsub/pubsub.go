// Package pubsub is the in-process event bus that carries chat activity
// events from the router to any interested subscriber.
package pubsub

import (
	"context"
)

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the event, e.g. "chat.user.joined".
	Topic string
	// Username is the chat identity that caused the event, if any.
	Username string
	// Payload is the JSON-encoded event body.
	Payload []byte
	// Metadata carries optional string context such as the connection ID.
	Metadata map[string]string
}

// Handler processes one received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher sends messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber receives messages from the bus.
type Subscriber interface {
	// Subscribe registers handler for topic and returns once the subscription
	// is active. Messages are processed in a background goroutine until ctx is
	// cancelled or the bus is closed.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
