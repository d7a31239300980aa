package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/nfrund/relay/internal/topicmgr"
)

// Event[T] is a topic whose payload is always a T.
type Event[T any] struct {
	topic *topicmgr.TypedTopic
}

// NewEvent defines a typed event and registers it with the default topic
// manager. The owning module is the first dot-separated segment of name.
// Payload field names and an example are derived from T for documentation.
func NewEvent[T any](name, description string) Event[T] {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	fields := make([]string, 0)
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			tag, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
			if tag != "" && tag != "-" {
				fields = append(fields, tag)
			}
		}
	}

	example, _ := json.Marshal(zero)
	module, _, _ := strings.Cut(name, ".")

	topic := topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        name,
		Module:      module,
		Description: description,
		Example:     string(example),
		Metadata: map[string]any{
			"payload_fields": fields,
			"type_name":      t.Name(),
		},
	})

	// Events are package-level values; a bad definition is a programming error.
	topicmgr.Default().MustRegister(topic)

	return Event[T]{topic: topic}
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.topic.Name()
}

// Topic returns the registered topic definition.
func (e Event[T]) Topic() topicmgr.Topic {
	return e.topic
}

// Publish sends a typed event attributed to username.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], username string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event.Name(), err)
	}
	return p.Publish(ctx, Message{
		Topic:    event.Name(),
		Username: username,
		Payload:  data,
	})
}

// Subscribe decodes each message on event's topic into a T before calling fn.
func Subscribe[T any](ctx context.Context, s Subscriber, event Event[T], fn func(ctx context.Context, payload T) error) error {
	return s.Subscribe(ctx, event.Name(), func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Name(), err)
		}
		return fn(ctx, payload)
	})
}
