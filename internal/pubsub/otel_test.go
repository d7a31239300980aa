package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracingMiddleware_RecordsPublishAndProcessSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
	bridge := NewWatermillBridgeWithTracer(tp.Tracer("test"))
	defer bridge.Close()

	ctx := context.Background()
	received := make(chan Message, 1)
	require.NoError(t, bridge.Subscribe(ctx, "chat.test.traced", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	}))

	require.NoError(t, bridge.Publish(ctx, Message{
		Topic:    "chat.test.traced",
		Username: "alice",
		Payload:  []byte(`{"text":"hello"}`),
		Metadata: map[string]string{"conn_id": "c1"},
	}))

	select {
	case msg := <-received:
		assert.Equal(t, "chat.test.traced", msg.Topic)
		assert.Equal(t, "alice", msg.Username)
		assert.Equal(t, "c1", msg.Metadata["conn_id"])
		assert.JSONEq(t, `{"text":"hello"}`, string(msg.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}

	require.Eventually(t, func() bool {
		names := map[string]bool{}
		for _, s := range recorder.Ended() {
			names[s.Name()] = true
		}
		return names["pubsub.publish.chat.test.traced"] && names["pubsub.process.chat.test.traced"]
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatermillBridge_HandlerErrorDoesNotStopSubscription(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx := context.Background()
	var mu sync.Mutex
	var calls int
	require.NoError(t, bridge.Subscribe(ctx, "chat.test.errors", func(ctx context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return assert.AnError
	}))

	for i := 0; i < 3; i++ {
		require.NoError(t, bridge.Publish(ctx, Message{Topic: "chat.test.errors", Payload: []byte(`{}`)}))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatermillBridge_PublishWaitsForSubscribers(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	var handled []string
	require.NoError(t, bridge.Subscribe(ctx, "chat.test.acked", func(ctx context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, msg.Username)
		return nil
	}))

	require.NoError(t, bridge.Publish(context.Background(), Message{Topic: "chat.test.acked", Username: "alice", Payload: []byte(`{}`)}))
	// Cancelling right after Publish must not lose the message.
	cancel()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"alice"}, handled)
}

func TestSetupOTel(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled tracing", func(t *testing.T) {
		tracer, cleanup, err := SetupOTel(ctx, TracingConfig{Enabled: false})
		require.NoError(t, err)
		require.NotNil(t, tracer)

		_, span := tracer.Start(ctx, "test")
		span.End()
		cleanup()
	})

	t.Run("enabled tracing with unreachable collector", func(t *testing.T) {
		tracer, cleanup, err := SetupOTel(ctx, TracingConfig{
			Enabled:        true,
			ServiceName:    "test-service",
			ServiceVersion: "test",
			ZipkinURL:      "http://invalid-url:9411/api/v2/spans",
		})
		require.NoError(t, err)
		require.NotNil(t, tracer)
		require.NotNil(t, cleanup)
	})
}
