package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/relay/internal/topicmgr"
)

type pingEvent struct {
	From string `json:"from"`
	Seq  int    `json:"seq,omitempty"`
}

var testPing = NewEvent[pingEvent]("pubsubtest.ping", "Test event for typed publish")

func TestNewEvent_RegistersTopic(t *testing.T) {
	topic, ok := topicmgr.Default().Get("pubsubtest.ping")
	require.True(t, ok)
	assert.Equal(t, "pubsubtest", topic.Module())
	assert.Equal(t, topicmgr.ScopeModule, topic.Scope())
	assert.Equal(t, []string{"from", "seq"}, topic.Metadata()["payload_fields"])
	assert.JSONEq(t, `{"from":""}`, topic.Example())
}

func TestTypedPublishSubscribe(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx := context.Background()
	got := make(chan pingEvent, 1)
	require.NoError(t, Subscribe(ctx, bridge, testPing, func(_ context.Context, p pingEvent) error {
		got <- p
		return nil
	}))

	require.NoError(t, Publish(ctx, bridge, testPing, "alice", pingEvent{From: "alice", Seq: 7}))

	select {
	case p := <-got:
		assert.Equal(t, pingEvent{From: "alice", Seq: 7}, p)
	case <-time.After(2 * time.Second):
		t.Fatal("typed event not delivered")
	}
}
