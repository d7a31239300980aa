package websocket

import (
	"errors"

	"github.com/nfrund/relay/internal/topicmgr"
)

// Framework topics published by the bridge for every transport session.
var (
	TopicConnectionOpened = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.connection.opened",
		Description: "Published when a websocket connection is accepted",
		Example:     `{"connID":"5f1c...","remoteAddr":"10.0.0.7:51522"}`,
		Metadata: map[string]any{
			"event_type":     "lifecycle",
			"payload_fields": []string{"connID", "remoteAddr"},
		},
	})

	TopicConnectionClosed = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.connection.closed",
		Description: "Published after a websocket connection has been torn down",
		Example:     `{"connID":"5f1c...","remoteAddr":"10.0.0.7:51522","reason":"leaving"}`,
		Metadata: map[string]any{
			"event_type":     "lifecycle",
			"payload_fields": []string{"connID", "remoteAddr", "reason"},
		},
	})
)

// LifecycleEvent is the payload of both connection topics.
type LifecycleEvent struct {
	ConnID     string `json:"connID"`
	RemoteAddr string `json:"remoteAddr"`
	Reason     string `json:"reason,omitempty"`
}

// RegisterTopicsWithManager registers the websocket framework topics with
// manager. It is idempotent.
func RegisterTopicsWithManager(manager *topicmgr.Manager) error {
	var errs []error
	for _, topic := range []topicmgr.Topic{TopicConnectionOpened, TopicConnectionClosed} {
		errs = append(errs, manager.Register(topic))
	}
	return errors.Join(errs...)
}

func init() {
	if err := RegisterTopicsWithManager(topicmgr.Default()); err != nil {
		panic("failed to register websocket framework topics: " + err.Error())
	}
}
