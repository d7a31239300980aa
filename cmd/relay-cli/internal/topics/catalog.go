// Package topics displays the event catalogue for the relay-cli topics
// commands.
package topics

import (
	// Topics register themselves with the default manager when their
	// packages are loaded.
	_ "github.com/nfrund/relay/internal/modules/chat/events"
	_ "github.com/nfrund/relay/internal/websocket"

	"github.com/nfrund/relay/internal/topicmgr"
)

// Catalog returns the manager holding every topic the server can publish.
func Catalog() *topicmgr.Manager {
	return topicmgr.Default()
}
