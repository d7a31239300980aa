// Package events defines the chat activity events published on the bus.
package events

import "github.com/nfrund/relay/internal/pubsub"

// UserJoined is published after a successful join.
type UserJoined struct {
	Username string `json:"username"`
	ConnID   string `json:"connID"`
	Users    int    `json:"users"`
}

// UserLeft is published when a joined connection closes.
type UserLeft struct {
	Username string `json:"username"`
	ConnID   string `json:"connID"`
	Reason   string `json:"reason"`
}

// MessageSent is published for every broadcast chat message.
type MessageSent struct {
	Username   string `json:"username"`
	Text       string `json:"text"`
	Recipients int    `json:"recipients"`
}

// DirectSent is published for every direct message, delivered or not.
type DirectSent struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Text      string `json:"text"`
	Delivered bool   `json:"delivered"`
}

var (
	TopicUserJoined  = pubsub.NewEvent[UserJoined]("chat.user.joined", "A connection joined the chat with a username")
	TopicUserLeft    = pubsub.NewEvent[UserLeft]("chat.user.left", "A joined user left or timed out")
	TopicMessageSent = pubsub.NewEvent[MessageSent]("chat.message.sent", "A chat message was broadcast to every user")
	TopicDirectSent  = pubsub.NewEvent[DirectSent]("chat.direct.sent", "A direct message was routed to one user")
)
