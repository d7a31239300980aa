package packet

// ClientType is the wire discriminant of a client-originated packet.
type ClientType string

const (
	TypeJoinRequest   ClientType = "JOIN_REQUEST"
	TypeLeaveRequest  ClientType = "LEAVE_REQUEST"
	TypeChatMessage   ClientType = "CHAT_MESSAGE"
	TypeDirectMessage ClientType = "DIRECT_MESSAGE"
)

// Client is a decoded, validated packet sent by a client. The set of
// implementations is closed to this package.
type Client interface {
	Type() ClientType
	isClient()
}

// JoinRequest asks to claim a username.
type JoinRequest struct {
	Username string `json:"username" validate:"notblank"`
}

// LeaveRequest asks the server to close the session gracefully.
type LeaveRequest struct{}

// ChatMessage is broadcast to every active user.
type ChatMessage struct {
	Text string `json:"text" validate:"notblank"`
}

// DirectMessage is routed to a single named user.
type DirectMessage struct {
	To   string `json:"to" validate:"notblank"`
	Text string `json:"text" validate:"notblank"`
}

func (JoinRequest) Type() ClientType   { return TypeJoinRequest }
func (LeaveRequest) Type() ClientType  { return TypeLeaveRequest }
func (ChatMessage) Type() ClientType   { return TypeChatMessage }
func (DirectMessage) Type() ClientType { return TypeDirectMessage }

func (JoinRequest) isClient()   {}
func (LeaveRequest) isClient()  {}
func (ChatMessage) isClient()   {}
func (DirectMessage) isClient() {}
