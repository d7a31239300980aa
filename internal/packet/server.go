package packet

// ServerType is the wire discriminant of a server-originated packet.
type ServerType string

const (
	TypeJoinConfirmation      ServerType = "JOIN_CONFIRMATION"
	TypeJoinRejection         ServerType = "JOIN_REJECTION"
	TypeUserJoined            ServerType = "USER_JOINED"
	TypeUserLeft              ServerType = "USER_LEFT"
	TypeChatMessageDelivery   ServerType = "CHAT_MESSAGE_DELIVERY"
	TypeDirectMessageDelivery ServerType = "DIRECT_MESSAGE_DELIVERY"
	TypeDirectMessageError    ServerType = "DIRECT_MESSAGE_ERROR"
)

// Reason values carried by rejection and error packets.
const (
	ReasonDuplicateUsername = "duplicate_username"
	ReasonAlreadyJoined     = "already_joined"
	ReasonNoUser            = "no_user"
)

// Server is a packet emitted by the relay. The set of implementations is
// closed to this package.
type Server interface {
	Type() ServerType
	isServer()
}

// User is one roster entry of a JoinConfirmation.
type User struct {
	Username string `json:"username"`
}

type JoinConfirmation struct {
	Username string `json:"username"`
	Users    []User `json:"users"`
}

type JoinRejection struct {
	Reason string `json:"reason"`
}

type UserJoined struct {
	Username string `json:"username"`
}

type UserLeft struct {
	Username string `json:"username"`
}

type ChatMessageDelivery struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

type DirectMessageDelivery struct {
	From string `json:"from"`
	Text string `json:"text"`
}

type DirectMessageError struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

// NewJoinConfirmation builds the confirmation for username with the given roster.
// The roster is never nil so it always encodes as a JSON array.
func NewJoinConfirmation(username string, roster []string) JoinConfirmation {
	users := make([]User, 0, len(roster))
	for _, name := range roster {
		users = append(users, User{Username: name})
	}
	return JoinConfirmation{Username: username, Users: users}
}

func (JoinConfirmation) Type() ServerType      { return TypeJoinConfirmation }
func (JoinRejection) Type() ServerType         { return TypeJoinRejection }
func (UserJoined) Type() ServerType            { return TypeUserJoined }
func (UserLeft) Type() ServerType              { return TypeUserLeft }
func (ChatMessageDelivery) Type() ServerType   { return TypeChatMessageDelivery }
func (DirectMessageDelivery) Type() ServerType { return TypeDirectMessageDelivery }
func (DirectMessageError) Type() ServerType    { return TypeDirectMessageError }

func (JoinConfirmation) isServer()      {}
func (JoinRejection) isServer()         {}
func (UserJoined) isServer()            {}
func (UserLeft) isServer()              {}
func (ChatMessageDelivery) isServer()   {}
func (DirectMessageDelivery) isServer() {}
func (DirectMessageError) isServer()    {}
