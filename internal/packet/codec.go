package packet

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire shape shared by every frame in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outbound struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Encode serializes a server packet into its {type, data} envelope.
func Encode(p Server) ([]byte, error) {
	return json.Marshal(outbound{Type: string(p.Type()), Data: p})
}

// EncodeClient serializes a client packet into its {type, data} envelope.
// Used by clients of the relay, such as relay-cli.
func EncodeClient(p Client) ([]byte, error) {
	return json.Marshal(outbound{Type: string(p.Type()), Data: p})
}

// DecodeServer turns an outbound frame back into a typed server packet.
func DecodeServer(raw []byte) (Server, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode server envelope: %w", err)
	}

	switch ServerType(env.Type) {
	case TypeJoinConfirmation:
		return decodeInto[JoinConfirmation](env)
	case TypeJoinRejection:
		return decodeInto[JoinRejection](env)
	case TypeUserJoined:
		return decodeInto[UserJoined](env)
	case TypeUserLeft:
		return decodeInto[UserLeft](env)
	case TypeChatMessageDelivery:
		return decodeInto[ChatMessageDelivery](env)
	case TypeDirectMessageDelivery:
		return decodeInto[DirectMessageDelivery](env)
	case TypeDirectMessageError:
		return decodeInto[DirectMessageError](env)
	default:
		return nil, fmt.Errorf("unknown server packet type %q", env.Type)
	}
}

func decodeInto[T Server](env Envelope) (Server, error) {
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return nil, fmt.Errorf("decode %s data: %w", env.Type, err)
	}
	return v, nil
}
