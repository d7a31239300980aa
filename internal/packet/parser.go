package packet

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformed is wrapped by every parse failure. A malformed frame is not
// actionable and callers drop it.
var ErrMalformed = errors.New("malformed packet")

// Parser decodes raw client frames into validated packets. It holds no
// mutable state and is safe for concurrent use.
type Parser struct {
	validate *validator.Validate
}

// NewParser creates a Parser with the relay's validation rules registered.
func NewParser() *Parser {
	v := validator.New(validator.WithRequiredStructEnabled())
	// notblank mirrors a "required after trimming" rule for text fields.
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(fmt.Sprintf("packet: register notblank validation: %v", err))
	}
	return &Parser{validate: v}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Parse decodes and validates a single frame.
func (p *Parser) Parse(raw []byte) (Client, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", ErrMalformed, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, fmt.Errorf("%w: missing data", ErrMalformed)
	}

	var (
		pkt Client
		err error
	)
	switch ClientType(env.Type) {
	case TypeJoinRequest:
		var jr JoinRequest
		if err = json.Unmarshal(env.Data, &jr); err == nil {
			jr.Username = strings.TrimSpace(jr.Username)
			pkt = jr
		}
	case TypeLeaveRequest:
		var lr LeaveRequest
		if err = json.Unmarshal(env.Data, &lr); err == nil {
			pkt = lr
		}
	case TypeChatMessage:
		var cm ChatMessage
		if err = json.Unmarshal(env.Data, &cm); err == nil {
			pkt = cm
		}
	case TypeDirectMessage:
		var dm DirectMessage
		if err = json.Unmarshal(env.Data, &dm); err == nil {
			dm.To = strings.TrimSpace(dm.To)
			pkt = dm
		}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformed, env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s data: %v", ErrMalformed, env.Type, err)
	}

	if err := p.validate.Struct(pkt); err != nil {
		return nil, fmt.Errorf("%w: %s validation: %v", ErrMalformed, env.Type, err)
	}
	return pkt, nil
}
