package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ValidPackets(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Client
	}{
		{
			name: "join request",
			raw:  `{"type":"JOIN_REQUEST","data":{"username":"alice"}}`,
			want: JoinRequest{Username: "alice"},
		},
		{
			name: "join request username is trimmed",
			raw:  `{"type":"JOIN_REQUEST","data":{"username":"  alice \t"}}`,
			want: JoinRequest{Username: "alice"},
		},
		{
			name: "leave request with empty data",
			raw:  `{"type":"LEAVE_REQUEST","data":{}}`,
			want: LeaveRequest{},
		},
		{
			name: "chat message keeps text as sent",
			raw:  `{"type":"CHAT_MESSAGE","data":{"text":" hi there "}}`,
			want: ChatMessage{Text: " hi there "},
		},
		{
			name: "direct message",
			raw:  `{"type":"DIRECT_MESSAGE","data":{"to":"bob","text":"psst"}}`,
			want: DirectMessage{To: "bob", Text: "psst"},
		},
		{
			name: "unknown data fields are ignored",
			raw:  `{"type":"CHAT_MESSAGE","data":{"text":"hi","color":"red"}}`,
			want: ChatMessage{Text: "hi"},
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Type(), got.Type())
		})
	}
}

func TestParser_MalformedPackets(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `not json`},
		{name: "empty frame", raw: ``},
		{name: "missing type", raw: `{"data":{"username":"alice"}}`},
		{name: "unknown type", raw: `{"type":"SHOUT","data":{"text":"hi"}}`},
		{name: "lower case type", raw: `{"type":"join_request","data":{"username":"alice"}}`},
		{name: "missing data", raw: `{"type":"JOIN_REQUEST"}`},
		{name: "null data", raw: `{"type":"LEAVE_REQUEST","data":null}`},
		{name: "data is not an object", raw: `{"type":"CHAT_MESSAGE","data":"hi"}`},
		{name: "wrong field type", raw: `{"type":"JOIN_REQUEST","data":{"username":42}}`},
		{name: "blank username", raw: `{"type":"JOIN_REQUEST","data":{"username":"   "}}`},
		{name: "missing username", raw: `{"type":"JOIN_REQUEST","data":{}}`},
		{name: "blank chat text", raw: `{"type":"CHAT_MESSAGE","data":{"text":"\n\t "}}`},
		{name: "direct message without recipient", raw: `{"type":"DIRECT_MESSAGE","data":{"text":"x"}}`},
		{name: "direct message with blank text", raw: `{"type":"DIRECT_MESSAGE","data":{"to":"bob","text":" "}}`},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, got)
		})
	}
}

func TestNewParser_RegistersNotBlank(t *testing.T) {
	var p *Parser
	require.NotPanics(t, func() { p = NewParser() })

	_, err := p.Parse([]byte(`{"type":"CHAT_MESSAGE","data":{"text":"  "}}`))
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "notblank")
}
