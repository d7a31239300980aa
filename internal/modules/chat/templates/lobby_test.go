package templates

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/relay/internal/presence"
)

func TestLobby(t *testing.T) {
	var buf bytes.Buffer
	err := Lobby(LobbyProps{
		WSPath:     "/ws",
		RosterPath: "/users",
		Roster:     presence.DefaultRenderer([]string{"alice"}),
	}).Render(&buf)
	require.NoError(t, err)

	page := buf.String()
	assert.Contains(t, page, "<!doctype html>")
	assert.Contains(t, page, `hx-get="/users"`)
	assert.Contains(t, page, `hx-trigger="every 2s"`)
	assert.Contains(t, page, `<li>alice</li>`)
	assert.Contains(t, page, `location.host + "/ws"`)
	assert.Contains(t, page, `send("JOIN_REQUEST", { username })`)
}

func TestLobby_WithoutRoster(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Lobby(LobbyProps{WSPath: "/ws", RosterPath: "/users"}).Render(&buf))
	assert.NotContains(t, buf.String(), "online-users")
}
