package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	// Flag variables are package state and outlive a single Execute.
	resetFlags()
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags()
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags() {
	listOutputFormat, listModuleFilter, listScopeFilter, getOutputFormat = "table", "", "", "table"
	chatURL, chatUsername, chatTimeout = "ws://localhost:8080/ws", "", 10*time.Second
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "relay-cli dev\n", out)
}

func TestTopicsList(t *testing.T) {
	out, err := execute(t, "topics", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "chat.user.joined")
	assert.Contains(t, out, "ws.connection.closed")
}

func TestTopicsList_Filters(t *testing.T) {
	out, err := execute(t, "topics", "list", "--scope", "framework")
	require.NoError(t, err)
	assert.Contains(t, out, "ws.connection.opened")
	assert.NotContains(t, out, "chat.user.joined")

	out, err = execute(t, "topics", "list", "--module", "chat", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"count": 4`)
}

func TestTopicsList_InvalidScope(t *testing.T) {
	_, err := execute(t, "topics", "list", "--scope", "galaxy")
	assert.ErrorContains(t, err, "invalid scope")
}

func TestTopicsGet(t *testing.T) {
	out, err := execute(t, "topics", "get", "chat.direct.sent")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:        chat.direct.sent")

	_, err = execute(t, "topics", "get", "chat.nope")
	assert.ErrorContains(t, err, "not found")
}

func TestChat_RequiresUsername(t *testing.T) {
	_, err := execute(t, "chat")
	assert.ErrorContains(t, err, "--username is required")
}
