package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/relay/internal/config"
	"github.com/nfrund/relay/internal/registry"
)

func TestNewDependencies(t *testing.T) {
	reg := registry.New(config.Default())

	deps, cleanup, err := NewDependencies(context.Background(), reg)
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, deps.Publisher)
	assert.NotNil(t, deps.Subscriber)
	assert.NotNil(t, deps.Renderer)
	assert.NotNil(t, deps.Presence)
	assert.NotNil(t, deps.Hub)
	assert.NotNil(t, deps.Parser)
	assert.NotNil(t, deps.Bridge)
	assert.NotNil(t, deps.Roster)

	// Services resolve to the same instances through the registry.
	assert.Same(t, deps.Presence, registry.MustGet(reg, registry.PresenceKey))
	assert.Same(t, deps.Bridge, registry.MustGet(reg, registry.BridgeKey))
	assert.Same(t, deps.TopicMgr, registry.MustGet(reg, registry.TopicManagerKey))
}

func TestNewModules(t *testing.T) {
	reg := registry.New(config.Default())
	deps, cleanup, err := NewDependencies(context.Background(), reg)
	require.NoError(t, err)
	defer cleanup()

	mods := NewModules(deps)
	require.Len(t, mods, 1)
	assert.Equal(t, "chat", mods[0].Name())

	for _, name := range []string{"chat.user.joined", "chat.user.left", "chat.message.sent", "chat.direct.sent", "ws.connection.opened"} {
		_, ok := deps.TopicMgr.Get(name)
		assert.True(t, ok, name)
	}
}
