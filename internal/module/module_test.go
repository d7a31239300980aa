package module

import (
	"context"
	"errors"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/relay/internal/config"
	"github.com/nfrund/relay/internal/registry"
)

type recordingModule struct {
	BaseModule
	name        string
	bootErr     error
	shutdownErr error
	calls       *[]string
}

func (m *recordingModule) Name() string { return m.name }

func (m *recordingModule) Register(*registry.Registry) error {
	*m.calls = append(*m.calls, "register:"+m.name)
	return nil
}

func (m *recordingModule) Boot(context.Context, *echo.Group, *registry.Registry) error {
	*m.calls = append(*m.calls, "boot:"+m.name)
	return m.bootErr
}

func (m *recordingModule) Shutdown(context.Context) error {
	*m.calls = append(*m.calls, "shutdown:"+m.name)
	return m.shutdownErr
}

func TestInit_RegistersAllBeforeBooting(t *testing.T) {
	var calls []string
	mods := []Module{
		&recordingModule{name: "a", calls: &calls},
		&recordingModule{name: "b", calls: &calls},
	}

	err := Init(context.Background(), mods, echo.New().Group(""), registry.New(config.Default()))

	require.NoError(t, err)
	assert.Equal(t, []string{"register:a", "register:b", "boot:a", "boot:b"}, calls)
}

func TestInit_BootFailureShutsDownBootedModules(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	mods := []Module{
		&recordingModule{name: "a", calls: &calls},
		&recordingModule{name: "b", calls: &calls},
		&recordingModule{name: "c", calls: &calls, bootErr: boom},
		&recordingModule{name: "d", calls: &calls},
	}

	err := Init(context.Background(), mods, echo.New().Group(""), registry.New(config.Default()))

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "boot module c")
	assert.Equal(t, []string{
		"register:a", "register:b", "register:c", "register:d",
		"boot:a", "boot:b", "boot:c",
		"shutdown:b", "shutdown:a",
	}, calls)
}

func TestShutdownAll_ReverseOrderJoinsErrors(t *testing.T) {
	var calls []string
	errA, errC := errors.New("a failed"), errors.New("c failed")
	mods := []Module{
		&recordingModule{name: "a", calls: &calls, shutdownErr: errA},
		&recordingModule{name: "b", calls: &calls},
		&recordingModule{name: "c", calls: &calls, shutdownErr: errC},
	}

	err := ShutdownAll(context.Background(), mods)

	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errC)
	assert.Equal(t, []string{"shutdown:c", "shutdown:b", "shutdown:a"}, calls)
}

func TestBaseModule_NoOps(t *testing.T) {
	var m BaseModule
	assert.NoError(t, m.Register(nil))
	assert.NoError(t, m.Boot(context.Background(), nil, nil))
	assert.NoError(t, m.Shutdown(context.Background()))
}
