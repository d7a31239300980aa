package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/relay/internal/config"
)

type greeter struct{ name string }

var (
	greeterKey Key[*greeter] = "test.greeter"
	lazyKey    Key[*greeter] = "test.lazy"
	failingKey Key[string]   = "test.failing"
)

func TestRegistry_SetGet(t *testing.T) {
	r := New(config.Default())
	Set(r, greeterKey, &greeter{name: "alice"})

	g, err := Get(r, greeterKey)
	require.NoError(t, err)
	assert.Equal(t, "alice", g.name)
	assert.Equal(t, ":8080", r.Config().GetAddr())
}

func TestRegistry_ProvideIsLazyAndSingleton(t *testing.T) {
	r := New(config.Default())
	calls := 0
	Provide(r, lazyKey, func(*Registry) (*greeter, error) {
		calls++
		return &greeter{name: "lazy"}, nil
	})
	assert.Zero(t, calls)

	a := MustGet(r, lazyKey)
	b := MustGet(r, lazyKey)
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)
}

func TestRegistry_Missing(t *testing.T) {
	r := New(config.Default())
	_, err := Get(r, greeterKey)
	assert.Error(t, err)
	assert.Panics(t, func() { MustGet(r, greeterKey) })
}

func TestRegistry_ProvideError(t *testing.T) {
	r := New(config.Default())
	boom := errors.New("boom")
	Provide(r, failingKey, func(*Registry) (string, error) { return "", boom })

	_, err := Get(r, failingKey)
	assert.ErrorIs(t, err, boom)
}
