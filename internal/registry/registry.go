package registry

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/nfrund/relay/internal/config"
)

// Key is a type-safe, generic key for registering and retrieving services.
// The string value should be a unique identifier, e.g., "chat.router".
type Key[T any] string

// Registry lets modules share services by typed key. It is a thin typed
// layer over a samber/do injector: values can be registered eagerly with Set
// or lazily with Provide, and are built at most once.
type Registry struct {
	injector do.Injector
	cfg      config.Provider
}

// New creates a new registry with the application's configuration provider.
func New(cfg config.Provider) *Registry {
	return &Registry{
		injector: do.New(),
		cfg:      cfg,
	}
}

// Config returns the configuration provider stored in the registry.
func (r *Registry) Config() config.Provider {
	return r.cfg
}

// Injector exposes the underlying container for code that wants to use
// samber/do directly.
func (r *Registry) Injector() do.Injector {
	return r.injector
}

// Set registers a service instance against a type-safe key.
func Set[T any](r *Registry, key Key[T], value T) {
	do.ProvideNamedValue(r.injector, string(key), value)
}

// Provide registers a constructor that runs on first Get.
func Provide[T any](r *Registry, key Key[T], build func(r *Registry) (T, error)) {
	do.ProvideNamed(r.injector, string(key), func(do.Injector) (T, error) {
		return build(r)
	})
}

// Get retrieves a service, building it if it was registered with Provide.
func Get[T any](r *Registry, key Key[T]) (T, error) {
	v, err := do.InvokeNamed[T](r.injector, string(key))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("resolve %s: %w", key, err)
	}
	return v, nil
}

// MustGet retrieves a service or panics if not found. This is useful for
// wiring up essential dependencies at startup.
func MustGet[T any](r *Registry, key Key[T]) T {
	v, err := Get(r, key)
	if err != nil {
		panic(fmt.Sprintf("service not found for key %v: %v", key, err))
	}
	return v
}
