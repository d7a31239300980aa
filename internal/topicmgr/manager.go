package topicmgr

import (
	"fmt"
	"strings"
	"sync"
)

// Manager validates and registers topics.
type Manager struct {
	registry  *Registry
	validator *Validator
}

// NewManager creates a new topic manager with registry and validator
func NewManager() *Manager {
	return &Manager{
		registry:  NewRegistry(),
		validator: NewValidator(),
	}
}

// Register validates topic and adds it to the catalogue.
func (m *Manager) Register(topic Topic) error {
	if err := m.validator.ValidateDefinition(topic); err != nil {
		te := &TopicError{
			Type:    ErrorValidationFailed,
			Message: "topic validation failed",
			Cause:   err,
		}
		if topic != nil {
			te.Topic, te.Module = topic.Name(), topic.Module()
		}
		return te
	}
	return m.registry.Register(topic)
}

// MustRegister registers a topic and panics on error (for static initialization)
func (m *Manager) MustRegister(topic Topic) {
	if err := m.Register(topic); err != nil {
		panic(fmt.Sprintf("failed to register topic %s: %v", topic.Name(), err))
	}
}

func (m *Manager) Get(name string) (Topic, bool) {
	return m.registry.Get(name)
}

// List returns all registered topics sorted by name.
func (m *Manager) List() []Topic {
	return m.registry.List(nil)
}

func (m *Manager) ListByModule(module string) []Topic {
	return m.registry.List(func(t Topic) bool { return t.Module() == module })
}

func (m *Manager) ListByScope(scope TopicScope) []Topic {
	return m.registry.List(func(t Topic) bool { return t.Scope() == scope })
}

// FindTopics returns topics matching pattern. A trailing '*' matches any suffix.
func (m *Manager) FindTopics(pattern string) []Topic {
	return m.registry.List(func(t Topic) bool { return matchesPattern(t.Name(), pattern) })
}

func (m *Manager) Count() int {
	return m.registry.Count()
}

// Reset removes all registered topics (primarily for testing)
func (m *Manager) Reset() {
	m.registry.Reset()
}

func matchesPattern(name, pattern string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(name, prefix)
	}
	return name == pattern
}

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

// Default returns the process-wide manager that package init functions
// register their topics with.
func Default() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}
