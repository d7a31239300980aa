// Package topicmgr keeps the catalogue of event-bus topics. Topics are
// declared once as typed values and registered with a Manager so that
// publishers, subscribers and the CLI agree on names without magic strings.
package topicmgr

import (
	"maps"
	"time"
)

// Topic is a typed event-bus topic.
type Topic interface {
	Name() string
	// Module returns the owning module; empty for framework topics.
	Module() string
	Description() string
	// Example is a sample payload, shown by `relay-cli topics list`.
	Example() string
	Metadata() map[string]any
	Scope() TopicScope
}

// TopicScope separates topics owned by the relay framework (transport,
// presence) from those owned by a feature module.
type TopicScope string

const (
	ScopeFramework TopicScope = "framework"
	ScopeModule    TopicScope = "module"
)

// TopicConfig describes a topic before it is defined.
type TopicConfig struct {
	Name        string
	Module      string
	Description string
	Example     string
	Metadata    map[string]any
}

// TypedTopic is the only Topic implementation.
type TypedTopic struct {
	cfg   TopicConfig
	scope TopicScope
}

var _ Topic = (*TypedTopic)(nil)

// DefineFramework declares a topic owned by the framework.
func DefineFramework(cfg TopicConfig) *TypedTopic {
	cfg.Module = ""
	return &TypedTopic{cfg: cfg, scope: ScopeFramework}
}

// DefineModule declares a topic owned by cfg.Module.
func DefineModule(cfg TopicConfig) *TypedTopic {
	return &TypedTopic{cfg: cfg, scope: ScopeModule}
}

func (t *TypedTopic) Name() string        { return t.cfg.Name }
func (t *TypedTopic) Module() string      { return t.cfg.Module }
func (t *TypedTopic) Description() string { return t.cfg.Description }
func (t *TypedTopic) Example() string     { return t.cfg.Example }
func (t *TypedTopic) Scope() TopicScope   { return t.scope }
func (t *TypedTopic) String() string      { return t.cfg.Name }

// Metadata returns a copy of the topic's metadata.
func (t *TypedTopic) Metadata() map[string]any {
	if t.cfg.Metadata == nil {
		return map[string]any{}
	}
	return maps.Clone(t.cfg.Metadata)
}

// RegistryEntry is a registered topic plus bookkeeping.
type RegistryEntry struct {
	Topic        Topic
	RegisteredAt time.Time
}

// ErrorType classifies a TopicError.
type ErrorType string

const (
	ErrorTopicNotFound         ErrorType = "topic_not_found"
	ErrorDuplicateRegistration ErrorType = "duplicate_registration"
	ErrorValidationFailed      ErrorType = "validation_failed"
)

// TopicError is returned by every Manager operation that fails.
type TopicError struct {
	Type    ErrorType
	Topic   string
	Module  string
	Message string
	Cause   error
}

func (e *TopicError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *TopicError) Unwrap() error { return e.Cause }
