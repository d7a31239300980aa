package app

import (
	"github.com/nfrund/relay/internal/module"
	"github.com/nfrund/relay/internal/modules/chat"
)

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules(deps Dependencies) []module.Module {
	return []module.Module{
		// Add new application modules here.
		chat.New(chat.Dependencies{
			Publisher:  deps.Publisher,
			Subscriber: deps.Subscriber,
			Renderer:   deps.Renderer,
			Presence:   deps.Presence,
			Hub:        deps.Hub,
			Parser:     deps.Parser,
			Bridge:     deps.Bridge,
			Roster:     deps.Roster,
		}),
	}
}
