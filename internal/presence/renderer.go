package presence

import (
	"fmt"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/relay/internal/view"
)

// RosterRenderer renders the list of joined usernames as HTML.
// Modules can provide their own implementation to customize the UI.
type RosterRenderer func(users []string) templ.Component

// DefaultRenderer provides a simple, unstyled roster.
func DefaultRenderer(users []string) templ.Component {
	return view.AdaptGomponentToTempl(rosterList(users))
}

func rosterList(users []string) g.Node {
	var body g.Node
	if len(users) == 0 {
		body = h.P(g.Text("No users online"))
	} else {
		body = h.Ul(g.Map(users, func(u string) g.Node { return h.Li(g.Text(u)) }))
	}
	return h.Div(h.ID("online-users"),
		h.H3(g.Text(fmt.Sprintf("Online Users (%d)", len(users)))),
		body,
	)
}
