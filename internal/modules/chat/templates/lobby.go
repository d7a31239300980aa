// Package templates holds the HTML served by the chat module.
package templates

import (
	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"

	"github.com/nfrund/relay/internal/view"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// LobbyProps configures the lobby page.
type LobbyProps struct {
	// WSPath is the websocket endpoint the page connects to.
	WSPath string
	// RosterPath is polled for the online users fragment.
	RosterPath string
	// Roster is the initial roster, shown until the first poll completes.
	Roster templ.Component
}

// Lobby is a minimal browser client: a join form, the message log, a message
// box and a roster that refreshes itself.
func Lobby(p LobbyProps) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:    "relay",
		Language: "en",
		Head: []g.Node{
			Script(Src(htmxSrc)),
		},
		Body: []g.Node{
			Main(
				H1(g.Text("relay")),
				Form(ID("join-form"),
					Input(ID("username"), Type("text"), Placeholder("username"), AutoComplete("off"), Required()),
					Button(Type("submit"), g.Text("Join")),
				),
				P(ID("status")),
				Div(ID("messages"), g.Attr("role", "log")),
				Form(ID("message-form"), g.Attr("hidden"),
					Input(ID("text"), Type("text"), Placeholder("message, or /w user text"), AutoComplete("off")),
					Button(Type("submit"), g.Text("Send")),
					Button(ID("leave"), Type("button"), g.Text("Leave")),
				),
				Aside(
					hx.Get(p.RosterPath),
					hx.Trigger("every 2s"),
					hx.Swap("innerHTML"),
					g.If(p.Roster != nil, view.AdaptTemplToGomponent(p.Roster)),
				),
			),
			Script(g.Raw(clientScript(p.WSPath))),
		},
	})
}

func clientScript(wsPath string) string {
	return `(() => {
  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const url = proto + "//" + location.host + "` + wsPath + `";
  const $ = (id) => document.getElementById(id);
  let ws;

  const log = (line) => {
    const p = document.createElement("p");
    p.textContent = line;
    $("messages").appendChild(p);
  };
  const send = (type, data) => ws.send(JSON.stringify({ type, data }));

  const render = {
    JOIN_CONFIRMATION: (d) => {
      $("join-form").hidden = true;
      $("message-form").hidden = false;
      $("status").textContent = "Joined as " + d.username;
      log("Online: " + d.users.map((u) => u.username).join(", "));
    },
    JOIN_REJECTION: (d) => { $("status").textContent = "Join rejected: " + d.reason; },
    USER_JOINED: (d) => log(d.username + " joined"),
    USER_LEFT: (d) => log(d.username + " left"),
    CHAT_MESSAGE_DELIVERY: (d) => log("[" + d.username + "] " + d.text),
    DIRECT_MESSAGE_DELIVERY: (d) => log("[" + d.from + " -> you] " + d.text),
    DIRECT_MESSAGE_ERROR: (d) => log("No such user: " + d.username),
  };

  $("join-form").addEventListener("submit", (e) => {
    e.preventDefault();
    const username = $("username").value;
    if (!ws || ws.readyState !== WebSocket.OPEN) {
      ws = new WebSocket(url);
      ws.onopen = () => send("JOIN_REQUEST", { username });
      ws.onmessage = (ev) => {
        const pkt = JSON.parse(ev.data);
        (render[pkt.type] || (() => {}))(pkt.data);
      };
      ws.onclose = () => {
        $("join-form").hidden = false;
        $("message-form").hidden = true;
        $("status").textContent = "Disconnected";
      };
    } else {
      send("JOIN_REQUEST", { username });
    }
  });

  $("message-form").addEventListener("submit", (e) => {
    e.preventDefault();
    const text = $("text").value;
    $("text").value = "";
    const dm = text.match(/^\/w\s+(\S+)\s+(.+)$/);
    if (dm) {
      send("DIRECT_MESSAGE", { to: dm[1], text: dm[2] });
      log("[you -> " + dm[1] + "] " + dm[2]);
    } else if (text.trim() !== "") {
      send("CHAT_MESSAGE", { text });
    }
  });

  $("leave").addEventListener("click", () => send("LEAVE_REQUEST", {}));
})();`
}
