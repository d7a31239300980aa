// Package chatclient is a terminal client for the relay websocket protocol.
package chatclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/coder/websocket"

	"github.com/nfrund/relay/internal/packet"
)

// Client is one websocket session with a relay server.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the relay websocket endpoint at url.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Send encodes and writes one packet.
func (c *Client) Send(ctx context.Context, p packet.Client) error {
	raw, err := packet.EncodeClient(p)
	if err != nil {
		return err
	}
	return c.conn.Write(ctx, websocket.MessageText, raw)
}

// Close closes the connection without waiting for the server.
func (c *Client) Close() error {
	return c.conn.CloseNow()
}

// Run joins as username, then prints every server packet to out and sends
// each line read from in. It returns nil when the server closes the session
// normally or ctx is cancelled. End of input sends a leave request.
func (c *Client) Run(ctx context.Context, username string, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := c.Send(ctx, packet.JoinRequest{Username: username}); err != nil {
		return fmt.Errorf("join: %w", err)
	}

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			p, ok := ParseLine(scanner.Text())
			if !ok {
				continue
			}
			if err := c.Send(ctx, p); err != nil {
				return
			}
		}
		_ = c.Send(ctx, packet.LeaveRequest{})
	}()

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return err
		}
		p, err := packet.DecodeServer(data)
		if err != nil {
			fmt.Fprintf(out, "? %s\n", data)
			continue
		}
		fmt.Fprintln(out, Format(p))
	}
}

// ParseLine turns one line of user input into a packet:
//
//	/w <user> <text>   direct message
//	/join <name>       join, e.g. after a rejected name
//	/leave             leave the chat
//	anything else      chat message
//
// Blank lines and malformed commands yield ok == false.
func ParseLine(line string) (p packet.Client, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false
	}
	if !strings.HasPrefix(line, "/") {
		return packet.ChatMessage{Text: line}, true
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch cmd {
	case "/w":
		to, text, _ := strings.Cut(rest, " ")
		text = strings.TrimSpace(text)
		if to == "" || text == "" {
			return nil, false
		}
		return packet.DirectMessage{To: to, Text: text}, true
	case "/join":
		if rest == "" {
			return nil, false
		}
		return packet.JoinRequest{Username: rest}, true
	case "/leave":
		return packet.LeaveRequest{}, true
	default:
		return nil, false
	}
}

// Format renders a server packet as one line of terminal output.
func Format(p packet.Server) string {
	switch v := p.(type) {
	case packet.JoinConfirmation:
		names := make([]string, len(v.Users))
		for i, u := range v.Users {
			names[i] = u.Username
		}
		return fmt.Sprintf("Joined as %s. Online: %s", v.Username, strings.Join(names, ", "))
	case packet.JoinRejection:
		return "Join rejected: " + v.Reason
	case packet.UserJoined:
		return v.Username + " joined"
	case packet.UserLeft:
		return v.Username + " left"
	case packet.ChatMessageDelivery:
		return fmt.Sprintf("[%s] %s", v.Username, v.Text)
	case packet.DirectMessageDelivery:
		return fmt.Sprintf("[%s -> you] %s", v.From, v.Text)
	case packet.DirectMessageError:
		return "No such user: " + v.Username
	default:
		return fmt.Sprintf("%s %+v", p.Type(), p)
	}
}
