package websocket

import (
	"sync"

	"github.com/coder/websocket"

	"github.com/nfrund/relay/internal/domain"
)

// Conn is one accepted websocket session. It implements domain.Connection.
// Outbound frames are queued on send and written by the bridge's write pump;
// done is closed exactly once, by the first Close.
type Conn struct {
	id         string
	remoteAddr string
	ws         *websocket.Conn

	send chan []byte
	done chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	reason    string
}

var _ domain.Connection = (*Conn)(nil)

func newConn(id, remoteAddr string, ws *websocket.Conn, buffer int) *Conn {
	return &Conn{
		id:         id,
		remoteAddr: remoteAddr,
		ws:         ws,
		send:       make(chan []byte, buffer),
		done:       make(chan struct{}),
	}
}

func (c *Conn) ID() string { return c.id }

// RemoteAddr is the peer address reported at accept time.
func (c *Conn) RemoteAddr() string { return c.remoteAddr }

// Send queues frame without blocking.
func (c *Conn) Send(frame []byte) error {
	select {
	case <-c.done:
		return domain.ErrConnectionClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return domain.ErrConnectionClosed
	default:
		return domain.ErrSendBufferFull
	}
}

// Close marks the connection closed with reason. Only the first call's reason
// is kept; the write pump then performs the websocket close handshake.
func (c *Conn) Close(reason string) error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.reason = reason
		c.mu.Unlock()
		close(c.done)
	})
	return nil
}

// Done is closed once Close has been called.
func (c *Conn) Done() <-chan struct{} { return c.done }

// CloseReason returns the reason passed to the first Close, or "".
func (c *Conn) CloseReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}
