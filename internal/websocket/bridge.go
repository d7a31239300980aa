package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/relay/internal/domain"
	"github.com/nfrund/relay/internal/middleware"
	"github.com/nfrund/relay/internal/pubsub"
)

// FrameHandler consumes what the transport reads. Frames for one connection
// arrive sequentially from its read pump; HandleClose is called exactly once,
// after the last frame.
type FrameHandler interface {
	HandleFrame(ctx context.Context, conn domain.Connection, frame []byte)
	HandleClose(ctx context.Context, conn domain.Connection, reason string)
}

// Options tunes the transport.
type Options struct {
	SendBuffer   int
	ReadLimit    int64
	WriteTimeout time.Duration
	PingInterval time.Duration
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		SendBuffer:   256,
		ReadLimit:    4096,
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

// Bridge accepts websocket upgrades and pumps frames between each socket and
// a FrameHandler.
type Bridge struct {
	opts      Options
	clients   *ClientManager
	publisher pubsub.Publisher
	closing   atomic.Bool
	logger    *slog.Logger
}

// NewBridge creates a bridge. publisher may be nil, in which case no
// lifecycle events are published.
func NewBridge(opts Options, publisher pubsub.Publisher) *Bridge {
	def := DefaultOptions()
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = def.SendBuffer
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = def.ReadLimit
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = def.WriteTimeout
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = def.PingInterval
	}
	return &Bridge{
		opts:      opts,
		clients:   NewClientManager(),
		publisher: publisher,
		logger:    slog.Default().With("component", "websocket"),
	}
}

// Clients exposes the set of open connections.
func (b *Bridge) Clients() *ClientManager { return b.clients }

// Handler returns an echo.HandlerFunc that upgrades the request and serves
// the connection until it closes.
func (b *Bridge) Handler(h FrameHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		if b.closing.Load() {
			return c.String(http.StatusServiceUnavailable, "shutting down")
		}
		logger := middleware.FromContext(c.Request().Context())

		ws, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			// In a production environment, you should check the origin to prevent CSRF.
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("Failed to upgrade connection to WebSocket", "error", err)
			return nil
		}

		conn := newConn(uuid.NewString(), c.RealIP(), ws, b.opts.SendBuffer)
		b.Serve(conn, h)
		return nil
	}
}

// Serve runs the pumps for conn and blocks until it has closed.
func (b *Bridge) Serve(conn *Conn, h FrameHandler) {
	logger := b.logger.With("connID", conn.ID())
	b.clients.Add(conn)
	defer b.clients.Remove(conn.ID())

	// Pumps outlive the HTTP request; the session ends through Close only.
	ctx := context.Background()
	b.publish(ctx, TopicConnectionOpened.Name(), LifecycleEvent{ConnID: conn.ID(), RemoteAddr: conn.RemoteAddr()})
	logger.Debug("Client connected", "remoteAddr", conn.RemoteAddr())

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		b.writePump(conn, logger)
	}()

	b.readPump(ctx, conn, h, logger)
	<-writerDone

	reason := conn.CloseReason()
	h.HandleClose(ctx, conn, reason)
	b.publish(ctx, TopicConnectionClosed.Name(), LifecycleEvent{ConnID: conn.ID(), RemoteAddr: conn.RemoteAddr(), Reason: reason})
	logger.Debug("Client disconnected", "reason", reason)
}

// readPump delivers inbound frames until the socket fails or is closed.
func (b *Bridge) readPump(ctx context.Context, conn *Conn, h FrameHandler, logger *slog.Logger) {
	conn.ws.SetReadLimit(b.opts.ReadLimit)

	for {
		_, frame, err := conn.ws.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				logger.Debug("WebSocket closed normally")
			case websocket.StatusMessageTooBig:
				logger.Warn("Frame exceeded read limit", "limit", b.opts.ReadLimit)
			default:
				if !errors.Is(err, context.Canceled) {
					logger.Debug("WebSocket read ended", "error", err)
				}
			}
			// No-op if the session was already closed with a more specific reason.
			_ = conn.Close(domain.CloseReasonDisconnected)
			return
		}
		h.HandleFrame(ctx, conn, frame)
	}
}

// writePump drains the send queue, pings on an interval, and performs the
// close handshake once the connection is closed.
func (b *Bridge) writePump(conn *Conn, logger *slog.Logger) {
	ticker := time.NewTicker(b.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-conn.done:
			b.drain(conn, logger)
			if err := conn.ws.Close(websocket.StatusNormalClosure, conn.CloseReason()); err != nil {
				logger.Debug("Close handshake failed", "error", err)
				_ = conn.ws.CloseNow()
			}
			return

		case frame := <-conn.send:
			ctx, cancel := context.WithTimeout(context.Background(), b.opts.WriteTimeout)
			err := conn.ws.Write(ctx, websocket.MessageText, frame)
			cancel()
			if err != nil {
				logger.Debug("WebSocket write error", "error", err)
				_ = conn.Close(domain.CloseReasonDisconnected)
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), b.opts.WriteTimeout)
			err := conn.ws.Ping(ctx)
			cancel()
			if err != nil {
				logger.Debug("Keep-alive ping failed", "error", err)
				_ = conn.Close(domain.CloseReasonTimeout)
			}
		}
	}
}

// drain writes frames that were queued before the connection was closed.
func (b *Bridge) drain(conn *Conn, logger *slog.Logger) {
	for {
		select {
		case frame := <-conn.send:
			ctx, cancel := context.WithTimeout(context.Background(), b.opts.WriteTimeout)
			err := conn.ws.Write(ctx, websocket.MessageText, frame)
			cancel()
			if err != nil {
				logger.Debug("Dropping queued frames", "error", err)
				return
			}
		default:
			return
		}
	}
}

// Shutdown stops accepting connections, closes every open one with reason
// "shutdown" and waits for their close handling to finish.
func (b *Bridge) Shutdown(ctx context.Context) error {
	b.closing.Store(true)
	b.clients.CloseAll(domain.CloseReasonShutdown)
	return b.clients.WaitEmpty(ctx)
}

func (b *Bridge) publish(ctx context.Context, topic string, ev LifecycleEvent) {
	if b.publisher == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := b.publisher.Publish(ctx, pubsub.Message{
		Topic:    topic,
		Payload:  payload,
		Metadata: map[string]string{"conn_id": ev.ConnID},
	}); err != nil {
		b.logger.Warn("Failed to publish lifecycle event", "topic", topic, "error", err)
	}
}
