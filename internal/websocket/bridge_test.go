package websocket_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/relay/internal/domain"
	"github.com/nfrund/relay/internal/pubsub"
	ws "github.com/nfrund/relay/internal/websocket"
)

// recordingHandler echoes every frame back and records close events.
type recordingHandler struct {
	mu     sync.Mutex
	conns  []domain.Connection
	frames []string
	closes map[string]string
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{closes: make(map[string]string)}
}

func (h *recordingHandler) HandleFrame(_ context.Context, conn domain.Connection, frame []byte) {
	h.mu.Lock()
	h.frames = append(h.frames, string(frame))
	h.conns = append(h.conns, conn)
	h.mu.Unlock()

	switch string(frame) {
	case "leave":
		_ = conn.Close(domain.CloseReasonLeaving)
	default:
		_ = conn.Send([]byte("echo:" + string(frame)))
	}
}

func (h *recordingHandler) HandleClose(_ context.Context, conn domain.Connection, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closes[conn.ID()] = reason
}

func (h *recordingHandler) closeReasons() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.closes))
	for _, r := range h.closes {
		out = append(out, r)
	}
	return out
}

// mockPublisher records published messages.
type mockPublisher struct {
	mu   sync.Mutex
	msgs []pubsub.Message
}

func (m *mockPublisher) Publish(_ context.Context, msg pubsub.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.msgs))
	for _, msg := range m.msgs {
		out = append(out, msg.Topic)
	}
	return out
}

type testFixture struct {
	bridge  *ws.Bridge
	handler *recordingHandler
	pub     *mockPublisher
	server  *httptest.Server
	url     string
}

func newFixture(t *testing.T, opts ws.Options) *testFixture {
	t.Helper()
	pub := &mockPublisher{}
	bridge := ws.NewBridge(opts, pub)
	handler := newRecordingHandler()

	e := echo.New()
	e.GET("/ws", bridge.Handler(handler))
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return &testFixture{
		bridge:  bridge,
		handler: handler,
		pub:     pub,
		server:  server,
		url:     "ws" + strings.TrimPrefix(server.URL, "http") + "/ws",
	}
}

func (f *testFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, f.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.CloseNow() })
	return c
}

func read(t *testing.T, c *websocket.Conn) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := c.Read(ctx)
	return string(data), err
}

func write(t *testing.T, c *websocket.Conn, msg string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(msg)))
}

func TestBridge_FramesRoundTrip(t *testing.T) {
	f := newFixture(t, ws.DefaultOptions())
	c := f.dial(t)

	write(t, c, "hello")
	got, err := read(t, c)
	require.NoError(t, err)
	assert.Equal(t, "echo:hello", got)

	write(t, c, "again")
	got, err = read(t, c)
	require.NoError(t, err)
	assert.Equal(t, "echo:again", got)

	assert.Equal(t, 1, f.bridge.Clients().Len())
}

func TestBridge_ServerCloseCarriesReason(t *testing.T) {
	f := newFixture(t, ws.DefaultOptions())
	c := f.dial(t)

	write(t, c, "leave")
	_, err := read(t, c)
	require.Error(t, err)

	var ce websocket.CloseError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, websocket.StatusNormalClosure, ce.Code)
	assert.Equal(t, "leaving", ce.Reason)

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"leaving"}, f.handler.closeReasons())
	}, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return f.bridge.Clients().Len() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestBridge_ClientDisconnect(t *testing.T) {
	f := newFixture(t, ws.DefaultOptions())
	c := f.dial(t)
	write(t, c, "hi")
	_, err := read(t, c)
	require.NoError(t, err)

	require.NoError(t, c.Close(websocket.StatusNormalClosure, "bye"))

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{domain.CloseReasonDisconnected}, f.handler.closeReasons())
	}, 5*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"ws.connection.opened", "ws.connection.closed"}, f.pub.topics())
	}, 5*time.Second, 10*time.Millisecond)
}

func TestBridge_ReadLimit(t *testing.T) {
	opts := ws.DefaultOptions()
	opts.ReadLimit = 16
	f := newFixture(t, opts)
	c := f.dial(t)

	write(t, c, strings.Repeat("x", 64))
	_, err := read(t, c)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusMessageTooBig, websocket.CloseStatus(err))

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{domain.CloseReasonDisconnected}, f.handler.closeReasons())
	}, 5*time.Second, 10*time.Millisecond)
}

func TestBridge_PingTimeout(t *testing.T) {
	opts := ws.DefaultOptions()
	opts.PingInterval = 50 * time.Millisecond
	opts.WriteTimeout = 100 * time.Millisecond
	f := newFixture(t, opts)

	// Never reading means pongs are never sent back.
	f.dial(t)

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{domain.CloseReasonTimeout}, f.handler.closeReasons())
	}, 15*time.Second, 20*time.Millisecond)
}

func TestBridge_Shutdown(t *testing.T) {
	f := newFixture(t, ws.DefaultOptions())
	c1, c2 := f.dial(t), f.dial(t)
	for _, c := range []*websocket.Conn{c1, c2} {
		write(t, c, "ping")
		_, err := read(t, c)
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, f.bridge.Shutdown(ctx))

	assert.Equal(t, []string{"shutdown", "shutdown"}, f.handler.closeReasons())
	assert.Equal(t, 0, f.bridge.Clients().Len())

	_, _, err := websocket.Dial(context.Background(), f.url, nil)
	assert.Error(t, err)
}
