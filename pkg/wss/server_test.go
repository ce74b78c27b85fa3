package wss

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoSubscriber struct {
	mu           sync.Mutex
	connected    []string
	disconnected []string
}

func (e *echoSubscriber) OnConnect(conn Client) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connected = append(e.connected, conn.ID())
	conn.SetTag("greeted", true)
}

func (e *echoSubscriber) OnDisconnect(conn Client) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disconnected = append(e.disconnected, conn.ID())
}

func (e *echoSubscriber) OnMessage(conn Client, msg []byte) {
	if string(msg) == "kick" {
		_ = conn.Kick("bye")
		return
	}
	v, _ := conn.GetTag("greeted")
	if greeted, _ := v.(bool); greeted {
		_ = conn.SendMessage("echo:" + string(msg))
	}
}

func (e *echoSubscriber) disconnectedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.disconnected)
}

func newTestServer(t *testing.T) (*Server, *echoSubscriber, string) {
	return newTestServerWithConfig(t, DefaultConfig())
}

func newTestServerWithConfig(t *testing.T, cfg *Config) (*Server, *echoSubscriber, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(ctx, cfg, logger)
	sub := &echoSubscriber{}
	srv.Register(sub)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, sub, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func TestServer_Echo(t *testing.T) {
	srv, sub, url := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "echo:hello", string(msg))
	assert.Equal(t, 1, srv.Online())

	sub.mu.Lock()
	assert.Len(t, sub.connected, 1)
	sub.mu.Unlock()
}

func TestServer_DisconnectNotifiesOnce(t *testing.T) {
	srv, sub, url := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return sub.disconnectedCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, srv.Online())
}

func TestServer_Kick(t *testing.T) {
	_, sub, url := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("kick")))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)

	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	assert.Equal(t, "bye", closeErr.Text)

	assert.Eventually(t, func() bool { return sub.disconnectedCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestServer_MaxConnections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConnections = 1
	srv, _, url := newTestServerWithConfig(t, cfg)

	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer first.Close()
	require.Eventually(t, func() bool { return srv.Online() == 1 }, 2*time.Second, 10*time.Millisecond)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_CheckOrigin(t *testing.T) {
	s := &Server{cfg: &Config{AllowedOrigins: []string{"https://game.example"}}}

	req := httptest.NewRequest("GET", "/ws", nil)
	assert.True(t, s.checkOrigin(req), "non-browser request")

	req.Header.Set("Origin", "https://game.example")
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, s.checkOrigin(req))

	s.cfg.AllowedOrigins = nil
	assert.False(t, s.checkOrigin(req))
}

func TestConnection_SendAfterClose(t *testing.T) {
	c := &connection{closed: make(chan struct{}), send: make(chan []byte, 1), logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	require.NoError(t, c.SendMessage("a"))
	assert.ErrorIs(t, c.SendMessage("b"), ErrSendBufferFull)

	c.shutdown()
	assert.ErrorIs(t, c.SendMessage("c"), ErrConnectionClosed)
	assert.ErrorIs(t, c.Kick("x"), ErrConnectionClosed)
}
