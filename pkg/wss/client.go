package wss

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

//go:generate mockgen -destination=../../test/mocks/pkg/wss/mock_client.go -package=mock_wss github.com/JoeShih716/go-k8s-lockstep-server/pkg/wss Client

// ErrConnectionClosed 連線已關閉
var ErrConnectionClosed = errors.New("wss: connection closed")

// ErrSendBufferFull 待送佇列已滿 (客戶端讀取太慢)
var ErrSendBufferFull = errors.New("wss: send buffer full")

// Client 單一 WebSocket 連線對業務層公開的操作
type Client interface {
	ID() string
	SendMessage(msg string) error
	Kick(reason string) error
	SetTag(key string, value any)
	GetTag(key string) (any, bool)
}

type connection struct {
	id     string
	hub    *hub
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger

	tags sync.Map

	closeOnce sync.Once
	closed    chan struct{}
	kickMsg   []byte
	mu        sync.Mutex
}

var _ Client = (*connection)(nil)

func newConnection(h *hub, conn *websocket.Conn, r *http.Request, sendSize int, logger *slog.Logger) *connection {
	if sendSize <= 0 {
		sendSize = 256
	}
	id := uuid.New().String()
	return &connection{
		id:     id,
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendSize),
		closed: make(chan struct{}),
		logger: logger.With("conn_id", id, "remote", r.RemoteAddr),
	}
}

// ID 連線唯一識別碼
func (c *connection) ID() string {
	return c.id
}

// SendMessage 非阻塞地排入待送佇列
func (c *connection) SendMessage(msg string) error {
	select {
	case <-c.closed:
		return ErrConnectionClosed
	default:
	}
	select {
	case c.send <- []byte(msg):
		return nil
	default:
		c.logger.Warn("send buffer full, dropping message")
		return ErrSendBufferFull
	}
}

// Kick 送出 Close Frame 後中斷連線
func (c *connection) Kick(reason string) error {
	select {
	case <-c.closed:
		return ErrConnectionClosed
	default:
	}
	c.mu.Lock()
	c.kickMsg = websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	c.mu.Unlock()
	c.shutdown()
	return nil
}

// SetTag 附加業務資料到連線上
func (c *connection) SetTag(key string, value any) {
	c.tags.Store(key, value)
}

// GetTag 讀取連線上的業務資料
func (c *connection) GetTag(key string) (any, bool) {
	return c.tags.Load(key)
}

func (c *connection) shutdown() {
	c.closeOnce.Do(func() { close(c.closed) })
}

// readPump 讀取迴圈，結束時通知 hub 註銷
func (c *connection) readPump(cfg *Config) {
	defer func() {
		c.hub.remove(c)
		c.shutdown()
		_ = c.conn.Close()
	}()

	if cfg.MaxMessageSize > 0 {
		c.conn.SetReadLimit(cfg.MaxMessageSize)
	}
	if cfg.PongWait > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		})
	}

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected close", "error", err)
			}
			return
		}
		c.hub.dispatch(c, msg)
	}
}

// writePump 唯一的寫入者，負責訊息、Ping 與關閉
func (c *connection) writePump(cfg *Config) {
	var tick <-chan time.Time
	if cfg.PingPeriod > 0 {
		ticker := time.NewTicker(cfg.PingPeriod)
		defer ticker.Stop()
		tick = ticker.C
	}
	defer func() { _ = c.conn.Close() }()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(deadline(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.shutdown()
				return
			}
		case <-tick:
			_ = c.conn.SetWriteDeadline(deadline(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown()
				return
			}
		case <-c.closed:
			c.mu.Lock()
			payload := c.kickMsg
			c.mu.Unlock()
			if payload == nil {
				payload = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			}
			_ = c.conn.WriteControl(websocket.CloseMessage, payload, deadline(cfg.WriteWait))
			return
		}
	}
}

func deadline(wait time.Duration) time.Time {
	if wait <= 0 {
		return time.Time{}
	}
	return time.Now().Add(wait)
}
