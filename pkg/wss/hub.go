package wss

import (
	"context"
	"log/slog"
	"sync"
)

// hub 維護所有在線連線，並把連線事件轉交給 Subscriber
type hub struct {
	ctx    context.Context
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers []Subscriber
	clients     map[*connection]struct{}
	stopped     bool
}

func newHub(ctx context.Context, logger *slog.Logger) *hub {
	return &hub{
		ctx:     ctx,
		logger:  logger,
		clients: make(map[*connection]struct{}),
	}
}

func (h *hub) registerSubscriber(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers = append(h.subscribers, s)
}

// run 等待 ctx 結束後關閉所有連線
func (h *hub) run() {
	<-h.ctx.Done()

	h.mu.Lock()
	h.stopped = true
	for c := range h.clients {
		c.shutdown()
	}
	h.mu.Unlock()
	h.logger.Info("hub stopped")
}

// add 登記連線並觸發 OnConnect；hub 已停止時回傳 false
func (h *hub) add(c *connection) bool {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	subs := h.snapshotLocked()
	h.mu.Unlock()

	for _, s := range subs {
		s.OnConnect(c)
	}
	return true
}

// remove 註銷連線並觸發 OnDisconnect (同一連線只觸發一次)
func (h *hub) remove(c *connection) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	subs := h.snapshotLocked()
	h.mu.Unlock()

	if !ok {
		return
	}
	for _, s := range subs {
		s.OnDisconnect(c)
	}
}

// dispatch 在呼叫端 (readPump) 的 goroutine 上執行
func (h *hub) dispatch(c *connection, msg []byte) {
	h.mu.RLock()
	subs := h.snapshotLocked()
	h.mu.RUnlock()

	for _, s := range subs {
		s.OnMessage(c, msg)
	}
}

// count 目前在線連線數
func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) snapshotLocked() []Subscriber {
	out := make([]Subscriber, len(h.subscribers))
	copy(out, h.subscribers)
	return out
}
