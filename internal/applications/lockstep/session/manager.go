package session

import (
	"sync"
	"sync/atomic"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
)

// Manager 以 PlayerID 為鍵管理所有已綁定的 Session。
// 它是 Thread-Safe 的，支援並發讀寫。
type Manager struct {
	sessions sync.Map // Map[domain.PlayerID]*Session
	count    int64    // 在線人數計數器
}

// NewManager 建立新的 Session 管理器
func NewManager() *Manager {
	return &Manager{}
}

// Bind 綁定玩家與連線；若該玩家已有舊連線，回傳被取代的 Session
func (m *Manager) Bind(sess *Session) (replaced *Session) {
	prev, loaded := m.sessions.Swap(sess.PlayerID, sess)
	if !loaded {
		atomic.AddInt64(&m.count, 1)
		return nil
	}
	return prev.(*Session)
}

// Unbind 解除綁定，只有當目前綁定的仍是 connID 這條連線時才會移除
func (m *Manager) Unbind(playerID domain.PlayerID, connID string) bool {
	val, ok := m.sessions.Load(playerID)
	if !ok {
		return false
	}
	sess := val.(*Session)
	if sess.ConnID() != connID {
		return false
	}
	if m.sessions.CompareAndDelete(playerID, sess) {
		atomic.AddInt64(&m.count, -1)
		return true
	}
	return false
}

// Get 取得玩家目前的 Session
func (m *Manager) Get(playerID domain.PlayerID) (*Session, bool) {
	val, ok := m.sessions.Load(playerID)
	if !ok {
		return nil, false
	}
	return val.(*Session), true
}

// Count 取得當前綁定人數
func (m *Manager) Count() int64 {
	return atomic.LoadInt64(&m.count)
}

// Range 遍歷所有 Session，handler 回傳 false 則停止遍歷
func (m *Manager) Range(handler func(s *Session) bool) {
	m.sessions.Range(func(_, value any) bool {
		return handler(value.(*Session))
	})
}
