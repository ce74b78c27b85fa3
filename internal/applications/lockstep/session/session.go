package session

import (
	"time"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/pkg/wss"
)

// Session 代表一位已加入房間的玩家連線。
// 同一位玩家同時只會有一個 Session，重連時由新連線取代。
type Session struct {
	PlayerID domain.PlayerID
	RoomID   string
	BoundAt  time.Time
	conn     wss.Client
}

// NewSession 建立會話
//
// 參數:
//
//	conn: wss.Client - 底層 WebSocket 連線物件
//	playerID: domain.PlayerID - 綁定的玩家
//	roomID: string - 所在房間
func NewSession(conn wss.Client, playerID domain.PlayerID, roomID string) *Session {
	return &Session{
		PlayerID: playerID,
		RoomID:   roomID,
		BoundAt:  time.Now(),
		conn:     conn,
	}
}

// ConnID 底層連線 ID
func (s *Session) ConnID() string {
	return s.conn.ID()
}

// Send 發送訊息給此會話的客戶端
func (s *Session) Send(msg string) error {
	return s.conn.SendMessage(msg)
}

// Kick 強制中斷此會話
func (s *Session) Kick(reason string) error {
	return s.conn.Kick(reason)
}
