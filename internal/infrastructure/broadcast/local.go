package broadcast

import (
	"context"
	"log/slog"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/applications/lockstep/protocol"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/applications/lockstep/session"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
)

// Local 直接寫到本機 WebSocket Session 的 Broadcaster。
// 玩家不在線 (或連線在別的 Pod) 時訊息直接丟棄，客戶端靠 reconnect 追回進度。
type Local struct {
	sessions *session.Manager
	logger   *slog.Logger
}

var _ ports.Broadcaster = (*Local)(nil)

// NewLocal 建立本機廣播器
func NewLocal(sessions *session.Manager, logger *slog.Logger) *Local {
	return &Local{
		sessions: sessions,
		logger:   logger.With("component", "broadcast_local"),
	}
}

// BroadcastFrame 權威幀 (序列化一次，送給所有收件者)
func (l *Local) BroadcastFrame(_ context.Context, to []domain.PlayerID, msg *domain.FrameMessage) {
	l.Deliver(to, protocol.Marshal(protocol.PushFrame, msg, ""))
}

// PushSnapshot 推送快照給單一玩家
func (l *Local) PushSnapshot(_ context.Context, to domain.PlayerID, msg *domain.SnapshotMessage) {
	l.Deliver([]domain.PlayerID{to}, protocol.Marshal(protocol.PushSnapshot, msg, ""))
}

// PushStart 房間開始通知
func (l *Local) PushStart(_ context.Context, to []domain.PlayerID, msg *domain.StartMessage) {
	l.Deliver(to, protocol.Marshal(protocol.PushStart, msg, ""))
}

// PushAdjustTime 時鐘校正提示
func (l *Local) PushAdjustTime(_ context.Context, to domain.PlayerID, msg *domain.AdjustTimeMessage) {
	l.Deliver([]domain.PlayerID{to}, protocol.Marshal(protocol.PushAdjustTime, msg, ""))
}

// Deliver 把已序列化的訊息送給本機在線的玩家，回傳實際送達的人數
func (l *Local) Deliver(to []domain.PlayerID, body string) int {
	delivered := 0
	for _, playerID := range to {
		sess, ok := l.sessions.Get(playerID)
		if !ok {
			continue
		}
		if err := sess.Send(body); err != nil {
			l.logger.Debug("Deliver failed", "player_id", playerID, "error", err)
			continue
		}
		delivered++
	}
	return delivered
}
