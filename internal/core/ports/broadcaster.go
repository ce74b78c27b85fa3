package ports

import (
	"context"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
)

// Broadcaster 將 Room 產生的訊息交給傳輸層投遞。
// 所有方法皆為 fire-and-forget，投遞失敗由傳輸層自行處理，不會回報給 Room。
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_broadcaster.go -package=mock_ports github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports Broadcaster
type Broadcaster interface {
	// BroadcastFrame 將權威幀送給指定玩家
	BroadcastFrame(ctx context.Context, to []domain.PlayerID, msg *domain.FrameMessage)

	// PushSnapshot Hash 不一致時推送快照給單一玩家
	PushSnapshot(ctx context.Context, to domain.PlayerID, msg *domain.SnapshotMessage)

	// PushStart 房間開始通知
	PushStart(ctx context.Context, to []domain.PlayerID, msg *domain.StartMessage)

	// PushAdjustTime 時鐘校正提示
	PushAdjustTime(ctx context.Context, to domain.PlayerID, msg *domain.AdjustTimeMessage)
}
