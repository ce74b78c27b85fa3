package ports

import (
	"context"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
)

// RoomDirectory 紀錄房間由哪個 Pod 承載，讓任何 Gateway 都能找到重連目標
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_room_directory.go -package=mock_ports github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports RoomDirectory
type RoomDirectory interface {
	// Register 登記房間 (附帶 TTL)
	Register(ctx context.Context, entry *domain.RoomEntry) error

	// Heartbeat 續約。若登記已過期回傳 ErrDirectoryEntryMissing，呼叫端應重新 Register
	Heartbeat(ctx context.Context, roomID string) error

	// Deregister 移除登記 (不存在視為成功)
	Deregister(ctx context.Context, roomID string) error

	// Lookup 查詢房間所在位置
	Lookup(ctx context.Context, roomID string) (*domain.RoomEntry, error)
}

// MatchArchive 對局結束後的持久化 (外部協作者)
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_match_archive.go -package=mock_ports github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports MatchArchive
type MatchArchive interface {
	Save(ctx context.Context, record *domain.MatchRecord) error
}
