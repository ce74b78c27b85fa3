package ports

import (
	"context"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
)

// RoomService 房間對外的操作入口。
// WebSocket Gateway、gRPC 與 Admin API 都只依賴此介面。
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_room_service.go -package=mock_ports github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports RoomService
type RoomService interface {
	// CreateRoom 依玩家列表建立房間，回傳 RoomID
	CreateRoom(ctx context.Context, players []domain.PlayerID) (string, error)

	// DestroyRoom 明確結束房間
	DestroyRoom(ctx context.Context, roomID string) error

	// InsertInput 投遞一筆輸入 (不等待處理結果)
	InsertInput(ctx context.Context, roomID string, playerID domain.PlayerID, frame int64, input domain.Input) error

	// CheckHash 客戶端回報的狀態 Hash
	CheckHash(ctx context.Context, roomID string, playerID domain.PlayerID, frame int64, hash uint64) error

	// Reconnect 斷線重連 (純讀取)
	Reconnect(ctx context.Context, roomID string, playerID domain.PlayerID) (*domain.ReconnectResponse, error)

	// Leave 玩家離開房間
	Leave(ctx context.Context, roomID string, playerID domain.PlayerID) error

	// ListRooms 目前本機承載的所有房間
	ListRooms(ctx context.Context) ([]domain.RoomSummary, error)

	// RoomSummary 單一房間摘要
	RoomSummary(ctx context.Context, roomID string) (*domain.RoomSummary, error)
}
