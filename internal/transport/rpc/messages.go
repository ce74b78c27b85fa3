package rpc

import "github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"

// CreateRoomRequest 建立房間
type CreateRoomRequest struct {
	Players []domain.PlayerID `json:"players"`
}

// CreateRoomResponse 建立房間回應
type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
}

// RoomRequest 只帶 RoomID 的請求 (DestroyRoom / GetRoom)
type RoomRequest struct {
	RoomID string `json:"room_id"`
}

// PlayerRequest 帶 RoomID + PlayerID 的請求 (Reconnect / Leave)
type PlayerRequest struct {
	RoomID   string          `json:"room_id"`
	PlayerID domain.PlayerID `json:"player_id"`
}

// InputRequest 投遞輸入
type InputRequest struct {
	RoomID   string          `json:"room_id"`
	PlayerID domain.PlayerID `json:"player_id"`
	Frame    int64           `json:"frame"`
	Input    domain.Input    `json:"input"`
}

// HashRequest 回報 Hash
type HashRequest struct {
	RoomID   string          `json:"room_id"`
	PlayerID domain.PlayerID `json:"player_id"`
	Frame    int64           `json:"frame"`
	Hash     uint64          `json:"hash"`
}

// ListRoomsResponse 房間列表
type ListRoomsResponse struct {
	Rooms []domain.RoomSummary `json:"rooms"`
}

// Empty 無內容
type Empty struct{}
