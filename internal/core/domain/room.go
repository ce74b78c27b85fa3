package domain

import "time"

// RoomStatus 房間狀態
type RoomStatus string

const (
	RoomStatusIdle    RoomStatus = "idle"
	RoomStatusTicking RoomStatus = "ticking"
	RoomStatusClosed  RoomStatus = "closed"
)

// EndReason 房間結束原因
type EndReason string

const (
	EndReasonDestroyed EndReason = "destroyed" // 上游明確結束
	EndReasonAllLeft   EndReason = "all_left"  // 所有玩家離開
	EndReasonAborted   EndReason = "aborted"   // 違反不變量，中止
	EndReasonShutdown  EndReason = "shutdown"  // 服務關閉
)

// RoomSummary 房間的唯讀摘要 (Admin API / 監控用)
type RoomSummary struct {
	RoomID             string     `json:"room_id"`
	Status             RoomStatus `json:"status"`
	Players            []PlayerID `json:"players"`
	Left               []PlayerID `json:"left,omitempty"`
	StartTime          time.Time  `json:"start_time"`
	TickMS             int64      `json:"tick_ms"`
	AuthoritativeFrame int64      `json:"authoritative_frame"`
	MaxFrame           int64      `json:"max_frame"`
	LastHash           uint64     `json:"last_hash"`
}

// RoomEntry 房間在服務目錄 (Redis) 中的登記資訊
type RoomEntry struct {
	RoomID    string     `json:"room_id"`
	Endpoint  string     `json:"endpoint"`
	Players   []PlayerID `json:"players"`
	StartTime int64      `json:"start_time"` // Unix 毫秒
}

// MatchRecord 對局結束時寫入外部儲存的紀錄
type MatchRecord struct {
	RoomID     string
	Players    []PlayerID
	StartTime  time.Time
	EndTime    time.Time
	FinalFrame int64
	FinalHash  uint64
	Reason     EndReason
}
