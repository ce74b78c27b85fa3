package domain

// MessageKind 伺服器推播給客戶端的訊息種類
type MessageKind string

const (
	KindStart      MessageKind = "start"       // 房間開始
	KindFrame      MessageKind = "frame"       // 權威幀
	KindSnapshot   MessageKind = "snapshot"    // Hash 不一致時的狀態快照
	KindAdjustTime MessageKind = "adjust_time" // 客戶端時鐘校正
)

// FrameMessage 每個 Tick 廣播的權威幀
type FrameMessage struct {
	RoomID string             `json:"room_id"`
	Frame  int64              `json:"frame"`
	Inputs map[PlayerID]Input `json:"inputs"`
}

// SnapshotMessage Hash 不一致時推給該玩家的快照
type SnapshotMessage struct {
	RoomID   string   `json:"room_id"`
	PlayerID PlayerID `json:"player_id"`
	Frame    int64    `json:"frame"`
	Snapshot []byte   `json:"snapshot"`
}

// StartMessage 房間建立後推給所有參與者
type StartMessage struct {
	RoomID    string      `json:"room_id"`
	StartTime int64       `json:"start_time"` // Unix 毫秒
	TickMS    int64       `json:"tick_ms"`
	Units     []UnitState `json:"units"`
}

// AdjustTimeMessage 提示客戶端調整本地幀時鐘。
// DiffMS > 0 代表客戶端送得太早 (跑太快)，< 0 代表太晚。
type AdjustTimeMessage struct {
	RoomID string `json:"room_id"`
	Frame  int64  `json:"frame"`
	DiffMS int64  `json:"diff_ms"`
}

// ReconnectResponse 斷線重連回應
type ReconnectResponse struct {
	RoomID             string      `json:"room_id"`
	StartTime          int64       `json:"start_time"` // Unix 毫秒
	TickMS             int64       `json:"tick_ms"`
	AuthoritativeFrame int64       `json:"authoritative_frame"`
	Units              []UnitState `json:"units"`
}
