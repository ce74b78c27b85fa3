package domain

// UnitState 單位對外可見的狀態 (斷線重連時回傳給客戶端)
type UnitState struct {
	PlayerID PlayerID `json:"player_id"`
	X        int64    `json:"x"`
	Y        int64    `json:"y"`
	Yaw      int32    `json:"yaw"`
}
