package domain

import (
	"maps"
	"slices"
)

// PlayerID 玩家唯一標識符 (與 Central 發出的 User ID 相同)
type PlayerID string

// Button 操作按鍵位元
const (
	ButtonNone  int32 = 0
	ButtonDash  int32 = 1 << 0
	ButtonBrake int32 = 1 << 1
)

// Input 代表一位玩家在單一幀的操作紀錄。
// 固定大小的值型別，MoveX / MoveY 為 [-1000, 1000] 的定點數搖桿向量。
type Input struct {
	MoveX  int32 `json:"move_x"`
	MoveY  int32 `json:"move_y"`
	Button int32 `json:"button"`
}

// NeutralInput 回傳標準的「無操作」輸入，用於補幀
func NeutralInput() Input {
	return Input{}
}

// IsNeutral 是否為無操作
func (in Input) IsNeutral() bool {
	return in == Input{}
}

// FrameInputs 單一幀內所有玩家的輸入集合
type FrameInputs struct {
	Frame  int64              `json:"frame"`
	Inputs map[PlayerID]Input `json:"inputs"`
}

// NewFrameInputs 建立一個空的幀輸入集合
func NewFrameInputs(frame int64) *FrameInputs {
	return &FrameInputs{
		Frame:  frame,
		Inputs: make(map[PlayerID]Input),
	}
}

// Set 寫入 (或覆蓋) 玩家在此幀的輸入
func (f *FrameInputs) Set(playerID PlayerID, in Input) {
	f.Inputs[playerID] = in
}

// Get 取得玩家在此幀的輸入
func (f *FrameInputs) Get(playerID PlayerID) (Input, bool) {
	in, ok := f.Inputs[playerID]
	return in, ok
}

// Has 是否已有此玩家的輸入
func (f *FrameInputs) Has(playerID PlayerID) bool {
	_, ok := f.Inputs[playerID]
	return ok
}

// Len 已回報輸入的玩家數
func (f *FrameInputs) Len() int {
	return len(f.Inputs)
}

// PlayerIDs 依字典序回傳所有玩家 ID，確保遍歷順序具決定性
func (f *FrameInputs) PlayerIDs() []PlayerID {
	ids := slices.Collect(maps.Keys(f.Inputs))
	slices.Sort(ids)
	return ids
}

// Clone 深拷貝 (廣播用)。Input 為值型別，複製 map 即可切斷共享。
func (f *FrameInputs) Clone() *FrameInputs {
	return &FrameInputs{
		Frame:  f.Frame,
		Inputs: maps.Clone(f.Inputs),
	}
}

// Reset 清空並重新指定幀號，讓環狀緩衝區重用同一個物件
func (f *FrameInputs) Reset(frame int64) {
	f.Frame = frame
	clear(f.Inputs)
}
