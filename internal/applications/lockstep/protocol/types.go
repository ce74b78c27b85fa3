package protocol

import (
	"encoding/json"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
)

// Action 定義指令代碼 (使用 string 方便前端對接)
type Action string

const (
	ActionJoin      Action = "join"      // 加入房間並綁定連線
	ActionReconnect Action = "reconnect" // 斷線重連
	ActionInput     Action = "input"     // 上傳某幀的操作
	ActionHash      Action = "hash"      // 回報某幀的狀態 Hash
	ActionLeave     Action = "leave"     // 離開房間
)

// 伺服器主動推播使用的 Action (與 domain.MessageKind 對應)
const (
	PushStart      = Action(domain.KindStart)
	PushFrame      = Action(domain.KindFrame)
	PushSnapshot   = Action(domain.KindSnapshot)
	PushAdjustTime = Action(domain.KindAdjustTime)
)

// Envelope 基礎封包結構 (所有請求的外層包裝)
type Envelope struct {
	Action  Action          `json:"action"`            // 指令代碼
	Payload json.RawMessage `json:"payload,omitempty"` // 具體請求內容
}

// Response 通用回應結構 (回應與推播共用)
type Response struct {
	Action Action `json:"action"`          // 對應的指令代碼
	Data   any    `json:"data,omitempty"`  // 成功時的資料
	Error  string `json:"error,omitempty"` // 失敗時的錯誤訊息
}

// JoinReq 加入 / 重連請求
type JoinReq struct {
	RoomID   string          `json:"room_id"`
	PlayerID domain.PlayerID `json:"player_id"`
}

// RedirectResp 房間不在本機時，告知客戶端應連線的位置
type RedirectResp struct {
	RoomID   string `json:"room_id"`
	Endpoint string `json:"endpoint"`
}

// InputReq 上傳操作
type InputReq struct {
	Frame int64        `json:"frame"`
	Input domain.Input `json:"input"`
}

// HashReq 回報 Hash (以字串傳遞避免 JS 的 53-bit 精度問題)
type HashReq struct {
	Frame int64  `json:"frame"`
	Hash  uint64 `json:"hash,string"`
}

// LeaveResp 離開回應
type LeaveResp struct {
	RoomID string `json:"room_id"`
}

// Marshal 將回應序列化為文字訊息
func Marshal(action Action, data any, errMsg string) string {
	b, err := json.Marshal(Response{Action: action, Data: data, Error: errMsg})
	if err != nil {
		b, _ = json.Marshal(Response{Action: action, Error: "internal error"})
	}
	return string(b)
}
