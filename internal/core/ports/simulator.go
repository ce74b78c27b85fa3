package ports

import "github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"

// Simulator 決定性模擬的抽象 (物理 / AI 步進由實作方負責)。
// Room 只透過此介面推進狀態，不關心遊戲規則。
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_simulator.go -package=mock_ports github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports Simulator
type Simulator interface {
	// Advance 套用一幀完整的輸入，回傳套用後的狀態 Hash
	//
	// 參數:
	//
	//	inputs: *domain.FrameInputs - 每位參與者恰好一筆輸入
	//
	// 回傳值:
	//
	//	uint64: 狀態 Hash (僅用於比對)
	//	error: 幀號不連續或輸入不完整
	Advance(inputs *domain.FrameInputs) (uint64, error)

	// Hash 目前狀態的 Hash
	Hash() uint64

	// Snapshot 將目前狀態序列化，讓客戶端可以不重播直接接續
	Snapshot() ([]byte, error)

	// Units 目前每個單位對外可見的狀態
	Units() []domain.UnitState

	// Frame 最後一次套用的幀號 (genesis 為 0)
	Frame() int64

	// Close 釋放模擬資源
	Close() error
}

// SimulatorFactory 依參與者列表建立 genesis 狀態的模擬器
type SimulatorFactory func(players []domain.PlayerID) (Simulator, error)
