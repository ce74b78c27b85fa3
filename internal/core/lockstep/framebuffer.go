package lockstep

import (
	"bytes"
	"fmt"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
)

// FrameBuffer 以幀號為索引的輸入緩衝區，附帶每幀模擬結果 (Hash / Snapshot) 的保留窗口。
//
// 兩個環狀陣列:
//   - inputs: 容納 [ConsumedFrame-retention, ConsumedFrame+lookahead] 的輸入集合
//   - states: 容納最近 retention+1 幀的模擬結果
//
// 非 Thread-Safe，只能在所屬 Room 的 goroutine 內使用。
type FrameBuffer struct {
	retention int64
	lookahead int64

	inputs []*domain.FrameInputs
	states []stateSlot

	maxFrame      int64
	consumedFrame int64
	stateFrame    int64

	released bool
}

type stateSlot struct {
	frame    int64
	hash     uint64
	snapshot []byte
}

// NewFrameBuffer 建立緩衝區
//
// 參數:
//
//	retention: int - 保留的歷史幀數 (W)
//	lookahead: int - 可預先寫入的未來幀數 (至少 1)
func NewFrameBuffer(retention, lookahead int) *FrameBuffer {
	if retention < 0 {
		retention = 0
	}
	if lookahead < 1 {
		lookahead = 1
	}
	states := make([]stateSlot, retention+1)
	for i := range states {
		states[i].frame = -1
	}
	return &FrameBuffer{
		retention:     int64(retention),
		lookahead:     int64(lookahead),
		inputs:        make([]*domain.FrameInputs, retention+lookahead+1),
		states:        states,
		maxFrame:      -1,
		consumedFrame: -1,
		stateFrame:    -1,
	}
}

// MaxFrame 最高的已知幀號 (high-water mark)
func (b *FrameBuffer) MaxFrame() int64 {
	return b.maxFrame
}

// ConsumedFrame 已消化的幀號 (low-water mark)
func (b *FrameBuffer) ConsumedFrame() int64 {
	return b.consumedFrame
}

// Retention 保留窗口大小
func (b *FrameBuffer) Retention() int64 {
	return b.retention
}

// Lookahead 預讀窗口大小
func (b *FrameBuffer) Lookahead() int64 {
	return b.lookahead
}

// Insert 紀錄某位玩家在某一幀的輸入。
// 已消化的幀回傳 ErrLateInput，超過預讀窗口回傳 ErrInputTooFarAhead，兩者皆非致命。
func (b *FrameBuffer) Insert(frame int64, playerID domain.PlayerID, in domain.Input) error {
	if b.released {
		return ErrBufferReleased
	}
	if frame <= b.consumedFrame {
		return fmt.Errorf("%w: frame %d, consumed %d", ErrLateInput, frame, b.consumedFrame)
	}
	if frame > b.consumedFrame+b.lookahead {
		return fmt.Errorf("%w: frame %d, consumed %d", ErrInputTooFarAhead, frame, b.consumedFrame)
	}

	b.slot(frame).Set(playerID, in)
	if frame > b.maxFrame {
		b.maxFrame = frame
	}
	return nil
}

// FrameInputs 取得某幀 (可能不完整) 的輸入集合，永不阻塞。
// 在可寫入窗口內會回傳緩衝區自己持有的集合，對它的寫入 (補幀) 會被保留下來，
// 其他情況回傳一個與緩衝區無關的集合 (已保留的歷史幀或空集合)。
func (b *FrameBuffer) FrameInputs(frame int64) *domain.FrameInputs {
	if b.released || frame < 0 {
		return domain.NewFrameInputs(frame)
	}
	if frame > b.consumedFrame && frame <= b.consumedFrame+b.lookahead {
		return b.slot(frame)
	}
	if set := b.lookup(frame); set != nil {
		return set.Clone()
	}
	return domain.NewFrameInputs(frame)
}

// CheckFrame 該幀是否已有任何輸入紀錄
func (b *FrameBuffer) CheckFrame(frame int64) bool {
	set := b.lookup(frame)
	return set != nil && set.Len() > 0
}

// MoveForward 推進消化指標，低於它的幀變成可淘汰。
// 倒退或原地踏步代表排程錯誤，回傳 ErrInvariantViolation。
func (b *FrameBuffer) MoveForward(frame int64) error {
	if b.released {
		return ErrBufferReleased
	}
	if frame <= b.consumedFrame {
		return fmt.Errorf("%w: move forward to %d, consumed %d", ErrInvariantViolation, frame, b.consumedFrame)
	}
	b.consumedFrame = frame
	if frame > b.maxFrame {
		b.maxFrame = frame
	}
	return nil
}

// RecordState 紀錄某幀套用後的模擬結果，幀號必須嚴格遞增
func (b *FrameBuffer) RecordState(frame int64, hash uint64, snapshot []byte) error {
	if b.released {
		return ErrBufferReleased
	}
	if frame <= b.stateFrame {
		return fmt.Errorf("%w: record state %d, last %d", ErrInvariantViolation, frame, b.stateFrame)
	}
	s := &b.states[frame%int64(len(b.states))]
	s.frame = frame
	s.hash = hash
	s.snapshot = snapshot
	b.stateFrame = frame
	return nil
}

// StateFrame 最後紀錄結果的幀號
func (b *FrameBuffer) StateFrame() int64 {
	return b.stateFrame
}

// Hash 取得某幀的權威 Hash。
// ok=false 代表該幀尚未產生 (不是錯誤)；已淘汰回傳 ErrFrameNotRetained。
func (b *FrameBuffer) Hash(frame int64) (uint64, bool, error) {
	s, ok, err := b.state(frame)
	if err != nil || !ok {
		return 0, ok, err
	}
	return s.hash, true, nil
}

// Snapshot 取得某幀的快照 (複本)，語意同 Hash
func (b *FrameBuffer) Snapshot(frame int64) ([]byte, bool, error) {
	s, ok, err := b.state(frame)
	if err != nil || !ok {
		return nil, ok, err
	}
	return bytes.Clone(s.snapshot), true, nil
}

// Release 釋放所有保留資料，之後的寫入都會失敗
func (b *FrameBuffer) Release() {
	b.released = true
	b.inputs = nil
	b.states = nil
}

func (b *FrameBuffer) state(frame int64) (*stateSlot, bool, error) {
	if b.released {
		return nil, false, ErrBufferReleased
	}
	if frame > b.stateFrame {
		return nil, false, nil
	}
	if frame < 0 || frame < b.stateFrame-b.retention {
		return nil, false, fmt.Errorf("%w: frame %d, authoritative %d, window %d", ErrFrameNotRetained, frame, b.stateFrame, b.retention)
	}
	s := &b.states[frame%int64(len(b.states))]
	if s.frame != frame {
		return nil, false, fmt.Errorf("%w: frame %d", ErrFrameNotRetained, frame)
	}
	return s, true, nil
}

// slot 取得 (必要時重用) 幀的環狀陣列位置
func (b *FrameBuffer) slot(frame int64) *domain.FrameInputs {
	idx := frame % int64(len(b.inputs))
	set := b.inputs[idx]
	switch {
	case set == nil:
		set = domain.NewFrameInputs(frame)
		b.inputs[idx] = set
	case set.Frame != frame:
		set.Reset(frame)
	}
	return set
}

func (b *FrameBuffer) lookup(frame int64) *domain.FrameInputs {
	if b.released || frame < 0 {
		return nil
	}
	set := b.inputs[frame%int64(len(b.inputs))]
	if set == nil || set.Frame != frame {
		return nil
	}
	return set
}
