package kinematics

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
)

var (
	// ErrFrameGap Advance 收到的不是下一幀
	ErrFrameGap = errors.New("kinematics: frame is not the next frame")
	// ErrIncompleteInputs 輸入集合與單位不一致 (缺人或多出非參與者)
	ErrIncompleteInputs = errors.New("kinematics: input set does not match units")
	// ErrDuplicatePlayer 建立世界時玩家重複
	ErrDuplicatePlayer = errors.New("kinematics: duplicate player")
	// ErrWorldClosed Close 之後仍被呼叫
	ErrWorldClosed = errors.New("kinematics: world closed")
	// ErrMalformedSnapshot 快照無法解碼
	ErrMalformedSnapshot = errors.New("kinematics: malformed snapshot")
)

// 搖桿向量的定點數範圍
const stickScale = 1000

// Config 世界參數 (全部為定點整數，避免浮點誤差造成不同平台結果不一)
type Config struct {
	Speed   int64 // 滿搖桿時每幀移動量
	Bound   int64 // 座標邊界 [-Bound, Bound]
	Spacing int64 // 出生點間距
}

// DefaultConfig 預設參數
func DefaultConfig() Config {
	return Config{
		Speed:   120,
		Bound:   1_000_000,
		Spacing: 2_000,
	}
}

type unit struct {
	id  domain.PlayerID
	x   int64
	y   int64
	yaw int32
}

// World 以定點數運算的簡易運動學模擬。
// 相同的 genesis 與相同的輸入序列，必定產生位元組完全相同的狀態。
type World struct {
	cfg    Config
	frame  int64
	units  []unit // 依 PlayerID 排序
	closed bool
}

var _ ports.Simulator = (*World)(nil)

// NewWorld 建立 genesis 狀態的世界 (frame = 0)
func NewWorld(cfg Config, players []domain.PlayerID) (*World, error) {
	ids := slices.Clone(players)
	slices.Sort(ids)
	if len(slices.Compact(slices.Clone(ids))) != len(ids) {
		return nil, ErrDuplicatePlayer
	}

	units := make([]unit, len(ids))
	for i, id := range ids {
		units[i] = unit{
			id: id,
			x:  int64(i) * cfg.Spacing,
		}
	}
	return &World{cfg: cfg, units: units}, nil
}

// NewFactory 提供給房間管理器使用的模擬器工廠
func NewFactory(cfg Config) ports.SimulatorFactory {
	return func(players []domain.PlayerID) (ports.Simulator, error) {
		return NewWorld(cfg, players)
	}
}

// Frame 最後套用的幀號
func (w *World) Frame() int64 {
	return w.frame
}

// Advance 套用下一幀的輸入並回傳新狀態的 Hash
func (w *World) Advance(inputs *domain.FrameInputs) (uint64, error) {
	if w.closed {
		return 0, ErrWorldClosed
	}
	if inputs.Frame != w.frame+1 {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFrameGap, inputs.Frame, w.frame+1)
	}
	if inputs.Len() != len(w.units) {
		return 0, fmt.Errorf("%w: %d inputs for %d units", ErrIncompleteInputs, inputs.Len(), len(w.units))
	}
	for i := range w.units {
		if !inputs.Has(w.units[i].id) {
			return 0, fmt.Errorf("%w: missing %s", ErrIncompleteInputs, w.units[i].id)
		}
	}

	for i := range w.units {
		in, _ := inputs.Get(w.units[i].id)
		w.step(&w.units[i], in)
	}
	w.frame = inputs.Frame
	return w.Hash(), nil
}

func (w *World) step(u *unit, in domain.Input) {
	if in.Button&domain.ButtonBrake != 0 {
		return
	}
	mx := clamp(int64(in.MoveX), -stickScale, stickScale)
	my := clamp(int64(in.MoveY), -stickScale, stickScale)
	speed := w.cfg.Speed
	if in.Button&domain.ButtonDash != 0 {
		speed *= 2
	}
	dx := mx * speed / stickScale
	dy := my * speed / stickScale

	u.x = clamp(u.x+dx, -w.cfg.Bound, w.cfg.Bound)
	u.y = clamp(u.y+dy, -w.cfg.Bound, w.cfg.Bound)
	if dx != 0 || dy != 0 {
		u.yaw = octant(dx, dy)
	}
}

// octant 將移動方向量化為 8 方位 (角度)
func octant(dx, dy int64) int32 {
	sx, sy := sign(dx), sign(dy)
	switch {
	case sx > 0 && sy == 0:
		return 0
	case sx > 0 && sy > 0:
		return 45
	case sx == 0 && sy > 0:
		return 90
	case sx < 0 && sy > 0:
		return 135
	case sx < 0 && sy == 0:
		return 180
	case sx < 0 && sy < 0:
		return 225
	case sx == 0 && sy < 0:
		return 270
	default:
		return 315
	}
}

// Hash 目前狀態的 xxhash 摘要 (固定順序的 little-endian 編碼)
func (w *World) Hash() uint64 {
	buf := make([]byte, 0, 8+len(w.units)*32)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(w.frame))
	for _, u := range w.units {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(u.id)))
		buf = append(buf, u.id...)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(u.x))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(u.y))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(u.yaw))
	}
	return xxhash.Sum64(buf)
}

// Units 每個單位對外可見的狀態 (依 PlayerID 排序)
func (w *World) Units() []domain.UnitState {
	out := make([]domain.UnitState, len(w.units))
	for i, u := range w.units {
		out[i] = domain.UnitState{PlayerID: u.id, X: u.x, Y: u.y, Yaw: u.yaw}
	}
	return out
}

// Snapshot 序列化目前狀態
func (w *World) Snapshot() ([]byte, error) {
	if w.closed {
		return nil, ErrWorldClosed
	}
	return encodeSnapshot(w.frame, w.units), nil
}

// Close 釋放資源
func (w *World) Close() error {
	w.closed = true
	w.units = nil
	return nil
}

func clamp(v, lo, hi int64) int64 {
	return max(lo, min(v, hi))
}

func sign(v int64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
