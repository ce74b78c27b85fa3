package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/lockstep"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
)

// Config 房間參數
type Config struct {
	TickInterval time.Duration // 每幀時間
	MatchSize    int           // 每局人數上限
	Retention    int           // 保留的歷史幀數
	Lookahead    int           // 可預先寫入的未來幀數
}

// Room 一場 Lockstep 對局。
// 擁有一個 FrameBuffer 與一個 Simulator，兩者生命週期與 Room 相同。
//
// Room 本身不加鎖：所有方法 (Tick / Insert / CheckHash / Reconnect ...)
// 必須由同一個 goroutine (房間的 fiber) 依序呼叫。
type Room struct {
	id      string
	players []domain.PlayerID // 依字典序，建立後不變
	members map[domain.PlayerID]struct{}
	left    map[domain.PlayerID]struct{}

	counter            lockstep.FixedTimeCounter
	authoritativeFrame int64
	lastHash           uint64

	buffer *lockstep.FrameBuffer
	sim    ports.Simulator
	out    ports.Broadcaster

	status domain.RoomStatus
	logger *slog.Logger
}

// New 建立房間並初始化 FrameBuffer 與 genesis 狀態的 Simulator
//
// 參數:
//
//	id: string - 房間 ID
//	players: []domain.PlayerID - 參與者 (不可為空、不可超過 MatchSize、不可重複)
//	start: time.Time - 房間開始時間，所有幀的截止時間由此推算
//	cfg: Config - 房間參數
//	factory: ports.SimulatorFactory - 模擬器工廠
//	out: ports.Broadcaster - 對外推播
//	logger: *slog.Logger - 日誌 (nil 則使用 slog.Default)
//
// 回傳值:
//
//	*Room: 狀態為 Idle 的房間，呼叫 Start 後才會開始推進
//	error: 參與者不合法 (ErrInvalidParticipants) 或模擬器建立失敗
func New(id string, players []domain.PlayerID, start time.Time, cfg Config, factory ports.SimulatorFactory, out ports.Broadcaster, logger *slog.Logger) (*Room, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("%w: empty player list", ports.ErrInvalidParticipants)
	}
	if cfg.MatchSize > 0 && len(players) > cfg.MatchSize {
		return nil, fmt.Errorf("%w: %d players exceeds match size %d", ports.ErrInvalidParticipants, len(players), cfg.MatchSize)
	}

	members := make(map[domain.PlayerID]struct{}, len(players))
	for _, p := range players {
		if p == "" {
			return nil, fmt.Errorf("%w: empty player id", ports.ErrInvalidParticipants)
		}
		if _, dup := members[p]; dup {
			return nil, fmt.Errorf("%w: duplicate player %s", ports.ErrInvalidParticipants, p)
		}
		members[p] = struct{}{}
	}

	sim, err := factory(players)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulator: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	sorted := slices.Clone(players)
	slices.Sort(sorted)

	// 第 0 幀為 genesis，建立時即視為已提交
	buffer := lockstep.NewFrameBuffer(cfg.Retention, cfg.Lookahead)
	genesis, err := sim.Snapshot()
	if err != nil {
		_ = sim.Close()
		return nil, fmt.Errorf("failed to snapshot genesis: %w", err)
	}
	if err := buffer.MoveForward(0); err != nil {
		_ = sim.Close()
		return nil, err
	}
	if err := buffer.RecordState(0, sim.Hash(), genesis); err != nil {
		_ = sim.Close()
		return nil, err
	}

	return &Room{
		id:                 id,
		players:            sorted,
		members:            members,
		left:               make(map[domain.PlayerID]struct{}),
		counter:            lockstep.NewFixedTimeCounter(start, cfg.TickInterval),
		authoritativeFrame: 0,
		lastHash:           sim.Hash(),
		buffer:             buffer,
		sim:                sim,
		out:                out,
		status:             domain.RoomStatusIdle,
		logger:             logger.With("component", "room", "room_id", id),
	}, nil
}

// ID 房間 ID
func (r *Room) ID() string { return r.id }

// Players 參與者 (依字典序)
func (r *Room) Players() []domain.PlayerID { return slices.Clone(r.players) }

// AuthoritativeFrame 最後提交給模擬器的幀號 (genesis 為 0)
func (r *Room) AuthoritativeFrame() int64 { return r.authoritativeFrame }

// StartTime 房間開始時間
func (r *Room) StartTime() time.Time { return r.counter.StartTime() }

// Status 目前狀態
func (r *Room) Status() domain.RoomStatus { return r.status }

// Start Idle -> Ticking，並通知所有參與者
func (r *Room) Start(ctx context.Context) {
	if r.status != domain.RoomStatusIdle {
		return
	}
	r.status = domain.RoomStatusTicking
	r.out.PushStart(ctx, r.activePlayers(), &domain.StartMessage{
		RoomID:    r.id,
		StartTime: r.counter.StartTime().UnixMilli(),
		TickMS:    r.counter.Interval().Milliseconds(),
		Units:     r.sim.Units(),
	})
	r.logger.Info("Room started", "players", r.players, "tick", r.counter.Interval())
}

// Tick 權威推進一次 (若下一幀已到期)。
// 重複呼叫是安全的：未到期時直接回傳 false。
//
// 回傳值:
//
//	bool: 是否提交了一幀
//	error: 只會是 ErrInvariantViolation 類錯誤，房間應中止
func (r *Room) Tick(ctx context.Context, now time.Time) (bool, error) {
	if r.status != domain.RoomStatusTicking {
		return false, nil
	}

	// 1. 是否到期
	next := r.authoritativeFrame + 1
	if !r.counter.Due(next, now) {
		return false, nil
	}

	// 2. 取得該幀輸入
	set := r.buffer.FrameInputs(next)

	// 3. 補幀: 沿用上一幀的輸入，沒有則使用 Neutral
	r.fillGaps(set)

	// 4. 推進消化指標
	if err := r.buffer.MoveForward(next); err != nil {
		return false, err
	}

	// 5. 廣播用的複本
	broadcast := set.Clone()

	// 6. 推進權威幀
	r.authoritativeFrame = next

	// 7. 廣播
	r.out.BroadcastFrame(ctx, r.activePlayers(), &domain.FrameMessage{
		RoomID: r.id,
		Frame:  broadcast.Frame,
		Inputs: broadcast.Inputs,
	})

	// 8. 套用原始集合並紀錄 Hash / Snapshot
	hash, err := r.sim.Advance(set)
	if err != nil {
		return true, fmt.Errorf("%w: advance frame %d: %v", lockstep.ErrInvariantViolation, next, err)
	}
	snapshot, err := r.sim.Snapshot()
	if err != nil {
		return true, fmt.Errorf("%w: snapshot frame %d: %v", lockstep.ErrInvariantViolation, next, err)
	}
	if err := r.buffer.RecordState(next, hash, snapshot); err != nil {
		return true, err
	}
	r.lastHash = hash
	return true, nil
}

// fillGaps 將缺少的參與者輸入補齊。
// 只往回看一幀；補上的值會寫回緩衝區，因此連續缺幀時會一路沿用最後一次的輸入。
// 已離開的玩家一律為 Neutral，不論緩衝區裡是否還有他預先送來的輸入。
func (r *Room) fillGaps(set *domain.FrameInputs) {
	for p := range r.left {
		set.Set(p, domain.NeutralInput())
	}
	if set.Len() == len(r.players) {
		return
	}

	var prev *domain.FrameInputs
	if r.buffer.CheckFrame(set.Frame - 1) {
		prev = r.buffer.FrameInputs(set.Frame - 1)
	}

	for _, p := range r.players {
		if set.Has(p) {
			continue
		}
		if prev != nil {
			if in, ok := prev.Get(p); ok {
				set.Set(p, in)
				continue
			}
		}
		set.Set(p, domain.NeutralInput())
	}
}

// Insert 紀錄一筆玩家輸入。
// 當幀號為每秒幀數的整數倍時，順便回覆時鐘校正提示。
func (r *Room) Insert(ctx context.Context, now time.Time, playerID domain.PlayerID, frame int64, in domain.Input) error {
	if err := r.checkParticipant(playerID); err != nil {
		return err
	}
	if _, gone := r.left[playerID]; gone {
		return fmt.Errorf("%w: %s", ports.ErrPlayerLeft, playerID)
	}

	if frame > 0 && frame%r.counter.FramesPerSecond() == 0 {
		r.out.PushAdjustTime(ctx, playerID, &domain.AdjustTimeMessage{
			RoomID: r.id,
			Frame:  frame,
			DiffMS: r.counter.FrameTime(frame).Sub(now).Milliseconds(),
		})
	}

	if err := r.buffer.Insert(frame, playerID, in); err != nil {
		r.logger.Warn("Input dropped", "player", playerID, "frame", frame, "authoritative", r.authoritativeFrame, "error", err)
		return err
	}
	return nil
}

// CheckHash 比對客戶端回報的 Hash，不一致時推送該幀快照 (僅一次)。
// 回報的幀尚未提交時只記錄 log，不視為錯誤。
func (r *Room) CheckHash(ctx context.Context, playerID domain.PlayerID, frame int64, hash uint64) error {
	if err := r.checkParticipant(playerID); err != nil {
		return err
	}
	if frame > r.authoritativeFrame {
		r.logger.Warn("Hash reported for future frame", "player", playerID, "frame", frame, "authoritative", r.authoritativeFrame)
		return nil
	}

	want, ok, err := r.buffer.Hash(frame)
	if err != nil {
		return err
	}
	if !ok || want == hash {
		return nil
	}

	snapshot, _, err := r.buffer.Snapshot(frame)
	if err != nil {
		return err
	}
	r.logger.Warn("Desync detected", "player", playerID, "frame", frame, "client_hash", hash, "server_hash", want)
	r.out.PushSnapshot(ctx, playerID, &domain.SnapshotMessage{
		RoomID:   r.id,
		PlayerID: playerID,
		Frame:    frame,
		Snapshot: snapshot,
	})
	return nil
}

// Reconnect 斷線重連。純讀取，不會變更房間狀態，也不會重新加入廣播名單。
func (r *Room) Reconnect(playerID domain.PlayerID) (*domain.ReconnectResponse, error) {
	if err := r.checkParticipant(playerID); err != nil {
		return nil, err
	}
	return &domain.ReconnectResponse{
		RoomID:             r.id,
		StartTime:          r.counter.StartTime().UnixMilli(),
		TickMS:             r.counter.Interval().Milliseconds(),
		AuthoritativeFrame: r.authoritativeFrame,
		Units:              r.sim.Units(),
	}, nil
}

// Leave 玩家離開，之後不再收到廣播，之後每一幀的輸入都是 Neutral。
//
// 回傳值:
//
//	bool: 是否所有參與者都已離開
func (r *Room) Leave(playerID domain.PlayerID) (bool, error) {
	if err := r.checkParticipant(playerID); err != nil {
		return false, err
	}
	if _, gone := r.left[playerID]; !gone {
		r.left[playerID] = struct{}{}
		r.logger.Info("Player left room", "player", playerID, "remaining", len(r.players)-len(r.left))
	}
	return len(r.left) == len(r.players), nil
}

// Hash 某幀的權威 Hash (語意同 FrameBuffer.Hash)
func (r *Room) Hash(frame int64) (uint64, bool, error) {
	return r.buffer.Hash(frame)
}

// Snapshot 某幀的快照 (語意同 FrameBuffer.Snapshot)
func (r *Room) Snapshot(frame int64) ([]byte, bool, error) {
	return r.buffer.Snapshot(frame)
}

// Close 釋放 FrameBuffer 與 Simulator。
// 呼叫前必須先停止 Tick (fiber 已離開主迴圈)。重複呼叫回傳 nil。
func (r *Room) Close(now time.Time, reason domain.EndReason) *domain.MatchRecord {
	if r.status == domain.RoomStatusClosed {
		return nil
	}
	r.status = domain.RoomStatusClosed

	record := &domain.MatchRecord{
		RoomID:     r.id,
		Players:    slices.Clone(r.players),
		StartTime:  r.counter.StartTime(),
		EndTime:    now,
		FinalFrame: r.authoritativeFrame,
		FinalHash:  r.lastHash,
		Reason:     reason,
	}

	r.buffer.Release()
	if err := r.sim.Close(); err != nil {
		r.logger.Warn("Failed to close simulator", "error", err)
	}
	r.logger.Info("Room closed", "reason", reason, "final_frame", r.authoritativeFrame)
	return record
}

// Info 房間摘要
func (r *Room) Info() domain.RoomSummary {
	left := slices.Sorted(maps.Keys(r.left))
	return domain.RoomSummary{
		RoomID:             r.id,
		Status:             r.status,
		Players:            slices.Clone(r.players),
		Left:               left,
		StartTime:          r.counter.StartTime(),
		TickMS:             r.counter.Interval().Milliseconds(),
		AuthoritativeFrame: r.authoritativeFrame,
		MaxFrame:           r.buffer.MaxFrame(),
		LastHash:           r.lastHash,
	}
}

// IsInvariantViolation 錯誤是否必須中止房間
func IsInvariantViolation(err error) bool {
	return errors.Is(err, lockstep.ErrInvariantViolation)
}

func (r *Room) checkParticipant(playerID domain.PlayerID) error {
	if r.status == domain.RoomStatusClosed {
		return ports.ErrRoomClosed
	}
	if _, ok := r.members[playerID]; !ok {
		return fmt.Errorf("%w: %s", ports.ErrUnknownParticipant, playerID)
	}
	return nil
}

// activePlayers 尚未離開的參與者
func (r *Room) activePlayers() []domain.PlayerID {
	if len(r.left) == 0 {
		return slices.Clone(r.players)
	}
	out := make([]domain.PlayerID, 0, len(r.players)-len(r.left))
	for _, p := range r.players {
		if _, gone := r.left[p]; !gone {
			out = append(out, p)
		}
	}
	return out
}
