package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/room"
)

// Config 房間管理器參數
type Config struct {
	Room              room.Config
	MailboxSize       int           // 每個房間的輸入佇列長度
	PollInterval      time.Duration // Tick 檢查頻率 (應小於 TickInterval)
	MaxCatchUp        int           // 單次 poll 最多補幾幀
	HeartbeatInterval time.Duration // Room Directory 續約頻率
}

// DefaultConfig 預設參數 (20Hz)
func DefaultConfig() Config {
	return Config{
		Room: room.Config{
			TickInterval: 50 * time.Millisecond,
			MatchSize:    4,
			Retention:    600,
			Lookahead:    10,
		},
		MailboxSize:       256,
		PollInterval:      5 * time.Millisecond,
		MaxCatchUp:        5,
		HeartbeatInterval: 3 * time.Second,
	}
}

// Option 可選依賴
type Option func(*Manager)

// WithDirectory 房間建立 / 結束時同步登記到 Room Directory
func WithDirectory(directory ports.RoomDirectory, endpoint string) Option {
	return func(m *Manager) {
		m.directory = directory
		m.endpoint = endpoint
	}
}

// WithArchive 房間結束時寫入對局紀錄
func WithArchive(archive ports.MatchArchive) Option {
	return func(m *Manager) { m.archive = archive }
}

// WithLogger 指定 Logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithClock 替換時間來源 (測試用)
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator 替換房間 ID 產生方式
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// Manager 負責管理所有 Room 的生命週期。
// 每個 Room 跑在自己的 goroutine (fiber) 上，所有對 Room 的操作都經由 mailbox 序列化。
type Manager struct {
	cfg       Config
	factory   ports.SimulatorFactory
	out       ports.Broadcaster
	directory ports.RoomDirectory
	archive   ports.MatchArchive
	endpoint  string
	logger    *slog.Logger
	roomLog   *slog.Logger
	now       func() time.Time
	newID     func() string

	mu     sync.RWMutex
	rooms  map[string]*runner
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ ports.RoomService = (*Manager)(nil)

// NewManager 建立房間管理器
func NewManager(cfg Config, factory ports.SimulatorFactory, out ports.Broadcaster, opts ...Option) *Manager {
	if cfg.MailboxSize <= 0 {
		cfg.MailboxSize = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Millisecond
	}
	if cfg.MaxCatchUp <= 0 {
		cfg.MaxCatchUp = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:     cfg,
		factory: factory,
		out:     out,
		logger:  slog.Default(),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
		rooms:   make(map[string]*runner),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.roomLog = m.logger
	m.logger = m.logger.With("component", "room_manager")
	return m
}

// Start 啟動 Room Directory 的心跳迴圈 (阻塞直到 ctx 結束或 Stop)
func (m *Manager) Start(ctx context.Context) {
	if m.directory == nil || m.cfg.HeartbeatInterval <= 0 {
		return
	}
	ticker := time.NewTicker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()

	m.logger.Info("Room Manager heartbeat started", "interval", m.cfg.HeartbeatInterval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.heartbeatAll(ctx)
		}
	}
}

// Stop 結束所有房間並等待其 fiber 退出
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		m.logger.Info("Room Manager stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CreateRoom 依玩家列表建立房間並開始推進
func (m *Manager) CreateRoom(ctx context.Context, players []domain.PlayerID) (string, error) {
	id := m.newID()
	start := m.now()

	r, err := room.New(id, players, start, m.cfg.Room, m.factory, m.out, m.roomLog)
	if err != nil {
		return "", err
	}

	runCtx, cancel := context.WithCancel(m.ctx)
	rn := &runner{
		id:      id,
		room:    r,
		players: r.Players(),
		start:   start,
		mailbox: make(chan job, m.cfg.MailboxSize),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()
		r.Close(start, domain.EndReasonShutdown)
		return "", ports.ErrRoomClosed
	}
	m.rooms[id] = rn
	m.wg.Add(1)
	m.mu.Unlock()

	if m.directory != nil {
		entry := &domain.RoomEntry{
			RoomID:    id,
			Endpoint:  m.endpoint,
			Players:   rn.players,
			StartTime: start.UnixMilli(),
		}
		if err := m.directory.Register(ctx, entry); err != nil {
			m.logger.Warn("Failed to register room", "room_id", id, "error", err)
		}
	}

	go m.run(runCtx, rn)

	m.logger.Info("Created New Room", "room_id", id, "players", players)
	return id, nil
}

// DestroyRoom 明確結束房間，等待清理完成後才回傳
func (m *Manager) DestroyRoom(ctx context.Context, roomID string) error {
	rn, err := m.get(roomID)
	if err != nil {
		return err
	}
	err = m.call(ctx, rn, func(context.Context, *room.Room) error {
		return endRoom{reason: domain.EndReasonDestroyed}
	})
	if err != nil && !errors.Is(err, ports.ErrRoomClosed) {
		return err
	}

	select {
	case <-rn.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InsertInput 將輸入投遞到房間 mailbox，不等待處理。
// mailbox 滿時回傳 ErrMailboxFull，呼叫端可視為丟包。
func (m *Manager) InsertInput(_ context.Context, roomID string, playerID domain.PlayerID, frame int64, input domain.Input) error {
	rn, err := m.get(roomID)
	if err != nil {
		return err
	}
	arrived := m.now()
	j := func(ctx context.Context, r *room.Room) error {
		return r.Insert(ctx, arrived, playerID, frame, input)
	}

	select {
	case <-rn.done:
		return ports.ErrRoomClosed
	default:
	}
	select {
	case rn.mailbox <- j:
		return nil
	default:
		return ports.ErrMailboxFull
	}
}

// CheckHash 比對客戶端 Hash (不一致時由房間推送快照)
func (m *Manager) CheckHash(ctx context.Context, roomID string, playerID domain.PlayerID, frame int64, hash uint64) error {
	rn, err := m.get(roomID)
	if err != nil {
		return err
	}
	return m.call(ctx, rn, func(ctx context.Context, r *room.Room) error {
		return r.CheckHash(ctx, playerID, frame, hash)
	})
}

// Reconnect 斷線重連資訊
func (m *Manager) Reconnect(ctx context.Context, roomID string, playerID domain.PlayerID) (*domain.ReconnectResponse, error) {
	rn, err := m.get(roomID)
	if err != nil {
		return nil, err
	}
	var resp *domain.ReconnectResponse
	err = m.call(ctx, rn, func(_ context.Context, r *room.Room) error {
		var err error
		resp, err = r.Reconnect(playerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Leave 玩家離開；最後一位離開時房間結束
func (m *Manager) Leave(ctx context.Context, roomID string, playerID domain.PlayerID) error {
	rn, err := m.get(roomID)
	if err != nil {
		return err
	}
	return m.call(ctx, rn, func(_ context.Context, r *room.Room) error {
		allLeft, err := r.Leave(playerID)
		if err != nil {
			return err
		}
		if allLeft {
			return endRoom{reason: domain.EndReasonAllLeft}
		}
		return nil
	})
}

// ListRooms 本機所有房間的摘要 (依 RoomID 排序)
func (m *Manager) ListRooms(ctx context.Context) ([]domain.RoomSummary, error) {
	m.mu.RLock()
	runners := make([]*runner, 0, len(m.rooms))
	for _, rn := range m.rooms {
		runners = append(runners, rn)
	}
	m.mu.RUnlock()

	out := make([]domain.RoomSummary, 0, len(runners))
	for _, rn := range runners {
		info, err := m.summary(ctx, rn)
		if errors.Is(err, ports.ErrRoomClosed) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *info)
	}
	slices.SortFunc(out, func(a, b domain.RoomSummary) int {
		return strings.Compare(a.RoomID, b.RoomID)
	})
	return out, nil
}

// RoomSummary 單一房間摘要
func (m *Manager) RoomSummary(ctx context.Context, roomID string) (*domain.RoomSummary, error) {
	rn, err := m.get(roomID)
	if err != nil {
		return nil, err
	}
	return m.summary(ctx, rn)
}

// Count 目前房間數
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

func (m *Manager) summary(ctx context.Context, rn *runner) (*domain.RoomSummary, error) {
	var info domain.RoomSummary
	err := m.call(ctx, rn, func(_ context.Context, r *room.Room) error {
		info = r.Info()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (m *Manager) get(roomID string) (*runner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rn, ok := m.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrRoomNotFound, roomID)
	}
	return rn, nil
}

func (m *Manager) remove(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, roomID)
}

func (m *Manager) heartbeatAll(ctx context.Context) {
	m.mu.RLock()
	runners := make([]*runner, 0, len(m.rooms))
	for _, rn := range m.rooms {
		runners = append(runners, rn)
	}
	m.mu.RUnlock()

	for _, rn := range runners {
		hbCtx, cancel := context.WithTimeout(ctx, time.Second)
		err := m.directory.Heartbeat(hbCtx, rn.id)
		if errors.Is(err, ports.ErrDirectoryEntryMissing) {
			// 登記已過期 (例如 Redis 重啟)，重新登記
			err = m.directory.Register(hbCtx, &domain.RoomEntry{
				RoomID:    rn.id,
				Endpoint:  m.endpoint,
				Players:   rn.players,
				StartTime: rn.start.UnixMilli(),
			})
		}
		cancel()
		if err != nil {
			m.logger.Warn("Room heartbeat failed", "room_id", rn.id, "error", err)
		}
	}
}
