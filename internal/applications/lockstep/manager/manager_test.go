package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/lockstep"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/room"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/simulation/kinematics"
	mock_ports "github.com/JoeShih716/go-k8s-lockstep-server/test/mocks/core/ports"
)

func testConfig() Config {
	return Config{
		Room: room.Config{
			TickInterval: 5 * time.Millisecond,
			MatchSize:    4,
			Retention:    64,
			Lookahead:    8,
		},
		MailboxSize:  16,
		PollInterval: time.Millisecond,
		MaxCatchUp:   5,
	}
}

func quietBroadcaster(ctrl *gomock.Controller) *mock_ports.MockBroadcaster {
	out := mock_ports.NewMockBroadcaster(ctrl)
	out.EXPECT().PushStart(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	out.EXPECT().BroadcastFrame(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	out.EXPECT().PushAdjustTime(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	out.EXPECT().PushSnapshot(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	return out
}

func newTestManager(t *testing.T, out ports.Broadcaster, opts ...Option) *Manager {
	t.Helper()
	seq := int64(0)
	opts = append([]Option{WithIDGenerator(func() string {
		return fmt.Sprintf("room-%d", atomic.AddInt64(&seq, 1))
	})}, opts...)

	m := NewManager(testConfig(), kinematics.NewFactory(kinematics.DefaultConfig()), out, opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = m.Stop(ctx)
	})
	return m
}

func TestManager_CreateRoom_Ticks(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newTestManager(t, quietBroadcaster(ctrl))
	ctx := context.Background()

	id, err := m.CreateRoom(ctx, []domain.PlayerID{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, "room-1", id)
	assert.Equal(t, 1, m.Count())

	assert.Eventually(t, func() bool {
		info, err := m.RoomSummary(ctx, id)
		return err == nil && info.AuthoritativeFrame >= 5
	}, 2*time.Second, 5*time.Millisecond)

	info, err := m.RoomSummary(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomStatusTicking, info.Status)
	assert.Equal(t, []domain.PlayerID{"p1", "p2"}, info.Players)
}

func TestManager_CreateRoom_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newTestManager(t, quietBroadcaster(ctrl))

	_, err := m.CreateRoom(context.Background(), nil)
	assert.ErrorIs(t, err, ports.ErrInvalidParticipants)
	_, err = m.CreateRoom(context.Background(), []domain.PlayerID{"a", "b", "c", "d", "e"})
	assert.ErrorIs(t, err, ports.ErrInvalidParticipants)
	assert.Equal(t, 0, m.Count())
}

func TestManager_RoomNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newTestManager(t, quietBroadcaster(ctrl))
	ctx := context.Background()

	assert.ErrorIs(t, m.InsertInput(ctx, "nope", "p1", 1, domain.Input{}), ports.ErrRoomNotFound)
	assert.ErrorIs(t, m.CheckHash(ctx, "nope", "p1", 1, 0), ports.ErrRoomNotFound)
	assert.ErrorIs(t, m.Leave(ctx, "nope", "p1"), ports.ErrRoomNotFound)
	assert.ErrorIs(t, m.DestroyRoom(ctx, "nope"), ports.ErrRoomNotFound)
	_, err := m.Reconnect(ctx, "nope", "p1")
	assert.ErrorIs(t, err, ports.ErrRoomNotFound)
	_, err = m.RoomSummary(ctx, "nope")
	assert.ErrorIs(t, err, ports.ErrRoomNotFound)
}

func TestManager_InputAndReconnect(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newTestManager(t, quietBroadcaster(ctrl))
	ctx := context.Background()

	id, err := m.CreateRoom(ctx, []domain.PlayerID{"p1", "p2"})
	require.NoError(t, err)

	// 持續往右直到位置改變
	assert.Eventually(t, func() bool {
		resp, err := m.Reconnect(ctx, id, "p1")
		if err != nil {
			return false
		}
		for f := resp.AuthoritativeFrame + 1; f <= resp.AuthoritativeFrame+3; f++ {
			_ = m.InsertInput(ctx, id, "p1", f, domain.Input{MoveX: 1000})
		}
		return resp.Units[0].X > 0
	}, 2*time.Second, 2*time.Millisecond)

	_, err = m.Reconnect(ctx, id, "p3")
	assert.ErrorIs(t, err, ports.ErrUnknownParticipant)
}

func TestManager_CheckHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	out := mock_ports.NewMockBroadcaster(ctrl)
	out.EXPECT().PushStart(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	out.EXPECT().BroadcastFrame(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	pushed := make(chan *domain.SnapshotMessage, 1)
	out.EXPECT().PushSnapshot(gomock.Any(), domain.PlayerID("p1"), gomock.Any()).
		Do(func(_ context.Context, _ domain.PlayerID, msg *domain.SnapshotMessage) {
			pushed <- msg
		}).Times(1)

	m := newTestManager(t, out)
	ctx := context.Background()
	id, err := m.CreateRoom(ctx, []domain.PlayerID{"p1"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		info, err := m.RoomSummary(ctx, id)
		return err == nil && info.AuthoritativeFrame >= 3
	}, 2*time.Second, 2*time.Millisecond)

	require.NoError(t, m.CheckHash(ctx, id, "p1", 2, 0xdeadbeef))
	select {
	case msg := <-pushed:
		assert.Equal(t, int64(2), msg.Frame)
		assert.NotEmpty(t, msg.Snapshot)
	case <-time.After(time.Second):
		t.Fatal("snapshot not pushed")
	}

	assert.ErrorIs(t, m.CheckHash(ctx, id, "p9", 2, 0), ports.ErrUnknownParticipant)
}

func TestManager_DestroyRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := mock_ports.NewMockRoomDirectory(ctrl)
	archive := mock_ports.NewMockMatchArchive(ctrl)

	directory.EXPECT().Register(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, entry *domain.RoomEntry) {
			assert.Equal(t, "room-1", entry.RoomID)
			assert.Equal(t, "10.0.0.1:8080", entry.Endpoint)
			assert.Equal(t, []domain.PlayerID{"p1", "p2"}, entry.Players)
		}).Return(nil)
	directory.EXPECT().Deregister(gomock.Any(), "room-1").Return(nil)

	saved := make(chan *domain.MatchRecord, 1)
	archive.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rec *domain.MatchRecord) error {
		saved <- rec
		return nil
	})

	m := newTestManager(t, quietBroadcaster(ctrl), WithDirectory(directory, "10.0.0.1:8080"), WithArchive(archive))
	ctx := context.Background()

	id, err := m.CreateRoom(ctx, []domain.PlayerID{"p2", "p1"})
	require.NoError(t, err)

	require.NoError(t, m.DestroyRoom(ctx, id))
	assert.Equal(t, 0, m.Count())

	rec := <-saved
	assert.Equal(t, domain.EndReasonDestroyed, rec.Reason)
	assert.Equal(t, []domain.PlayerID{"p1", "p2"}, rec.Players)

	_, err = m.RoomSummary(ctx, id)
	assert.ErrorIs(t, err, ports.ErrRoomNotFound)
}

// orderLog 紀錄 teardown 期間各協作者被呼叫的順序
type orderLog struct {
	mu    sync.Mutex
	steps []string
}

func (o *orderLog) add(step string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.steps = append(o.steps, step)
}

func (o *orderLog) get() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.steps...)
}

// closeTracking 在 Close 時留下紀錄的模擬器
type closeTracking struct {
	ports.Simulator
	log *orderLog
}

func (c closeTracking) Close() error {
	c.log.add("close")
	return c.Simulator.Close()
}

func TestManager_TeardownOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := mock_ports.NewMockRoomDirectory(ctrl)
	archive := mock_ports.NewMockMatchArchive(ctrl)
	order := &orderLog{}

	directory.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil)
	directory.EXPECT().Deregister(gomock.Any(), "room-1").DoAndReturn(func(context.Context, string) error {
		order.add("deregister")
		return nil
	})
	archive.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, *domain.MatchRecord) error {
		order.add("archive")
		return nil
	})

	base := kinematics.NewFactory(kinematics.DefaultConfig())
	factory := func(players []domain.PlayerID) (ports.Simulator, error) {
		sim, err := base(players)
		if err != nil {
			return nil, err
		}
		return closeTracking{Simulator: sim, log: order}, nil
	}

	m := NewManager(testConfig(), factory, quietBroadcaster(ctrl),
		WithIDGenerator(func() string { return "room-1" }),
		WithDirectory(directory, "10.0.0.1:8080"),
		WithArchive(archive))
	t.Cleanup(func() { _ = m.Stop(context.Background()) })
	ctx := context.Background()

	id, err := m.CreateRoom(ctx, []domain.PlayerID{"p1"})
	require.NoError(t, err)
	require.NoError(t, m.DestroyRoom(ctx, id))

	assert.Eventually(t, func() bool { return len(order.get()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"deregister", "close", "archive"}, order.get())
}

func TestManager_LeaveAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	archive := mock_ports.NewMockMatchArchive(ctrl)
	saved := make(chan *domain.MatchRecord, 1)
	archive.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rec *domain.MatchRecord) error {
		saved <- rec
		return nil
	})

	m := newTestManager(t, quietBroadcaster(ctrl), WithArchive(archive))
	ctx := context.Background()
	id, err := m.CreateRoom(ctx, []domain.PlayerID{"p1", "p2"})
	require.NoError(t, err)

	require.NoError(t, m.Leave(ctx, id, "p1"))
	assert.Equal(t, 1, m.Count())
	require.NoError(t, m.Leave(ctx, id, "p2"))

	rec := <-saved
	assert.Equal(t, domain.EndReasonAllLeft, rec.Reason)
	assert.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, time.Millisecond)
}

func TestManager_MailboxFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newTestManager(t, quietBroadcaster(ctrl))
	m.cfg.MailboxSize = 1
	ctx := context.Background()

	id, err := m.CreateRoom(ctx, []domain.PlayerID{"p1"})
	require.NoError(t, err)
	rn, err := m.get(id)
	require.NoError(t, err)

	// 讓 fiber 卡在一個 job 上
	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = m.call(ctx, rn, func(context.Context, *room.Room) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	require.NoError(t, m.InsertInput(ctx, id, "p1", 1, domain.Input{}))
	assert.ErrorIs(t, m.InsertInput(ctx, id, "p1", 2, domain.Input{}), ports.ErrMailboxFull)
	close(release)
}

func TestManager_HandlerPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newTestManager(t, quietBroadcaster(ctrl))
	ctx := context.Background()

	id, err := m.CreateRoom(ctx, []domain.PlayerID{"p1"})
	require.NoError(t, err)
	rn, err := m.get(id)
	require.NoError(t, err)

	err = m.call(ctx, rn, func(context.Context, *room.Room) error {
		panic("boom")
	})
	assert.ErrorIs(t, err, errHandlerPanic)

	// 房間仍在運作
	_, err = m.RoomSummary(ctx, id)
	assert.NoError(t, err)
}

func TestManager_InvariantViolationAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	archive := mock_ports.NewMockMatchArchive(ctrl)
	saved := make(chan *domain.MatchRecord, 1)
	archive.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rec *domain.MatchRecord) error {
		saved <- rec
		return nil
	})

	m := newTestManager(t, quietBroadcaster(ctrl), WithArchive(archive))
	ctx := context.Background()
	id, err := m.CreateRoom(ctx, []domain.PlayerID{"p1"})
	require.NoError(t, err)
	rn, err := m.get(id)
	require.NoError(t, err)

	err = m.call(ctx, rn, func(context.Context, *room.Room) error {
		return fmt.Errorf("%w: test", lockstep.ErrInvariantViolation)
	})
	assert.True(t, errors.Is(err, lockstep.ErrInvariantViolation))

	rec := <-saved
	assert.Equal(t, domain.EndReasonAborted, rec.Reason)
	assert.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, time.Millisecond)
}

func TestManager_Stop(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newTestManager(t, quietBroadcaster(ctrl))
	ctx := context.Background()

	_, err := m.CreateRoom(ctx, []domain.PlayerID{"p1"})
	require.NoError(t, err)
	_, err = m.CreateRoom(ctx, []domain.PlayerID{"p2"})
	require.NoError(t, err)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, m.Stop(stopCtx))
	assert.Equal(t, 0, m.Count())

	_, err = m.CreateRoom(ctx, []domain.PlayerID{"p3"})
	assert.ErrorIs(t, err, ports.ErrRoomClosed)
}

func TestManager_ListRooms(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newTestManager(t, quietBroadcaster(ctrl))
	ctx := context.Background()

	for _, p := range []domain.PlayerID{"a", "b", "c"} {
		_, err := m.CreateRoom(ctx, []domain.PlayerID{p})
		require.NoError(t, err)
	}

	rooms, err := m.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, "room-1", rooms[0].RoomID)
	assert.Equal(t, "room-3", rooms[2].RoomID)
}

func TestManager_Heartbeat(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := mock_ports.NewMockRoomDirectory(ctrl)
	directory.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	directory.EXPECT().Heartbeat(gomock.Any(), "room-1").Return(ports.ErrDirectoryEntryMissing)
	directory.EXPECT().Deregister(gomock.Any(), "room-1").Return(nil).AnyTimes()

	m := newTestManager(t, quietBroadcaster(ctrl), WithDirectory(directory, "pod:8080"))
	ctx := context.Background()
	_, err := m.CreateRoom(ctx, []domain.PlayerID{"p1"})
	require.NoError(t, err)

	// 過期後重新登記
	m.heartbeatAll(ctx)
}
