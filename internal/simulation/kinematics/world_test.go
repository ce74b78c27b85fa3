package kinematics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
)

func frameOf(frame int64, inputs map[domain.PlayerID]domain.Input) *domain.FrameInputs {
	set := domain.NewFrameInputs(frame)
	for id, in := range inputs {
		set.Set(id, in)
	}
	return set
}

func TestWorld_Genesis(t *testing.T) {
	w, err := NewWorld(DefaultConfig(), []domain.PlayerID{"p2", "p1"})
	require.NoError(t, err)

	assert.Equal(t, int64(0), w.Frame())
	units := w.Units()
	require.Len(t, units, 2)
	assert.Equal(t, domain.PlayerID("p1"), units[0].PlayerID)
	assert.Equal(t, int64(0), units[0].X)
	assert.Equal(t, DefaultConfig().Spacing, units[1].X)

	_, err = NewWorld(DefaultConfig(), []domain.PlayerID{"p1", "p1"})
	assert.ErrorIs(t, err, ErrDuplicatePlayer)
}

func TestWorld_Advance(t *testing.T) {
	cfg := DefaultConfig()
	w, err := NewWorld(cfg, []domain.PlayerID{"p1", "p2"})
	require.NoError(t, err)

	_, err = w.Advance(frameOf(1, map[domain.PlayerID]domain.Input{
		"p1": {MoveX: 1000},
		"p2": {MoveY: -500, Button: domain.ButtonDash},
	}))
	require.NoError(t, err)

	units := w.Units()
	assert.Equal(t, cfg.Speed, units[0].X)
	assert.Equal(t, int32(0), units[0].Yaw)
	assert.Equal(t, -cfg.Speed, units[1].Y) // 半搖桿 * 衝刺
	assert.Equal(t, int32(270), units[1].Yaw)

	// Brake 不移動
	_, err = w.Advance(frameOf(2, map[domain.PlayerID]domain.Input{
		"p1": {MoveX: 1000, Button: domain.ButtonBrake},
		"p2": {},
	}))
	require.NoError(t, err)
	assert.Equal(t, cfg.Speed, w.Units()[0].X)
}

func TestWorld_Advance_Rejects(t *testing.T) {
	w, err := NewWorld(DefaultConfig(), []domain.PlayerID{"p1", "p2"})
	require.NoError(t, err)

	// Frame gap
	_, err = w.Advance(frameOf(2, map[domain.PlayerID]domain.Input{"p1": {}, "p2": {}}))
	assert.ErrorIs(t, err, ErrFrameGap)

	// Incomplete
	_, err = w.Advance(frameOf(1, map[domain.PlayerID]domain.Input{"p1": {}}))
	assert.ErrorIs(t, err, ErrIncompleteInputs)

	// Wrong player
	_, err = w.Advance(frameOf(1, map[domain.PlayerID]domain.Input{"p1": {}, "p3": {}}))
	assert.ErrorIs(t, err, ErrIncompleteInputs)

	assert.Equal(t, int64(0), w.Frame())
}

func TestWorld_Bound(t *testing.T) {
	cfg := Config{Speed: 100, Bound: 150, Spacing: 0}
	w, err := NewWorld(cfg, []domain.PlayerID{"p1"})
	require.NoError(t, err)

	for f := int64(1); f <= 5; f++ {
		_, err := w.Advance(frameOf(f, map[domain.PlayerID]domain.Input{"p1": {MoveX: 1000, MoveY: 5000}}))
		require.NoError(t, err)
	}
	u := w.Units()[0]
	assert.Equal(t, int64(150), u.X)
	assert.Equal(t, int64(150), u.Y)
	assert.Equal(t, int32(45), u.Yaw)
}

func TestWorld_Deterministic(t *testing.T) {
	players := []domain.PlayerID{"a", "b", "c"}
	w1, _ := NewWorld(DefaultConfig(), players)
	w2, _ := NewWorld(DefaultConfig(), []domain.PlayerID{"c", "a", "b"})

	for f := int64(1); f <= 50; f++ {
		set := frameOf(f, map[domain.PlayerID]domain.Input{
			"a": {MoveX: int32(f * 37 % 2001) - 1000},
			"b": {MoveY: int32(f * 53 % 2001) - 1000, Button: int32(f % 2)},
			"c": {MoveX: -300, MoveY: 700},
		})
		h1, err := w1.Advance(set)
		require.NoError(t, err)
		h2, err := w2.Advance(set.Clone())
		require.NoError(t, err)
		assert.Equal(t, h1, h2, "frame %d", f)
	}
	assert.Equal(t, w1.Units(), w2.Units())
}

func TestWorld_HashChanges(t *testing.T) {
	w, _ := NewWorld(DefaultConfig(), []domain.PlayerID{"p1"})
	h0 := w.Hash()

	h1, err := w.Advance(frameOf(1, map[domain.PlayerID]domain.Input{"p1": {}}))
	require.NoError(t, err)
	// 幀號也是狀態的一部分
	assert.NotEqual(t, h0, h1)
}

func TestWorld_SnapshotRestore(t *testing.T) {
	cfg := DefaultConfig()
	w, _ := NewWorld(cfg, []domain.PlayerID{"p1", "p2"})
	for f := int64(1); f <= 10; f++ {
		_, err := w.Advance(frameOf(f, map[domain.PlayerID]domain.Input{
			"p1": {MoveX: -1000},
			"p2": {MoveX: 200, MoveY: 900},
		}))
		require.NoError(t, err)
	}

	snap, err := w.Snapshot()
	require.NoError(t, err)

	restored, err := Restore(cfg, snap)
	require.NoError(t, err)
	assert.Equal(t, w.Frame(), restored.Frame())
	assert.Equal(t, w.Units(), restored.Units())
	assert.Equal(t, w.Hash(), restored.Hash())

	// 還原後可繼續推進，結果一致
	next := frameOf(11, map[domain.PlayerID]domain.Input{"p1": {MoveY: 1000}, "p2": {}})
	h1, err := w.Advance(next)
	require.NoError(t, err)
	h2, err := restored.Advance(next.Clone())
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestRestore_Malformed(t *testing.T) {
	_, err := Restore(DefaultConfig(), []byte{0x12, 0x05, 0x01})
	assert.ErrorIs(t, err, ErrMalformedSnapshot)
}

func TestWorld_Close(t *testing.T) {
	w, _ := NewWorld(DefaultConfig(), []domain.PlayerID{"p1"})
	require.NoError(t, w.Close())

	_, err := w.Advance(frameOf(1, map[domain.PlayerID]domain.Input{"p1": {}}))
	assert.ErrorIs(t, err, ErrWorldClosed)
	_, err = w.Snapshot()
	assert.ErrorIs(t, err, ErrWorldClosed)
}
