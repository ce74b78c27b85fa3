package lockstep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedTimeCounter(t *testing.T) {
	start := time.Unix(1700000000, 0)
	c := NewFixedTimeCounter(start, 50*time.Millisecond)

	assert.Equal(t, start, c.FrameTime(0))
	assert.Equal(t, start.Add(500*time.Millisecond), c.FrameTime(10))

	assert.Equal(t, int64(-1), c.FrameAt(start.Add(-time.Millisecond)))
	assert.Equal(t, int64(0), c.FrameAt(start))
	assert.Equal(t, int64(0), c.FrameAt(start.Add(49*time.Millisecond)))
	assert.Equal(t, int64(1), c.FrameAt(start.Add(50*time.Millisecond)))

	assert.True(t, c.Due(0, start))
	assert.False(t, c.Due(1, start.Add(49*time.Millisecond)))
	assert.True(t, c.Due(1, start.Add(50*time.Millisecond)))

	assert.Equal(t, int64(20), c.FramesPerSecond())
}

func TestFixedTimeCounter_SlowTick(t *testing.T) {
	c := NewFixedTimeCounter(time.Now(), 3*time.Second)
	assert.Equal(t, int64(1), c.FramesPerSecond())

	c = NewFixedTimeCounter(time.Now(), 0)
	assert.Equal(t, time.Millisecond, c.Interval())
}
