package lockstep

import "time"

// FixedTimeCounter 固定步長的幀時鐘。
// 第 N 幀的截止時間恆為 start + N*tick，不會累積誤差。
type FixedTimeCounter struct {
	start time.Time
	tick  time.Duration
}

// NewFixedTimeCounter 建立幀時鐘，tick 必須大於 0
func NewFixedTimeCounter(start time.Time, tick time.Duration) FixedTimeCounter {
	if tick <= 0 {
		tick = time.Millisecond
	}
	return FixedTimeCounter{start: start, tick: tick}
}

// StartTime 房間開始時間
func (c FixedTimeCounter) StartTime() time.Time {
	return c.start
}

// Interval 每幀時間長度
func (c FixedTimeCounter) Interval() time.Duration {
	return c.tick
}

// FrameTime 第 frame 幀的截止時間
func (c FixedTimeCounter) FrameTime(frame int64) time.Time {
	return c.start.Add(time.Duration(frame) * c.tick)
}

// FrameAt 時間點 t 所在的幀 (開始前為 -1)
func (c FixedTimeCounter) FrameAt(t time.Time) int64 {
	if t.Before(c.start) {
		return -1
	}
	return int64(t.Sub(c.start) / c.tick)
}

// Due 第 frame 幀是否已到期
func (c FixedTimeCounter) Due(frame int64, now time.Time) bool {
	return !now.Before(c.FrameTime(frame))
}

// FramesPerSecond 每秒幀數 (至少 1)
func (c FixedTimeCounter) FramesPerSecond() int64 {
	fps := int64(time.Second / c.tick)
	if fps < 1 {
		return 1
	}
	return fps
}
