package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/room"
)

// job 在房間 fiber 上執行的一段邏輯
type job func(ctx context.Context, r *room.Room) error

// endRoom 由 job 回傳，要求 fiber 正常結束房間
type endRoom struct {
	reason domain.EndReason
}

func (e endRoom) Error() string {
	return "room ended: " + string(e.reason)
}

var errHandlerPanic = errors.New("room handler panic")

// runner 一個房間的 fiber: 單一 goroutine 依序處理 mailbox 與 Tick
type runner struct {
	id      string
	room    *room.Room // 只能在 run 的 goroutine 內存取
	players []domain.PlayerID
	start   time.Time

	mailbox chan job
	cancel  context.CancelFunc
	done    chan struct{}
}

// run 房間主迴圈。
// Tick 以 poll 的方式檢查是否到期，不會阻塞 mailbox 的處理。
func (m *Manager) run(ctx context.Context, rn *runner) {
	defer m.wg.Done()
	defer close(rn.done)
	defer rn.cancel()

	logger := m.logger.With("room_id", rn.id)
	rn.room.Start(ctx)

	poll := time.NewTicker(m.cfg.PollInterval)
	defer poll.Stop()

	reason := domain.EndReasonShutdown
loop:
	for {
		select {
		case <-ctx.Done():
			break loop

		case j := <-rn.mailbox:
			err := m.invoke(ctx, rn, j)
			if err == nil {
				continue
			}
			var end endRoom
			if errors.As(err, &end) {
				reason = end.reason
				break loop
			}
			if room.IsInvariantViolation(err) {
				logger.Error("Room aborted by handler", "error", err)
				reason = domain.EndReasonAborted
				break loop
			}
			logger.Debug("Room job failed", "error", err)

		case <-poll.C:
			if err := m.tick(ctx, rn); err != nil {
				logger.Error("Room aborted", "frame", rn.room.AuthoritativeFrame(), "error", err)
				reason = domain.EndReasonAborted
				break loop
			}
		}
	}

	m.teardown(rn, reason)
}

// invoke 執行單一 job，panic 只會讓該 job 失敗，不會中斷房間
func (m *Manager) invoke(ctx context.Context, rn *runner, j job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			m.logger.Error("Room handler panic", "room_id", rn.id, "panic", rec)
			err = fmt.Errorf("%w: %v", errHandlerPanic, rec)
		}
	}()
	return j(ctx, rn.room)
}

// tick 補上所有已到期的幀 (最多 MaxCatchUp 幀)
func (m *Manager) tick(ctx context.Context, rn *runner) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tick panic: %v", rec)
		}
	}()
	for range m.cfg.MaxCatchUp {
		ticked, err := rn.room.Tick(ctx, m.now())
		if err != nil {
			return err
		}
		if !ticked {
			return nil
		}
	}
	return nil
}

// call 將 job 送進 mailbox 並等待結果 (request/response)
func (m *Manager) call(ctx context.Context, rn *runner, fn job) error {
	errCh := make(chan error, 1)
	wrapped := func(ctx context.Context, r *room.Room) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				m.logger.Error("Room handler panic", "room_id", rn.id, "panic", rec)
				err = fmt.Errorf("%w: %v", errHandlerPanic, rec)
			}
			errCh <- err
		}()
		return fn(ctx, r)
	}

	select {
	case rn.mailbox <- wrapped:
	case <-rn.done:
		return ports.ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	var err error
	select {
	case err = <-errCh:
	case <-rn.done:
		select {
		case err = <-errCh:
		default:
			return ports.ErrRoomClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	var end endRoom
	if errors.As(err, &end) {
		return nil
	}
	return err
}

// teardown 主迴圈已停止後才釋放房間資源。
// 順序: 移出本機列表 -> 撤銷 Room Directory 登記 -> Close -> 寫入對局紀錄
func (m *Manager) teardown(rn *runner, reason domain.EndReason) {
	m.remove(rn.id)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if m.directory != nil {
		if err := m.directory.Deregister(ctx, rn.id); err != nil {
			m.logger.Warn("Failed to deregister room", "room_id", rn.id, "error", err)
		}
	}
	record := rn.room.Close(m.now(), reason)
	if m.archive != nil && record != nil {
		if err := m.archive.Save(ctx, record); err != nil {
			m.logger.Warn("Failed to archive match", "room_id", rn.id, "error", err)
		}
	}
	m.logger.Info("Room removed", "room_id", rn.id, "reason", reason)
}
