package lockstep

import "errors"

var (
	// ErrFrameNotRetained 請求的幀已被淘汰 (超出保留窗口)
	ErrFrameNotRetained = errors.New("frame not retained")
	// ErrLateInput 輸入所屬的幀已被消化
	ErrLateInput = errors.New("input for consumed frame")
	// ErrInputTooFarAhead 輸入超出預讀窗口
	ErrInputTooFarAhead = errors.New("input beyond lookahead window")
	// ErrInvariantViolation 排程邏輯錯誤 (指標倒退、重複提交)，房間必須中止
	ErrInvariantViolation = errors.New("lockstep invariant violation")
	// ErrBufferReleased 緩衝區已釋放
	ErrBufferReleased = errors.New("frame buffer released")
)
