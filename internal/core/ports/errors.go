package ports

import "errors"

// 定義 Ports 層級通用的錯誤
var (
	ErrRoomNotFound          = errors.New("room not found")
	ErrRoomClosed            = errors.New("room closed")
	ErrUnknownParticipant    = errors.New("unknown participant")
	ErrPlayerLeft            = errors.New("player left room")
	ErrInvalidParticipants   = errors.New("invalid participants")
	ErrMailboxFull           = errors.New("room mailbox full")
	ErrDirectoryEntryMissing = errors.New("room directory entry missing")
)
