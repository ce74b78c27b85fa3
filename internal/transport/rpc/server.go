package rpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/lockstep"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
)

// Server 負責將 gRPC 請求轉換為 RoomService 調用
type Server struct {
	svc    ports.RoomService
	logger *slog.Logger
}

var _ RoomRPCServer = (*Server)(nil)

// NewServer 建立 gRPC Handler
func NewServer(svc ports.RoomService, logger *slog.Logger) *Server {
	return &Server{
		svc:    svc,
		logger: logger.With("component", "room_rpc"),
	}
}

// CreateRoom 建立房間
func (s *Server) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*CreateRoomResponse, error) {
	id, err := s.svc.CreateRoom(ctx, req.Players)
	if err != nil {
		s.logger.Warn("CreateRoom failed", "players", req.Players, "error", err)
		return nil, toStatus(err)
	}
	return &CreateRoomResponse{RoomID: id}, nil
}

// DestroyRoom 結束房間
func (s *Server) DestroyRoom(ctx context.Context, req *RoomRequest) (*Empty, error) {
	if err := s.svc.DestroyRoom(ctx, req.RoomID); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

// InsertInput 投遞輸入
func (s *Server) InsertInput(ctx context.Context, req *InputRequest) (*Empty, error) {
	if err := s.svc.InsertInput(ctx, req.RoomID, req.PlayerID, req.Frame, req.Input); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

// CheckHash 比對 Hash
func (s *Server) CheckHash(ctx context.Context, req *HashRequest) (*Empty, error) {
	if err := s.svc.CheckHash(ctx, req.RoomID, req.PlayerID, req.Frame, req.Hash); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

// Reconnect 斷線重連資訊
func (s *Server) Reconnect(ctx context.Context, req *PlayerRequest) (*domain.ReconnectResponse, error) {
	resp, err := s.svc.Reconnect(ctx, req.RoomID, req.PlayerID)
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

// Leave 玩家離開
func (s *Server) Leave(ctx context.Context, req *PlayerRequest) (*Empty, error) {
	if err := s.svc.Leave(ctx, req.RoomID, req.PlayerID); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

// ListRooms 房間列表
func (s *Server) ListRooms(ctx context.Context, _ *Empty) (*ListRoomsResponse, error) {
	rooms, err := s.svc.ListRooms(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListRoomsResponse{Rooms: rooms}, nil
}

// GetRoom 單一房間摘要
func (s *Server) GetRoom(ctx context.Context, req *RoomRequest) (*domain.RoomSummary, error) {
	info, err := s.svc.RoomSummary(ctx, req.RoomID)
	if err != nil {
		return nil, toStatus(err)
	}
	return info, nil
}

// statusTable 領域錯誤與 gRPC 狀態碼的對應 (雙向使用)
var statusTable = []struct {
	err  error
	code codes.Code
}{
	{ports.ErrRoomNotFound, codes.NotFound},
	{ports.ErrInvalidParticipants, codes.InvalidArgument},
	{ports.ErrUnknownParticipant, codes.PermissionDenied},
	{ports.ErrPlayerLeft, codes.FailedPrecondition},
	{ports.ErrRoomClosed, codes.Unavailable},
	{ports.ErrMailboxFull, codes.ResourceExhausted},
	{lockstep.ErrFrameNotRetained, codes.OutOfRange},
}

func toStatus(err error) error {
	for _, e := range statusTable {
		if errors.Is(err, e.err) {
			return status.Error(e.code, err.Error())
		}
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// fromStatus 把 gRPC 錯誤還原成領域錯誤，讓呼叫端可以用 errors.Is 判斷
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, e := range statusTable {
		if st.Code() == e.code {
			return &remoteError{sentinel: e.err, msg: st.Message()}
		}
	}
	return err
}

type remoteError struct {
	sentinel error
	msg      string
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.sentinel }
