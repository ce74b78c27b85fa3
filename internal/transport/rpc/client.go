package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/ports"
)

// Client 遠端 RoomService (經由 gRPC 呼叫承載房間的 Pod)
type Client struct {
	conn grpc.ClientConnInterface
}

var _ ports.RoomService = (*Client)(nil)

// Dial 建立連線 (不阻塞，第一次呼叫時才真正連線)
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", target, err)
	}
	return conn, nil
}

// NewClient 建立 RoomService 客戶端；conn 需帶 CallContentSubtype(CodecName)，Dial 已預設
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	if err := c.conn.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(CodecName)); err != nil {
		return fromStatus(err)
	}
	return nil
}

func (c *Client) CreateRoom(ctx context.Context, players []domain.PlayerID) (string, error) {
	var out CreateRoomResponse
	if err := c.invoke(ctx, "CreateRoom", &CreateRoomRequest{Players: players}, &out); err != nil {
		return "", err
	}
	return out.RoomID, nil
}

func (c *Client) DestroyRoom(ctx context.Context, roomID string) error {
	return c.invoke(ctx, "DestroyRoom", &RoomRequest{RoomID: roomID}, &Empty{})
}

func (c *Client) InsertInput(ctx context.Context, roomID string, playerID domain.PlayerID, frame int64, input domain.Input) error {
	return c.invoke(ctx, "InsertInput", &InputRequest{RoomID: roomID, PlayerID: playerID, Frame: frame, Input: input}, &Empty{})
}

func (c *Client) CheckHash(ctx context.Context, roomID string, playerID domain.PlayerID, frame int64, hash uint64) error {
	return c.invoke(ctx, "CheckHash", &HashRequest{RoomID: roomID, PlayerID: playerID, Frame: frame, Hash: hash}, &Empty{})
}

func (c *Client) Reconnect(ctx context.Context, roomID string, playerID domain.PlayerID) (*domain.ReconnectResponse, error) {
	var out domain.ReconnectResponse
	if err := c.invoke(ctx, "Reconnect", &PlayerRequest{RoomID: roomID, PlayerID: playerID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Leave(ctx context.Context, roomID string, playerID domain.PlayerID) error {
	return c.invoke(ctx, "Leave", &PlayerRequest{RoomID: roomID, PlayerID: playerID}, &Empty{})
}

func (c *Client) ListRooms(ctx context.Context) ([]domain.RoomSummary, error) {
	var out ListRoomsResponse
	if err := c.invoke(ctx, "ListRooms", &Empty{}, &out); err != nil {
		return nil, err
	}
	return out.Rooms, nil
}

func (c *Client) RoomSummary(ctx context.Context, roomID string) (*domain.RoomSummary, error) {
	var out domain.RoomSummary
	if err := c.invoke(ctx, "GetRoom", &RoomRequest{RoomID: roomID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
