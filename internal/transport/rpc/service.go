package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
)

// ServiceName gRPC 服務全名
const ServiceName = "lockstep.RoomRPC"

// RoomRPCServer RoomRPC 伺服端介面
type RoomRPCServer interface {
	CreateRoom(context.Context, *CreateRoomRequest) (*CreateRoomResponse, error)
	DestroyRoom(context.Context, *RoomRequest) (*Empty, error)
	InsertInput(context.Context, *InputRequest) (*Empty, error)
	CheckHash(context.Context, *HashRequest) (*Empty, error)
	Reconnect(context.Context, *PlayerRequest) (*domain.ReconnectResponse, error)
	Leave(context.Context, *PlayerRequest) (*Empty, error)
	ListRooms(context.Context, *Empty) (*ListRoomsResponse, error)
	GetRoom(context.Context, *RoomRequest) (*domain.RoomSummary, error)
}

// ServiceDesc 手寫的服務描述 (對應 protoc-gen-go-grpc 產生的 _ServiceDesc)
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RoomRPCServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateRoom", RoomRPCServer.CreateRoom),
		unary("DestroyRoom", RoomRPCServer.DestroyRoom),
		unary("InsertInput", RoomRPCServer.InsertInput),
		unary("CheckHash", RoomRPCServer.CheckHash),
		unary("Reconnect", RoomRPCServer.Reconnect),
		unary("Leave", RoomRPCServer.Leave),
		unary("ListRooms", RoomRPCServer.ListRooms),
		unary("GetRoom", RoomRPCServer.GetRoom),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lockstep/room_rpc",
}

// RegisterRoomRPCServer 註冊到 gRPC Server
func RegisterRoomRPCServer(s grpc.ServiceRegistrar, srv RoomRPCServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](method string, call func(RoomRPCServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(RoomRPCServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
