// Package server streams the running game to remote spectators over gRPC.
//
// The service has a single server streaming method:
//
//	service Spectator {
//	  rpc Watch(google.protobuf.Empty) returns (stream google.protobuf.Struct);
//	}
//
// Messages are well known protobuf types so no generated code is needed.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"termtris/spectate"
	"termtris/tetris"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName     = "tetris.Spectator"
	watchMethod     = "/" + serviceName + "/Watch"
	watchStreamName = "Watch"
)

// SpectatorServer is the server API for the Spectator service.
type SpectatorServer interface {
	Watch(*emptypb.Empty, grpc.ServerStreamingServer[structpb.Struct]) error
}

// Subscriber hands out snapshot feeds. *spectate.Hub satisfies it.
type Subscriber interface {
	Subscribe() (<-chan *tetris.Snapshot, func())
}

var spectatorServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SpectatorServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    watchStreamName,
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "spectator.proto",
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(SpectatorServer).Watch(m, &grpc.GenericServerStream[emptypb.Empty, structpb.Struct]{ServerStream: stream})
}

// Register adds the Spectator service to s.
func Register(s grpc.ServiceRegistrar, srv SpectatorServer) {
	s.RegisterService(&spectatorServiceDesc, srv)
}

type spectatorServer struct {
	hub    Subscriber
	logger *slog.Logger
}

func New(l *slog.Logger, hub Subscriber) SpectatorServer {
	return &spectatorServer{hub: hub, logger: l}
}

// Watch sends every snapshot published by the game until the spectator leaves
// or the game shuts down.
func (s *spectatorServer) Watch(_ *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	ch, cancel := s.hub.Subscribe()
	defer cancel()
	ctx := stream.Context()
	s.logger.Info("spectator connected")
	defer s.logger.Info("spectator disconnected")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-ch:
			if !ok {
				return status.Error(codes.Unavailable, "game closed")
			}
			msg, err := ToStruct(snap)
			if err != nil {
				return status.Errorf(codes.Internal, "failed to encode snapshot: %v", err)
			}
			if err := stream.Send(msg); err != nil {
				return fmt.Errorf("failed to send snapshot: %w", err)
			}
		}
	}
}

// ToStruct encodes a snapshot as a protobuf Struct with the same fields as
// the JSON served over HTTP.
func ToStruct(s *tetris.Snapshot) (*structpb.Struct, error) {
	b, err := json.Marshal(spectate.NewState(s))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	msg := &structpb.Struct{}
	if err := protojson.Unmarshal(b, msg); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return msg, nil
}

// Watch opens a Watch stream on conn and returns the typed receiving side.
func Watch(ctx context.Context, conn grpc.ClientConnInterface, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := conn.NewStream(ctx, &spectatorServiceDesc.Streams[0], watchMethod, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open Watch stream: %w", err)
	}
	x := &grpc.GenericClientStream[emptypb.Empty, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, fmt.Errorf("failed to send Watch request: %w", err)
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, fmt.Errorf("failed to close Watch request: %w", err)
	}
	return x, nil
}
