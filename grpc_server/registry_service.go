package grpcserver

import (
	"context"
	"errors"

	reg "guildhall/registry"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type registryServiceServer struct {
	registry reg.ServiceRegistry
	logger   *zap.Logger
}

var _ RegistryServiceServer = (*registryServiceServer)(nil)

func NewRegistryServiceServer(r reg.ServiceRegistry, logger *zap.Logger) RegistryServiceServer {
	return &registryServiceServer{registry: r, logger: logger}
}

func (s *registryServiceServer) Discover(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	name := req.GetValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "service name required")
	}
	if s.registry == nil {
		return nil, status.Error(codes.Unavailable, "service discovery is disabled")
	}

	addrs, err := s.registry.Discover(ctx, name, "")
	if err != nil {
		if errors.Is(err, reg.ErrNoInstances) {
			return nil, status.Error(codes.NotFound, err.Error())
		}
		s.logger.Error("Error discovering service", zap.String("service_name", name), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "error discovering service '%s'", name)
	}

	list := &structpb.ListValue{Values: make([]*structpb.Value, len(addrs))}
	for i, addr := range addrs {
		list.Values[i] = structpb.NewStringValue(addr)
	}
	return list, nil
}
