package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Service names on the wire. Messages are protobuf well-known types so no
// generated code is needed on either side.
const (
	AuthServiceName     = "guildhall.v1.AuthService"
	TeamServiceName     = "guildhall.v1.TeamService"
	RegistryServiceName = "guildhall.v1.RegistryService"
)

// Full method names, as seen by interceptors.
const (
	LoginMethod          = "/" + AuthServiceName + "/Login"
	ValidateTokenMethod  = "/" + AuthServiceName + "/ValidateToken"
	JoinTeamMethod       = "/" + TeamServiceName + "/JoinTeam"
	LeaveTeamMethod      = "/" + TeamServiceName + "/LeaveTeam"
	InTeamWithMethod     = "/" + TeamServiceName + "/InTeamWith"
	TeamCharactersMethod = "/" + TeamServiceName + "/TeamCharacters"
	DiscoverMethod       = "/" + RegistryServiceName + "/Discover"
)

// PublicMethods need no bearer token.
var PublicMethods = []string{LoginMethod, ValidateTokenMethod, DiscoverMethod}

// AuthServiceServer exchanges credentials for tokens.
//
//	Login(Struct{username, password}) -> Struct{token, token_type}
//	ValidateToken(StringValue token) -> Struct{valid, user_id, username, error}
type AuthServiceServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ValidateToken(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// TeamServiceServer exposes the caller's team graph. The other user is named
// by username.
type TeamServiceServer interface {
	JoinTeam(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	LeaveTeam(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	InTeamWith(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	// TeamCharacters returns a list of character structs, by name descending.
	TeamCharacters(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

// RegistryServiceServer resolves a service name to healthy "host:port" addresses.
type RegistryServiceServer interface {
	Discover(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
}

var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(LoginMethod, "Login", AuthServiceServer.Login),
		unary(ValidateTokenMethod, "ValidateToken", AuthServiceServer.ValidateToken),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "guildhall/v1/auth.proto",
}

var TeamService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: TeamServiceName,
	HandlerType: (*TeamServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(JoinTeamMethod, "JoinTeam", TeamServiceServer.JoinTeam),
		unary(LeaveTeamMethod, "LeaveTeam", TeamServiceServer.LeaveTeam),
		unary(InTeamWithMethod, "InTeamWith", TeamServiceServer.InTeamWith),
		unary(TeamCharactersMethod, "TeamCharacters", TeamServiceServer.TeamCharacters),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "guildhall/v1/team.proto",
}

var RegistryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: RegistryServiceName,
	HandlerType: (*RegistryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(DiscoverMethod, "Discover", RegistryServiceServer.Discover),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "guildhall/v1/registry.proto",
}

// unary builds the method descriptor generated code would emit for a unary
// RPC served by call.
func unary[S any, Req any, PReq interface {
	*Req
	proto.Message
}, Resp proto.Message](fullMethod, name string, call func(S, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(S), ctx, req.(PReq))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
