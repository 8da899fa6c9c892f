package grpcserver

import (
	"context"

	"guildhall/auth"
	"guildhall/services"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type authServiceServer struct {
	users  services.UserService
	tokens *auth.TokenManager
	logger *zap.Logger
}

var _ AuthServiceServer = (*authServiceServer)(nil)

func NewAuthServiceServer(users services.UserService, tokens *auth.TokenManager, logger *zap.Logger) AuthServiceServer {
	return &authServiceServer{users: users, tokens: tokens, logger: logger}
}

func (s *authServiceServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	username := fields["username"].GetStringValue()
	password := fields["password"].GetStringValue()
	if username == "" || password == "" {
		return nil, status.Error(codes.InvalidArgument, "username and password are required")
	}

	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, toStatus(s.logger, LoginMethod, err)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, toStatus(s.logger, LoginMethod, err)
	}
	_ = s.users.TouchLastSeen(ctx, user.ID)

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"token":      structpb.NewStringValue(token),
		"token_type": structpb.NewStringValue("Bearer"),
	}}, nil
}

// ValidateToken reports an invalid token in the response, not as an error.
func (s *authServiceServer) ValidateToken(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	claims, err := s.tokens.ParseAndValidateToken(ctx, req.GetValue())
	if err != nil {
		return &structpb.Struct{Fields: map[string]*structpb.Value{
			"valid": structpb.NewBoolValue(false),
			"error": structpb.NewStringValue(err.Error()),
		}}, nil
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"valid":    structpb.NewBoolValue(true),
		"user_id":  structpb.NewNumberValue(float64(claims.UserID)),
		"username": structpb.NewStringValue(claims.Username),
	}}, nil
}
