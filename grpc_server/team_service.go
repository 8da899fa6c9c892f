package grpcserver

import (
	"context"

	"guildhall/interceptors"
	"guildhall/models"
	"guildhall/services"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type teamServiceServer struct {
	team   services.TeamService
	logger *zap.Logger
}

var _ TeamServiceServer = (*teamServiceServer)(nil)

func NewTeamServiceServer(team services.TeamService, logger *zap.Logger) TeamServiceServer {
	return &teamServiceServer{team: team, logger: logger}
}

func callerID(ctx context.Context) (uint, error) {
	userID, ok := interceptors.GetUserIDFromContext(ctx)
	if !ok {
		return 0, status.Error(codes.Unauthenticated, "cannot identify requesting user")
	}
	return userID, nil
}

func (s *teamServiceServer) JoinTeam(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.team.JoinTeamByUsername(ctx, userID, req.GetValue()); err != nil {
		return nil, toStatus(s.logger, JoinTeamMethod, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *teamServiceServer) LeaveTeam(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.team.LeaveTeamByUsername(ctx, userID, req.GetValue()); err != nil {
		return nil, toStatus(s.logger, LeaveTeamMethod, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *teamServiceServer) InTeamWith(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	in, err := s.team.InTeamWithUsername(ctx, userID, req.GetValue())
	if err != nil {
		return nil, toStatus(s.logger, InTeamWithMethod, err)
	}
	return wrapperspb.Bool(in), nil
}

func (s *teamServiceServer) TeamCharacters(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	chars, err := s.team.TeamCharacters(ctx, userID)
	if err != nil {
		return nil, toStatus(s.logger, TeamCharactersMethod, err)
	}

	list := &structpb.ListValue{Values: make([]*structpb.Value, len(chars))}
	for i := range chars {
		list.Values[i] = structpb.NewStructValue(characterStruct(&chars[i]))
	}
	return list, nil
}

func characterStruct(c *models.Character) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":           structpb.NewNumberValue(float64(c.ID)),
		"name":         structpb.NewStringValue(c.Name),
		"level":        structpb.NewNumberValue(float64(c.Level)),
		"user_id":      structpb.NewNumberValue(float64(c.UserID)),
		"origin":       structpb.NewStringValue(c.Origin),
		"current_race": structpb.NewStringValue(c.CurrentRace),
	}}
}
