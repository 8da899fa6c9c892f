package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls the guildhall gRPC services. Login stores the token used by
// the team calls.
type Client struct {
	conn  grpc.ClientConnInterface
	token string
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) authorized(ctx context.Context) context.Context {
	if c.token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	in := &structpb.Struct{Fields: map[string]*structpb.Value{
		"username": structpb.NewStringValue(username),
		"password": structpb.NewStringValue(password),
	}}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, LoginMethod, in, out); err != nil {
		return "", err
	}
	token := out.GetFields()["token"].GetStringValue()
	if token == "" {
		return "", errors.New("login response carried no token")
	}
	c.token = token
	return token, nil
}

// ValidateToken returns the token's user, or valid=false with the reason.
func (c *Client) ValidateToken(ctx context.Context, token string) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, ValidateTokenMethod, wrapperspb.String(token), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) JoinTeam(ctx context.Context, username string) error {
	return c.conn.Invoke(c.authorized(ctx), JoinTeamMethod, wrapperspb.String(username), new(emptypb.Empty))
}

func (c *Client) LeaveTeam(ctx context.Context, username string) error {
	return c.conn.Invoke(c.authorized(ctx), LeaveTeamMethod, wrapperspb.String(username), new(emptypb.Empty))
}

func (c *Client) InTeamWith(ctx context.Context, username string) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.conn.Invoke(c.authorized(ctx), InTeamWithMethod, wrapperspb.String(username), out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

// TeamCharacters returns the character names in server order.
func (c *Client) TeamCharacters(ctx context.Context) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(c.authorized(ctx), TeamCharactersMethod, new(emptypb.Empty), out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		names = append(names, v.GetStructValue().GetFields()["name"].GetStringValue())
	}
	return names, nil
}

func (c *Client) Discover(ctx context.Context, service string) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, DiscoverMethod, wrapperspb.String(service), out); err != nil {
		return nil, err
	}
	addrs := make([]string, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		addrs = append(addrs, v.GetStringValue())
	}
	return addrs, nil
}
