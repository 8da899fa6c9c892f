package interceptors

import (
	"context"
	"testing"
	"time"

	"guildhall/auth"
	"guildhall/models"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const publicMethod = "/guildhall.v1.AuthService/Login"

func TestAuthInterceptor(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour, nil)
	user := &models.User{Username: "leenik"}
	user.ID = 7
	token, err := tokens.GenerateToken(user)
	require.NoError(t, err)

	interceptor := AuthInterceptor(tokens, publicMethod)
	echo := func(ctx context.Context, req interface{}) (interface{}, error) {
		userID, _ := GetUserIDFromContext(ctx)
		return userID, nil
	}
	call := func(ctx context.Context, method string) (interface{}, error) {
		return interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, echo)
	}
	withAuth := func(value string) context.Context {
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", value))
	}

	t.Run("public method skips auth", func(t *testing.T) {
		got, err := call(context.Background(), publicMethod)
		require.NoError(t, err)
		assert.Equal(t, uint(0), got)
	})

	t.Run("valid token", func(t *testing.T) {
		got, err := call(withAuth("Bearer "+token), "/guildhall.v1.TeamService/JoinTeam")
		require.NoError(t, err)
		assert.Equal(t, uint(7), got)
	})

	failures := []struct {
		name string
		ctx  context.Context
	}{
		{"no metadata", context.Background()},
		{"no authorization", metadata.NewIncomingContext(context.Background(), metadata.Pairs("x", "y"))},
		{"bad format", withAuth(token)},
		{"bad token", withAuth("Bearer nope")},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(tt.ctx, "/guildhall.v1.TeamService/JoinTeam")
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
		})
	}

	t.Run("revoked token", func(t *testing.T) {
		claims, err := tokens.ParseAndValidateToken(context.Background(), token)
		require.NoError(t, err)
		require.NoError(t, tokens.Revoke(context.Background(), claims))

		_, err = call(withAuth("Bearer "+token), "/guildhall.v1.TeamService/JoinTeam")
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
}

func TestInterceptorLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := InterceptorLogger(zap.New(core))

	logger.Log(context.Background(), logging.LevelInfo, "finished call", "grpc.code", "OK", "dangling")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "finished call", entries[0].Message)
	assert.Equal(t, "OK", entries[0].ContextMap()["grpc.code"])
}
