package interceptors

import (
	"context"

	"guildhall/auth"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey struct{}

// ClaimsKey holds the validated token claims of the caller.
var ClaimsKey = contextKey{}

// AuthInterceptor returns a new unary server interceptor for JWT
// authentication. Methods listed in public skip the check.
func AuthInterceptor(tokens *auth.TokenManager, public ...string) grpc.UnaryServerInterceptor {
	publicMethods := make(map[string]bool, len(public))
	for _, m := range public {
		publicMethods[m] = true
	}

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		claims, err := authenticate(ctx, tokens)
		if err != nil {
			return nil, err
		}

		return handler(context.WithValue(ctx, ClaimsKey, claims), req)
	}
}

// authenticate validates the bearer token carried in the incoming metadata.
func authenticate(ctx context.Context, tokens *auth.TokenManager) (*auth.CustomClaims, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "metadata is not provided")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "authorization token is not provided")
	}
	tokenString, ok := auth.BearerToken(values[0])
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "invalid authorization header format")
	}
	claims, err := tokens.ParseAndValidateToken(ctx, tokenString)
	if err != nil {
		return nil, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
	}
	return claims, nil
}

// GetClaimsFromContext returns the claims stored by AuthInterceptor.
func GetClaimsFromContext(ctx context.Context) (*auth.CustomClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.CustomClaims)
	return claims, ok && claims != nil
}

// GetUserIDFromContext returns the ID of the authenticated caller.
func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	claims, ok := GetClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}
