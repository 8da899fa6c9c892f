package grpcserver

import (
	"errors"

	"guildhall/services"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// codeFor maps a service error to its gRPC status code.
func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, services.ErrConflict):
		return codes.AlreadyExists
	case errors.Is(err, services.ErrSelfReference), errors.Is(err, services.ErrInvalidInput):
		return codes.InvalidArgument
	case errors.Is(err, services.ErrForbidden):
		return codes.PermissionDenied
	case errors.Is(err, services.ErrInvalidCredentials):
		return codes.Unauthenticated
	case errors.Is(err, services.ErrGameFull):
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// toStatus converts service errors to gRPC errors. Internal errors are
// logged and not exposed to the caller.
func toStatus(logger *zap.Logger, method string, err error) error {
	code := codeFor(err)
	if code == codes.Internal {
		logger.Error("Unhandled service error", zap.String("method", method), zap.Error(err))
		return status.Error(codes.Internal, "an internal error occurred")
	}
	return status.Error(code, err.Error())
}
