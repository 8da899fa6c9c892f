package grpcserver

import (
	"guildhall/auth"
	"guildhall/interceptors"
	"guildhall/registry"
	"guildhall/services"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Options are the collaborators NewServer registers services for.
type Options struct {
	Users    services.UserService
	Team     services.TeamService
	Tokens   *auth.TokenManager
	Registry registry.ServiceRegistry // nil disables Discover
	Logger   *zap.Logger
}

// NewServer builds the gRPC server with logging and auth interceptors and
// the standard health service. The returned health server starts SERVING.
func NewServer(opts Options) (*grpc.Server, *health.Server) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("grpc")

	public := append([]string{
		"/grpc.health.v1.Health/Check",
		"/grpc.health.v1.Health/Watch",
	}, PublicMethods...)

	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.ZapLoggingInterceptor(logger),
			interceptors.AuthInterceptor(opts.Tokens, public...),
		),
	)

	server.RegisterService(&AuthService_ServiceDesc, NewAuthServiceServer(opts.Users, opts.Tokens, logger))
	server.RegisterService(&TeamService_ServiceDesc, NewTeamServiceServer(opts.Team, logger))
	server.RegisterService(&RegistryService_ServiceDesc, NewRegistryServiceServer(opts.Registry, logger))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, name := range []string{AuthServiceName, TeamServiceName, RegistryServiceName} {
		healthServer.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	return server, healthServer
}
