package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"guildhall/auth"
	"guildhall/config"
	"guildhall/controllers"
	"guildhall/database"
	grpcserver "guildhall/grpc_server"
	"guildhall/metrics"
	"guildhall/registry"
	"guildhall/repositories"
	"guildhall/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// app owns every long-lived resource of the serve command.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	rdb      *redis.Client
	registry registry.ServiceRegistry
	http     *http.Server
	grpc     *grpc.Server
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	if cfg.InsecureSecret() {
		logger.Warn("Using the built-in JWT secret; set GUILDHALL_JWT_SECRET in production")
	}

	db, err := database.InitDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, db: db}

	var revoker auth.Revoker
	if cfg.Redis.Addr != "" {
		a.rdb, err = database.OpenRedis(ctx, cfg.Redis, logger)
		if err != nil {
			a.close()
			return nil, err
		}
		revoker = auth.NewRedisRevoker(a.rdb)
	}
	tokens := auth.NewTokenManager(cfg.JwtSecret, cfg.TokenTTL, revoker)

	if cfg.Consul.Enabled {
		a.registry, err = registry.NewConsulRegistry(cfg.Consul, logger.Sugar())
		if err != nil {
			a.close()
			return nil, err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store := repositories.NewStore(db)
	users := services.NewUserService(store)
	team := services.NewTeamService(store, m)

	container := controllers.NewContainer(controllers.Dependencies{
		Users:      users,
		Team:       team,
		Characters: services.NewCharacterService(store),
		Weapons:    services.NewWeaponService(store),
		Games:      services.NewGameService(store),
		Tokens:     tokens,
		Logger:     logger,
		Metrics:    m,
		Gatherer:   reg,
		Health: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})
	a.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           container,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.grpc, _ = grpcserver.NewServer(grpcserver.Options{
		Users:    users,
		Team:     team,
		Tokens:   tokens,
		Registry: a.registry,
		Logger:   logger,
	})
	return a, nil
}

// Run serves until ctx is cancelled or a server fails, then shuts down.
func (a *app) Run(ctx context.Context) error {
	defer a.close()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("HTTP server listening", zap.String("addr", a.http.Addr))
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		a.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
		if err := a.grpc.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	instances := a.register(gctx)

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, id := range instances {
			_ = a.registry.Deregister(shutdownCtx, id)
		}
		a.grpc.GracefulStop()
		return a.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// register announces the HTTP and gRPC endpoints to Consul and returns the
// instance IDs to deregister on shutdown.
func (a *app) register(ctx context.Context) []string {
	if a.registry == nil {
		return nil
	}
	c := a.cfg.Consul
	host := c.AdvertiseHost

	endpoints := []struct {
		inst  registry.Instance
		check registry.HealthCheck
	}{
		{
			registry.NewInstance(a.cfg.ServiceName+"-http", host, a.cfg.HTTPPort, "http"),
			registry.HTTPCheck(host, a.cfg.HTTPPort, "/healthz", c.CheckInterval, c.CheckTimeout),
		},
		{
			registry.NewInstance(a.cfg.ServiceName+"-grpc", host, a.cfg.GRPCPort, "grpc"),
			registry.GRPCCheck(host, a.cfg.GRPCPort, c.CheckInterval, c.CheckTimeout),
		},
	}

	var ids []string
	for _, e := range endpoints {
		if err := a.registry.Register(ctx, e.inst, e.check); err != nil {
			a.logger.Warn("Service registration failed; continuing unregistered", zap.String("service", e.inst.Name), zap.Error(err))
			continue
		}
		ids = append(ids, e.inst.ID)
	}
	return ids
}

func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
