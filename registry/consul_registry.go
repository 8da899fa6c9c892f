package registry

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"guildhall/config"

	consulapi "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

type consulRegistry struct {
	client *consulapi.Client
	logger *zap.SugaredLogger
}

var _ ServiceRegistry = (*consulRegistry)(nil)

// NewConsulRegistry creates a new registry backed by the Consul agent at
// cfg.Address and checks that the agent answers.
func NewConsulRegistry(cfg config.ConsulConfig, logger *zap.SugaredLogger) (ServiceRegistry, error) {
	consulConfig := consulapi.DefaultConfig()
	if cfg.Address != "" {
		consulConfig.Address = cfg.Address
	}

	client, err := consulapi.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}

	if _, err := client.Agent().NodeName(); err != nil {
		return nil, fmt.Errorf("consul agent %s unreachable: %w", consulConfig.Address, err)
	}
	logger.Infow("Consul agent reachable", "address", consulConfig.Address)

	return &consulRegistry{
		client: client,
		logger: logger.Named("consul"),
	}, nil
}

func (r *consulRegistry) Register(ctx context.Context, inst Instance, check HealthCheck) error {
	protocol := "http"
	if check.GRPC != "" {
		protocol = "grpc"
	}
	meta := map[string]string{"protocol": protocol}
	for k, v := range inst.Meta {
		meta[k] = v
	}

	reg := &consulapi.AgentServiceRegistration{
		ID:      inst.ID,
		Name:    inst.Name,
		Tags:    inst.Tags,
		Port:    inst.Port,
		Address: inst.Address,
		Meta:    meta,
		Check: &consulapi.AgentServiceCheck{
			CheckID:                        fmt.Sprintf("check_%s_%s", inst.ID, protocol),
			Name:                           fmt.Sprintf("%s check for %s", protocol, inst.ID),
			HTTP:                           check.HTTP,
			GRPC:                           check.GRPC,
			Interval:                       check.Interval,
			Timeout:                        check.Timeout,
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	opts := consulapi.ServiceRegisterOpts{}.WithContext(ctx)
	if err := r.client.Agent().ServiceRegisterOpts(reg, opts); err != nil {
		r.logger.Errorw("Register failed", "id", inst.ID, "error", err)
		return fmt.Errorf("register %s: %w", inst.ID, err)
	}
	r.logger.Infow("Registered", "id", inst.ID, "name", inst.Name,
		"addr", net.JoinHostPort(inst.Address, strconv.Itoa(inst.Port)), "protocol", protocol)
	return nil
}

// Deregister removes a service instance from Consul.
func (r *consulRegistry) Deregister(ctx context.Context, id string) error {
	opts := (&consulapi.QueryOptions{}).WithContext(ctx)
	if err := r.client.Agent().ServiceDeregisterOpts(id, opts); err != nil {
		r.logger.Errorw("Deregister failed", "id", id, "error", err)
		return fmt.Errorf("deregister %s: %w", id, err)
	}
	r.logger.Infow("Deregistered", "id", id)
	return nil
}

// Discover returns only instances whose health checks pass.
func (r *consulRegistry) Discover(ctx context.Context, name, tag string) ([]string, error) {
	opts := (&consulapi.QueryOptions{}).WithContext(ctx)
	instances, _, err := r.client.Health().Service(name, tag, true, opts)
	if err != nil {
		r.logger.Warnw("Health query failed", "name", name, "tag", tag, "error", err)
		return nil, fmt.Errorf("discover %s: %w", name, err)
	}
	if len(instances) == 0 {
		return nil, fmt.Errorf("service %s: %w", name, ErrNoInstances)
	}

	addrs := make([]string, 0, len(instances))
	for _, entry := range instances {
		host := entry.Service.Address
		if host == "" && entry.Node != nil {
			host = entry.Node.Address
		}
		addrs = append(addrs, net.JoinHostPort(host, strconv.Itoa(entry.Service.Port)))
	}
	r.logger.Debugw("Discovered", "name", name, "tag", tag, "addrs", addrs)
	return addrs, nil
}
