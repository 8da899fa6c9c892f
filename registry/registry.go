// Package registry announces this process to a service catalog and looks up
// peers in it.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNoInstances is returned by Discover when no healthy instance is known.
var ErrNoInstances = errors.New("no healthy instances")

// Instance describes one running copy of a service.
type Instance struct {
	ID      string
	Name    string
	Address string
	Port    int
	Tags    []string
	Meta    map[string]string
}

// NewInstance gives the instance a random unique ID prefixed with its name.
func NewInstance(name, address string, port int, tags ...string) Instance {
	return Instance{
		ID:      fmt.Sprintf("%s-%s", name, uuid.NewString()),
		Name:    name,
		Address: address,
		Port:    port,
		Tags:    tags,
	}
}

// ServiceRegistry defines the interface for service registration and discovery.
type ServiceRegistry interface {
	// Register announces the instance together with its health check.
	Register(ctx context.Context, inst Instance, check HealthCheck) error

	// Deregister removes a service instance using its unique ID.
	Deregister(ctx context.Context, id string) error

	// Discover finds healthy instances of a service by name and optional tag.
	// Returns a list of "host:port" strings.
	Discover(ctx context.Context, name, tag string) ([]string, error)
}

// HealthCheck tells the catalog how to probe an instance.
type HealthCheck struct {
	// Exactly one of HTTP and GRPC is set.
	HTTP     string
	GRPC     string
	Interval string
	Timeout  string
}

// HTTPCheck probes GET http://host:port/path.
func HTTPCheck(host string, port int, path, interval, timeout string) HealthCheck {
	return HealthCheck{
		HTTP:     fmt.Sprintf("http://%s:%d%s", host, port, path),
		Interval: interval,
		Timeout:  timeout,
	}
}

// GRPCCheck probes the standard gRPC health service at host:port.
func GRPCCheck(host string, port int, interval, timeout string) HealthCheck {
	return HealthCheck{
		GRPC:     fmt.Sprintf("%s:%d", host, port),
		Interval: interval,
		Timeout:  timeout,
	}
}
