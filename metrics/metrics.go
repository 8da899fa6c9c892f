// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	teamMutations *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guildhall",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "guildhall",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		teamMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guildhall",
			Name:      "team_edge_mutations_total",
			Help:      "Team join/leave calls by operation and outcome (changed, noop).",
		}, []string{"op", "outcome"}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.teamMutations)
	return m
}

// ObserveRequest is safe to call on a nil *Metrics.
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// TeamMutation is safe to call on a nil *Metrics.
func (m *Metrics) TeamMutation(op string, changed bool) {
	if m == nil {
		return
	}
	outcome := "noop"
	if changed {
		outcome = "changed"
	}
	m.teamMutations.WithLabelValues(op, outcome).Inc()
}
