package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Flow Metrics
	SessionsActive        prometheus.Gauge
	NodesAddedTotal       prometheus.Counter
	EdgesAddedTotal       *prometheus.CounterVec
	MutationsTotal        *prometheus.CounterVec
	LayoutDuration        prometheus.Histogram
	LayoutNodes           prometheus.Histogram
	SnapshotsPublished    prometheus.Counter
	SnapshotDeliveryDrops prometheus.Counter

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}

// Mutation results recorded on MutationsTotal.
const (
	ResultAdded     = "added"
	ResultNoop      = "noop"
	ResultDuplicate = "duplicate"
	ResultRejected  = "rejected"
)

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initHTTPMetrics()
	r.initFlowMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
