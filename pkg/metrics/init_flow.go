package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initFlowMetrics() {
	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "promptflow_sessions_active",
			Help: "Number of live flow sessions",
		},
	)

	r.NodesAddedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "promptflow_nodes_added_total",
			Help: "Nodes created from non-blank prompts",
		},
	)

	r.EdgesAddedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptflow_edges_added_total",
			Help: "Edges appended to a graph, by origin (chain or user)",
		},
		[]string{"origin"},
	)

	r.MutationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptflow_mutations_total",
			Help: "Graph mutation attempts by operation and result",
		},
		[]string{"operation", "result"},
	)

	r.LayoutDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "promptflow_layout_duration_seconds",
			Help:    "Time spent computing a full layout pass",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)

	r.LayoutNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "promptflow_layout_nodes",
			Help:    "Graph size at each layout pass",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	r.SnapshotsPublished = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "promptflow_snapshots_published_total",
			Help: "Snapshots handed to the event broker",
		},
	)

	r.SnapshotDeliveryDrops = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "promptflow_snapshot_delivery_drops_total",
			Help: "Snapshot deliveries skipped because a subscriber buffer was full",
		},
	)
}
