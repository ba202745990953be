package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordMutation counts one mutation attempt.
func (r *Registry) RecordMutation(operation, result string) {
	r.MutationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordNodeAdded counts a new node and, when chained, its chain edge.
func (r *Registry) RecordNodeAdded(chained bool) {
	r.NodesAddedTotal.Inc()
	if chained {
		r.EdgesAddedTotal.WithLabelValues("chain").Inc()
	}
}

// RecordUserEdge counts a user-drawn edge.
func (r *Registry) RecordUserEdge() {
	r.EdgesAddedTotal.WithLabelValues("user").Inc()
}

// ObserveLayout records one layout pass over a graph of n nodes.
func (r *Registry) ObserveLayout(n int, duration time.Duration) {
	r.LayoutDuration.Observe(duration.Seconds())
	r.LayoutNodes.Observe(float64(n))
}

// RecordPublish records a snapshot publication and how many subscribers
// missed it.
func (r *Registry) RecordPublish(subscribers, delivered int) {
	r.SnapshotsPublished.Inc()
	if missed := subscribers - delivered; missed > 0 {
		r.SnapshotDeliveryDrops.Add(float64(missed))
	}
}

// UpdateSystemMetrics refreshes the process gauges.
func (r *Registry) UpdateSystemMetrics(start time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(start).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}

// IncHTTPRequestsInFlight marks a request as started.
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight marks a request as finished.
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}
