// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActiveSessions tracks the number of attached clients.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nbody_active_sessions",
			Help: "Number of active simulation sessions",
		},
	)

	// StepDuration tracks the wall time of one physics step.
	StepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nbody_physics_step_duration_seconds",
			Help:    "Time spent in one force computation plus integration",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	// FramesTotal counts advanced physics frames across all sessions.
	FramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nbody_frames_total",
			Help: "Total physics frames advanced",
		},
	)

	// SnapshotsTotal counts snapshots handed to the transport.
	SnapshotsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nbody_snapshots_total",
			Help: "Total snapshots enqueued for clients",
		},
	)

	// SnapshotsDropped counts snapshots discarded because the peer could
	// not keep up.
	SnapshotsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nbody_snapshots_dropped_total",
			Help: "Snapshots dropped due to transport back-pressure",
		},
	)
)

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
