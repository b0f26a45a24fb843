// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SnapshotRebuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_rebuilds_total",
			Help: "Total number of snapshot rebuilds by outcome",
		},
		[]string{"outcome"},
	)

	SnapshotRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "snapshot_rebuild_duration_seconds",
			Help: "Duration of snapshot rebuilds in seconds",
		},
	)

	SnapshotProfiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_profiles",
			Help: "Number of enriched profiles in the current snapshot",
		},
	)

	SnapshotJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_jobs",
			Help: "Number of enriched jobs in the current snapshot",
		},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests by route and status",
		},
		[]string{"route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "api_request_duration_seconds",
			Help: "Duration of API request handling in seconds",
		},
		[]string{"route"},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_results",
			Help:    "Result set sizes of profile searches",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)
