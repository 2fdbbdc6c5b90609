package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ArchiveCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climacast_archive_calls_total",
			Help: "Total remote archive calls",
		},
		[]string{"transport", "status"},
	)

	ArchiveLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "climacast_archive_latency_seconds",
			Help:    "Remote archive call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"transport"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climacast_cache_lookups_total",
			Help: "Observation cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	CacheWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "climacast_cache_write_failures_total",
			Help: "Observation cache writes that could not be persisted",
		},
	)

	YearResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climacast_year_resolutions_total",
			Help: "Per-year fetch results by resolution source",
		},
		[]string{"source"},
	)

	PredictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "climacast_predictions_total",
			Help: "Predictions produced",
		},
	)
)
