package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// SweepRunsTotal counts retention sweeps by result (ok, error).
	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_sweep_runs_total",
			Help: "Retention sweeper runs",
		},
		[]string{"result"},
	)
	SweepPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_sweep_purged_total",
		Help: "Projects hard-deleted by the retention sweeper",
	})
	SweepFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_sweep_purge_failures_total",
		Help: "Eligible projects the retention sweeper could not delete",
	})

	AssetDeleteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_asset_delete_failures_total",
		Help: "Object store deletes that failed during purge or media replacement",
	})
	LifecycleOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_lifecycle_operations_total",
			Help: "Project lifecycle operations by kind",
		},
		[]string{"operation"},
	)
)
