// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sleeptrack_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sleeptrack_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	SleepLogsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sleeptrack_sleep_logs_created_total",
			Help: "Sleep logs persisted",
		},
	)

	// GoalUpserts is labelled with outcome created or updated.
	GoalUpserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sleeptrack_goal_upserts_total",
			Help: "Goal submissions by outcome",
		},
		[]string{"outcome"},
	)

	AuthVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sleeptrack_auth_verifications_total",
			Help: "Bearer token verifications by verifier and outcome",
		},
		[]string{"verifier", "outcome"},
	)

	AuthRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sleeptrack_auth_rate_limited_total",
			Help: "Account requests rejected by the per-client limiter",
		},
	)

	// RemoteAuthCircuitState is 0 closed, 1 half-open, 2 open.
	RemoteAuthCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sleeptrack_remote_auth_circuit_state",
			Help: "State of the remote auth circuit breaker",
		},
	)
)
