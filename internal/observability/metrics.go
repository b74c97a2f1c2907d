// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by query outcome.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	// SessionsIssued counts sessions created by logins.
	SessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_sessions_issued_total",
		Help: "Total number of sessions issued",
	})

	// AuthFailures counts rejected authentication attempts by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_auth_failures_total",
		Help: "Total number of failed authentication attempts",
	}, []string{"reason"})
)
