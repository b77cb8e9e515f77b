// File: utils/metrics.go
package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gls_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gls_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	BackendCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gls_backend_calls_total",
			Help: "Total number of calls made to the alliance REST backend",
		},
		[]string{"endpoint", "outcome"},
	)

	BackendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gls_backend_call_duration_seconds",
			Help:    "Duration of backend calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	RegistrationSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gls_registration_submissions_total",
			Help: "Registration submissions by profile type and outcome",
		},
		[]string{"profile_type", "outcome"},
	)

	DirectoryQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gls_directory_queries_total",
			Help: "Directory queries by directory kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	DirectoryStaleResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gls_directory_stale_responses_total",
			Help: "Directory responses discarded because a newer query was dispatched",
		},
	)
)
