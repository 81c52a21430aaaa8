package retry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// attemptsTotal counts every HTTP attempt by result.
	attemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichef_request_attempts_total",
			Help: "Total number of outbound request attempts",
		},
		[]string{"result"},
	)

	// retriesTotal counts retries by the failure that caused them.
	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichef_request_retries_total",
			Help: "Total number of outbound request retries",
		},
		[]string{"reason"},
	)

	// backoffSeconds tracks the delay slept before a rate-limited retry.
	backoffSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aichef_request_backoff_seconds",
			Help:    "Backoff delay before retrying a rate-limited request",
			Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32},
		},
	)
)

const (
	resultOK        = "ok"
	resultHTTPError = "http_error"
	resultTransport = "transport_error"

	reasonRateLimited = "rate_limited"
	reasonServerError = "server_error"
	reasonTransport   = "transport"
)
