// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landscape_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "landscape_http_request_duration_seconds",
		Help:    "HTTP request latency by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	AvailabilityCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landscape_availability_cache_total",
		Help: "Availability cache lookups by result (hit, miss, stale, error).",
	}, []string{"result"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landscape_notifications_total",
		Help: "Outbound notifications by channel and result.",
	}, []string{"channel", "result"})

	GatewayCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landscape_payment_gateway_calls_total",
		Help: "Payment gateway calls by operation and result.",
	}, []string{"operation", "result"})

	CronRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landscape_cron_runs_total",
		Help: "Scheduled job runs by job and result.",
	}, []string{"job", "result"})
)

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
