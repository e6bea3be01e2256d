package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_records_http_requests_total",
			Help: "HTTP requests by method, route template and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "customer_records_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route template",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	WritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_records_writes_total",
			Help: "Successful writes by entity and operation",
		},
		[]string{"entity", "op"}, // customer|address , create|update|delete
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		WritesTotal,
	)
}

// RecordWrite counts one successful write
func RecordWrite(entity, op string) {
	WritesTotal.WithLabelValues(entity, op).Inc()
}
