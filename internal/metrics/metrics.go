package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adledger_http_requests_total",
		Help: "Total HTTP requests by operation and status code",
	}, []string{"operation", "code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "adledger_http_request_duration_seconds",
		Help:    "HTTP request latency by operation",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	KVOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adledger_kv_operations_total",
		Help: "Key-value operations by kind and result",
	}, []string{"op", "result"})

	KVValueBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "adledger_kv_value_bytes",
		Help:    "Size of values written to the store",
		Buckets: prometheus.ExponentialBuckets(64, 4, 8),
	})
)

const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultOK    = "ok"
	ResultError = "error"
)
