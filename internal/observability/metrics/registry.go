package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	latencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	sizeBuckets    = prometheus.ExponentialBuckets(100, 10, 8) // 100B .. 1GB
)

// HTTP server. Paths are normalized before they become labels.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: latencyBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being served",
	})

	HTTPRequestSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_size_bytes",
		Help:    "HTTP request body size in bytes",
		Buckets: sizeBuckets,
	}, []string{"method", "path"})

	HTTPResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_size_bytes",
		Help:    "HTTP response body size in bytes",
		Buckets: sizeBuckets,
	}, []string{"method", "path"})

	RateLimitRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "http_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the per-client rate limiter",
	})
)

// GraphQL root fields and article mutations.
var (
	// GraphQLOperationsTotal is labeled by root field and status (ok, error).
	GraphQLOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphql_operations_total",
		Help: "Total number of resolved GraphQL root fields",
	}, []string{"operation", "status"})

	GraphQLOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graphql_operation_duration_seconds",
		Help:    "GraphQL root field resolution time in seconds",
		Buckets: latencyBuckets[:9],
	}, []string{"operation"})

	// ArticleMutationsTotal is labeled by action (create, update, delete) and
	// result (ok, validation, not_found, internal).
	ArticleMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "article_mutations_total",
		Help: "Total number of article mutations",
	}, []string{"action", "result"})
)

// Database and resilience.
var (
	DBQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Article repository call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
	}, []string{"operation"})

	DBConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_active",
		Help: "Number of database connections in use",
	})

	DBConnectionsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_idle",
		Help: "Number of idle database connections",
	})

	// CircuitBreakerState is 0 while closed, 1 while half-open and 2 while open.
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Current circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})
)

// RecordHTTPRequest records a served request. Empty request bodies are not
// added to the size histogram.
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// RecordOperationDuration records the duration of a named repository call.
func RecordOperationDuration(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// TimeOperation starts timing a repository call; call the result when it returns.
//
//	defer metrics.TimeOperation("list_active")()
func TimeOperation(operation string) func() {
	start := time.Now()
	return func() { RecordOperationDuration(operation, time.Since(start)) }
}
