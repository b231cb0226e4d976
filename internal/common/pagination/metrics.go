package pagination

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal is labeled by status (ok, error) and offset_range (0, 1-50, 51-500, 500+).
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "article_pagination_requests_total",
		Help: "Total number of article list requests",
	}, []string{"status", "offset_range"})

	DurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "article_pagination_duration_seconds",
		Help:    "Article list duration, count and page query together",
		Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
	})

	// TotalCount is the active article count seen by the most recent list.
	TotalCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "article_total_count",
		Help: "Current number of active articles",
	})

	// ErrorsTotal is labeled by type (database, timeout).
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "article_pagination_errors_total",
		Help: "Total number of failed article list requests",
	}, []string{"type"})
)

// RecordPage records a served page.
func RecordPage(offset int, total int64, d time.Duration) {
	RequestsTotal.WithLabelValues("ok", offsetRange(offset)).Inc()
	DurationSeconds.Observe(d.Seconds())
	TotalCount.Set(float64(total))
}

// RecordFailure records a failed list call.
func RecordFailure(offset int, errorType string) {
	RequestsTotal.WithLabelValues("error", offsetRange(offset)).Inc()
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

func offsetRange(offset int) string {
	switch {
	case offset <= 0:
		return "0"
	case offset <= 50:
		return "1-50"
	case offset <= 500:
		return "51-500"
	}
	return "500+"
}
