// Package metrics exposes Prometheus instrumentation for the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "camphq_http_requests_total",
		Help: "Number of HTTP requests handled, by method, route pattern and status code",
	}, []string{"method", "pattern", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "camphq_http_request_duration_seconds",
		Help:    "HTTP request latency, by method and route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "pattern"})

	sessionsCleaned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camphq_sessions_cleaned_total",
		Help: "Number of expired sessions removed by the cleanup loop",
	})

	emailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "camphq_emails_sent_total",
		Help: "Number of transactional emails sent, by outcome",
	}, []string{"outcome"})
)

// statusRecorder captures the response code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records a counter and latency histogram per request. The
// route pattern, not the raw path, is used as the label so IDs don't
// explode the cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		requestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

// RecordSessionsCleaned counts sessions removed by the cleanup loop
func RecordSessionsCleaned(n int) {
	sessionsCleaned.Add(float64(n))
}

// RecordEmail counts an email send attempt
func RecordEmail(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	emailsSent.WithLabelValues(outcome).Inc()
}
