package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Number of HTTP requests currently being served",
	})

	reviewsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviews_created_total",
		Help: "Total number of reviews successfully created",
	})

	reviewsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviews_updated_total",
		Help: "Total number of reviews successfully updated",
	})

	reviewValidationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "review_validation_failures_total",
		Help: "Total number of review submissions rejected by validation",
	})

	reviewDuplicateRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "review_duplicate_rejections_total",
		Help: "Total number of review submissions rejected by the one-year rule",
	})

	summaryRecalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_recalculations_total",
			Help: "Total number of company summary recalculations by result",
		},
		[]string{"result"},
	)
)

// ReviewCreated increments the create counter.
func ReviewCreated() { reviewsCreatedTotal.Inc() }

// ReviewUpdated increments the update counter.
func ReviewUpdated() { reviewsUpdatedTotal.Inc() }

// ValidationFailed increments the validation failure counter.
func ValidationFailed() { reviewValidationFailuresTotal.Inc() }

// DuplicateRejected increments the duplicate rejection counter.
func DuplicateRejected() { reviewDuplicateRejectionsTotal.Inc() }

// RecalculationFinished records a recalculation outcome ("ok" or "error").
func RecalculationFinished(result string) {
	summaryRecalculationsTotal.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware はリクエスト数とレイテンシを chi のルートパターン単位で記録する。
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		httpRequestsInFlight.Inc()
		next.ServeHTTP(rw, r)
		httpRequestsInFlight.Dec()

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unknown"
		}
		status := strconv.Itoa(rw.statusCode)
		httpRequestsTotal.WithLabelValues(r.Method, pattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, pattern, status).Observe(time.Since(start).Seconds())
	})
}
