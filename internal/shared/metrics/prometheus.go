package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
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
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	symptomChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "symptom_checks_total",
			Help: "Total number of symptom-check evaluations",
		},
		[]string{"top_severity"},
	)

	outcomePredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outcome_predictions_total",
			Help: "Total number of outcome predictions",
		},
		[]string{"category", "risk_level"},
	)

	patientsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "patients_registered_total",
			Help: "Total number of patients registered",
		},
	)

	predictionLogEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prediction_log_entries_total",
			Help: "Total number of prediction log entries appended",
		},
	)

	hisRecordsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "his_records_imported_total",
			Help: "Total number of records imported from the legacy HIS",
		},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath caps path cardinality for metrics labels
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// --- Business metric helpers ---

// RecordSymptomCheck records a symptom-check evaluation
func RecordSymptomCheck(topSeverity string) {
	symptomChecksTotal.WithLabelValues(topSeverity).Inc()
}

// RecordOutcomePrediction records an outcome prediction
func RecordOutcomePrediction(category, riskLevel string) {
	outcomePredictionsTotal.WithLabelValues(category, riskLevel).Inc()
}

// RecordPatientRegistered records a patient registration
func RecordPatientRegistered() {
	patientsRegistered.Inc()
}

// RecordPredictionLogEntry records a prediction log append
func RecordPredictionLogEntry() {
	predictionLogEntries.Inc()
}

// RecordHISImport records a record imported from the legacy HIS
func RecordHISImport() {
	hisRecordsImported.Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
