package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Decode metrics
	decodesTotal   *prometheus.CounterVec
	decodeDuration prometheus.Histogram
	recordsFramed  prometheus.Counter
	samplesEmitted prometheus.Counter
	truncatedLogs  prometheus.Counter

	// Store operation metrics
	storeOperationsTotal *prometheus.CounterVec

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cougarlog_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cougarlog_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cougarlog_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		decodesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cougarlog_decodes_total",
				Help: "Total number of log decode passes",
			},
			[]string{"status"},
		),

		decodeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cougarlog_decode_duration_seconds",
				Help:    "Log decode duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		recordsFramed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "cougarlog_records_framed_total",
				Help: "Total number of records framed across all decodes",
			},
		),

		samplesEmitted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "cougarlog_samples_emitted_total",
				Help: "Total number of samples emitted across all decodes",
			},
		),

		truncatedLogs: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "cougarlog_truncated_logs_total",
				Help: "Total number of decoded logs with a truncated tail",
			},
		),

		storeOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cougarlog_store_operations_total",
				Help: "Total number of session store operations",
			},
			[]string{"operation", "status"},
		),

		authRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cougarlog_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		healthChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cougarlog_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDecode records one decode pass.
func (m *Metrics) RecordDecode(success bool, duration time.Duration, records, samples int, truncated bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.decodesTotal.WithLabelValues(status).Inc()
	m.decodeDuration.Observe(duration.Seconds())
	m.recordsFramed.Add(float64(records))
	m.samplesEmitted.Add(float64(samples))
	if truncated {
		m.truncatedLogs.Inc()
	}
}

// RecordStoreOperation records a session store operation.
func (m *Metrics) RecordStoreOperation(operation string, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.storeOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordAuthRequest records an authentication request.
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHealthCheck records a health check.
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics.
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Wrap the response writer to capture the status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
