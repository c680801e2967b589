// Package metrics provides Prometheus metrics for the ninebox session service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the ninebox service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	rosterBuckets    []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Session lifecycle
	sessionsActive    prometheus.Gauge
	sessionsCreated   prometheus.Counter
	sessionsEnded     *prometheus.CounterVec
	baselineEmployees prometheus.Histogram

	// Engine activity
	moves        *prometheus.CounterVec
	notesUpdated *prometheus.CounterVec
	modeToggles  *prometheus.CounterVec
	exports      *prometheus.CounterVec
	domainErrors *prometheus.CounterVec

	// Repository
	repositoryQueryLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ninebox",
		subsystem:        "session",
		histogramBuckets: prometheus.DefBuckets,
		rosterBuckets:    []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics on the configured registry.
func (m *Manager) initializeMetrics() {
	m.sessionsActive = m.gauge("active", "Number of live review sessions")
	m.sessionsCreated = m.counter("created_total", "Total number of sessions created")
	m.sessionsEnded = m.counterVec("ended_total", "Total number of sessions ended, by reason", "reason")
	m.baselineEmployees = m.histogram("baseline_employees", "Number of employees loaded per session", m.rosterBuckets)

	m.moves = m.counterVec("moves_total", "Employee moves by mode and outcome (drift or revert)", "mode", "outcome")
	m.notesUpdated = m.counterVec("notes_updated_total", "Change-note updates by mode", "mode")
	m.modeToggles = m.counterVec("mode_toggles_total", "Donut mode toggles by resulting mode", "mode")
	m.exports = m.counterVec("exports_total", "Session exports by format", "format")
	m.domainErrors = m.counterVec("domain_errors_total", "Engine errors by operation and kind", "operation", "kind")

	m.repositoryQueryLatency = m.histogram("repository_query_latency_milliseconds",
		"Session store lookup latency in milliseconds", m.histogramBuckets)

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets, "endpoint", "method", "status_code")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Total number of errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds",
		"Latency of operations that resulted in errors", m.histogramBuckets, "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Session Lifecycle Functions.

// UpdateActiveSessions sets the number of live sessions.
func UpdateActiveSessions(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordSessionCreated counts a new session and the size of its baseline.
func RecordSessionCreated(employees int) {
	globalManager.sessionsCreated.Inc()
	globalManager.baselineEmployees.Observe(float64(employees))
}

// RecordSessionEnded counts a session drop; reason is "closed" or "expired".
func RecordSessionEnded(reason string) {
	globalManager.sessionsEnded.WithLabelValues(reason).Inc()
}

// Engine Functions.

// RecordMove counts a move; outcome is "drift" or "revert".
func RecordMove(mode, outcome string) {
	globalManager.moves.WithLabelValues(mode, outcome).Inc()
}

// RecordNoteUpdated counts a note update in the given mode's ledger.
func RecordNoteUpdated(mode string) {
	globalManager.notesUpdated.WithLabelValues(mode).Inc()
}

// RecordModeToggle counts a mode switch to mode.
func RecordModeToggle(mode string) {
	globalManager.modeToggles.WithLabelValues(mode).Inc()
}

// RecordExport counts an export in format ("xlsx" or "json").
func RecordExport(format string) {
	globalManager.exports.WithLabelValues(format).Inc()
}

// RecordDomainError counts an engine error by operation and kind label.
func RecordDomainError(operation, kind string) {
	globalManager.domainErrors.WithLabelValues(operation, kind).Inc()
}

// RecordRepositoryQueryLatency records session lookup latency in milliseconds.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// HTTP Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
