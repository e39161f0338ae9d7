// Package metrics provides Prometheus metrics for the veilcast prediction ledger.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the veilcast service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Business Metrics - prediction lifecycle
	recordsCreated      prometheus.Counter
	recordsRevealed     prometheus.Counter
	accuracyCorrections prometheus.Counter
	duplicateSubmits    prometheus.Counter
	revealLatency       prometheus.Histogram

	// Leaderboard Metrics
	boardInserts   prometheus.Counter
	boardReinserts prometheus.Counter
	boardSize      prometheus.Gauge
	recordsTotal   prometheus.Gauge
	queryLatency   prometheus.Histogram

	// Notification Metrics - best-effort delivery health
	notifyPublished     *prometheus.CounterVec
	notifyDropped       *prometheus.CounterVec
	notifyQueueSize     prometheus.Gauge
	notifyQueueCapacity prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	scoringErrors        prometheus.Counter
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "veilcast",
		subsystem:        "ledger",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // metric declarations are intentionally kept together
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics
	m.recordsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_created_total",
		Help:      "Total number of prediction records created",
	})

	m.recordsRevealed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_revealed_total",
		Help:      "Total number of prediction records revealed and ranked",
	})

	m.accuracyCorrections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "accuracy_corrections_total",
		Help:      "Total number of post-reveal accuracy corrections",
	})

	m.duplicateSubmits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_submissions_total",
		Help:      "Total number of duplicate submission requests detected",
	})

	m.revealLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reveal_latency_milliseconds",
		Help:      "Histogram of reveal processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Leaderboard Metrics
	m.boardInserts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_inserts_total",
		Help:      "Total number of leaderboard insertions",
	})

	m.boardReinserts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_reinserts_total",
		Help:      "Total number of leaderboard repositionings after accuracy corrections",
	})

	m.boardSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_size",
		Help:      "Current number of revealed entries on the leaderboard",
	})

	m.recordsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_total",
		Help:      "Total number of prediction records in the store",
	})

	m.queryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "query_latency_milliseconds",
		Help:      "Histogram of rank/percentile/top-K query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Notification Metrics
	m.notifyPublished = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "notify_published_total",
			Help:      "Total number of notifications published to observers by topic",
		},
		[]string{"topic"},
	)

	m.notifyDropped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "notify_dropped_total",
			Help:      "Total number of notifications dropped under backpressure by topic",
		},
		[]string{"topic"},
	)

	m.notifyQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_queue_size",
		Help:      "Current size of the notification queue",
	})

	m.notifyQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_queue_capacity",
		Help:      "Capacity of the notification queue",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.scoringErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_errors_total",
		Help:      "Total number of scoring errors",
	})

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint, method and type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// Record lifecycle helpers.

// RecordCreation increments the created records counter.
func RecordCreation() {
	globalManager.recordsCreated.Inc()
}

// RecordReveal increments the revealed records counter.
func RecordReveal() {
	globalManager.recordsRevealed.Inc()
}

// RecordAccuracyCorrection increments the accuracy corrections counter.
func RecordAccuracyCorrection() {
	globalManager.accuracyCorrections.Inc()
}

// RecordDuplicateSubmission increments the duplicate submissions counter.
func RecordDuplicateSubmission() {
	globalManager.duplicateSubmits.Inc()
}

// RecordRevealLatency records reveal processing latency in milliseconds.
func RecordRevealLatency(latencyMs float64) {
	globalManager.revealLatency.Observe(latencyMs)
}

// Leaderboard helpers.

// RecordBoardInsert increments the leaderboard insertions counter.
func RecordBoardInsert() {
	globalManager.boardInserts.Inc()
}

// RecordBoardReinsert increments the leaderboard reinsertions counter.
func RecordBoardReinsert() {
	globalManager.boardReinserts.Inc()
}

// UpdateBoardSize sets the current leaderboard size.
func UpdateBoardSize(size int) {
	globalManager.boardSize.Set(float64(size))
}

// UpdateRecordsTotal sets the total records count.
func UpdateRecordsTotal(count int) {
	globalManager.recordsTotal.Set(float64(count))
}

// RecordQueryLatency records query latency in milliseconds.
func RecordQueryLatency(latencyMs float64) {
	globalManager.queryLatency.Observe(latencyMs)
}

// Notification helpers.

// RecordNotifyPublished increments the published notifications counter for a topic.
func RecordNotifyPublished(topic string) {
	globalManager.notifyPublished.WithLabelValues(topic).Inc()
}

// RecordNotifyDropped increments the dropped notifications counter for a topic.
func RecordNotifyDropped(topic string) {
	globalManager.notifyDropped.WithLabelValues(topic).Inc()
}

// UpdateNotifyQueueSize sets the current notification queue size.
func UpdateNotifyQueueSize(size int) {
	globalManager.notifyQueueSize.Set(float64(size))
}

// UpdateNotifyQueueCapacity sets the notification queue capacity.
func UpdateNotifyQueueCapacity(capacity int) {
	globalManager.notifyQueueCapacity.Set(float64(capacity))
}

// HTTP helpers.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error helpers.

// RecordScoringError increments the scoring errors counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordErrorByComponent records an error for a specific component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error for a specific endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System helpers.

// UpdateSystemMemoryUsage sets the current memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used for all metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
