// Package metrics provides Prometheus metrics for the outfit service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Scoring
	scoringComputations prometheus.Counter

	// Index rebuilds
	indexRebuilds         prometheus.Counter
	indexRebuildDuration  prometheus.Histogram
	indexLastRebuildUnix  prometheus.Gauge
	indexSize             prometheus.Gauge
	indexResolutionErrors *prometheus.CounterVec
	indexGarmentCount     prometheus.Gauge

	// Lookups and caches
	lookups          *prometheus.CounterVec
	malformedQueries *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	cacheEntries     *prometheus.GaugeVec

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
		namespace:        "outfit",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.scoringComputations = auto.NewCounter(m.counterOpts(
		"scoring_computations_total", "Total number of combinations scored"))

	m.indexRebuilds = auto.NewCounter(m.counterOpts(
		"index_rebuilds_total", "Total number of compatibility index rebuilds"))
	m.indexRebuildDuration = auto.NewHistogram(m.histogramOpts(
		"index_rebuild_duration_milliseconds", "Compatibility index rebuild duration in milliseconds", m.histogramBuckets))
	m.indexLastRebuildUnix = auto.NewGauge(m.gaugeOpts(
		"index_last_rebuild_unix", "Unix timestamp of the last index rebuild"))
	m.indexSize = auto.NewGauge(m.gaugeOpts(
		"index_combinations", "Number of scored combinations in the current index"))
	m.indexGarmentCount = auto.NewGauge(m.gaugeOpts(
		"index_garments", "Number of garments in the current catalog"))
	m.indexResolutionErrors = auto.NewCounterVec(m.counterOpts(
		"index_resolution_errors_total", "Curated combination references dropped during index builds"),
		[]string{"reason"})

	m.lookups = auto.NewCounterVec(m.counterOpts(
		"lookups_total", "Total number of lookups by operation"),
		[]string{"operation"})
	m.malformedQueries = auto.NewCounterVec(m.counterOpts(
		"malformed_queries_total", "Lookups rejected because the partial combination was malformed"),
		[]string{"operation"})
	m.cacheHits = auto.NewCounterVec(m.counterOpts(
		"cache_hits_total", "Lookup cache hits by cache"),
		[]string{"cache"})
	m.cacheMisses = auto.NewCounterVec(m.counterOpts(
		"cache_misses_total", "Lookup cache misses by cache"),
		[]string{"cache"})
	m.cacheEntries = auto.NewGaugeVec(m.gaugeOpts(
		"cache_entries", "Entries held by each lookup cache of the current index"),
		[]string{"cache"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts(
		"error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordScoring increments the scoring counter.
func RecordScoring() {
	globalManager.scoringComputations.Inc()
}

// Index Metrics Functions.

// RecordIndexRebuild records a completed rebuild and its duration.
func RecordIndexRebuild(durationMs float64, unix int64) {
	globalManager.indexRebuilds.Inc()
	globalManager.indexRebuildDuration.Observe(durationMs)
	globalManager.indexLastRebuildUnix.Set(float64(unix))
}

// UpdateIndexSize sets the number of scored combinations and garments in the current index.
func UpdateIndexSize(combinations, garments int) {
	globalManager.indexSize.Set(float64(combinations))
	globalManager.indexGarmentCount.Set(float64(garments))
}

// RecordResolutionError counts a dropped reference during an index build.
func RecordResolutionError(reason string) {
	globalManager.indexResolutionErrors.WithLabelValues(reason).Inc()
}

// Lookup Metrics Functions.

// RecordLookup counts a lookup by operation.
func RecordLookup(operation string) {
	globalManager.lookups.WithLabelValues(operation).Inc()
}

// RecordMalformedQuery counts a lookup rejected for a malformed partial.
func RecordMalformedQuery(operation string) {
	globalManager.malformedQueries.WithLabelValues(operation).Inc()
}

// RecordCacheHit counts a cache hit.
func RecordCacheHit(cache string) {
	globalManager.cacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss counts a cache miss.
func RecordCacheMiss(cache string) {
	globalManager.cacheMisses.WithLabelValues(cache).Inc()
}

// UpdateCacheEntries sets the entry count of a cache.
func UpdateCacheEntries(cache string, entries int) {
	globalManager.cacheEntries.WithLabelValues(cache).Set(float64(entries))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
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
