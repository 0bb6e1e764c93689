// Package metrics provides Prometheus metrics for the props-lab service.
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

// Breaker states as exported by the breaker gauge.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Upstream feed
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamRetries  *prometheus.CounterVec
	breakerState     *prometheus.GaugeVec

	// Cache
	cacheLookups *prometheus.CounterVec
	cacheEntries prometheus.Gauge

	// Fallback chains
	fallbackResolutions *prometheus.CounterVec

	// Dashboard assembly
	dashboardBuilds   *prometheus.CounterVec
	buildDuration     prometheus.Histogram
	dashboardEvents   prometheus.Gauge
	dashboardEntities prometheus.Gauge
	entitiesDropped   *prometheus.CounterVec

	// Rebuild queue and worker
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	queueDequeue       prometheus.Counter
	rebuildsCoalesced  prometheus.Counter
	workerJobs         *prometheus.CounterVec
	workerLatency      prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

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
		namespace:        "propslab",
		subsystem:        "pipeline",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval is how often system gauges should be sampled.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Upstream feed
	m.upstreamRequests = m.counterVec("upstream_requests_total",
		"Upstream HTTP attempts by source and outcome", "source", "outcome")
	m.upstreamDuration = m.histogramVec("upstream_request_duration_milliseconds",
		"Upstream HTTP attempt latency in milliseconds", "source")
	m.upstreamRetries = m.counterVec("upstream_retries_total",
		"Upstream retries after a retryable failure", "source")
	m.breakerState = promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "upstream_breaker_state",
		Help:        "Circuit breaker state per source (0 closed, 1 half-open, 2 open)",
		ConstLabels: m.customLabels,
	}, []string{"source"})

	// Cache
	m.cacheLookups = m.counterVec("cache_lookups_total",
		"Cache lookups by data class and result", "class", "result")
	m.cacheEntries = m.gauge("cache_entries", "Entries currently held by the cache, stale ones included")

	// Fallback chains
	m.fallbackResolutions = m.counterVec("fallback_resolutions_total",
		"Fallback chain resolutions by query and winning source", "query", "source")

	// Dashboard assembly
	m.dashboardBuilds = m.counterVec("dashboard_builds_total",
		"Dashboard builds by trigger", "trigger")
	m.buildDuration = m.histogram("dashboard_build_duration_milliseconds",
		"Dashboard build duration in milliseconds", m.histogramBuckets)
	m.dashboardEvents = m.gauge("dashboard_events", "Events in the last built dashboard")
	m.dashboardEntities = m.gauge("dashboard_entities", "Entities in the last built dashboard")
	m.entitiesDropped = m.counterVec("dashboard_entities_dropped_total",
		"Entities dropped from a build by reason", "reason")

	// Rebuild queue and worker
	m.queueSize = m.gauge("queue_size", "Current size of the rebuild queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum rebuild queue capacity")
	m.queueEnqueue = m.counter("queue_enqueue_total", "Total number of rebuild jobs enqueued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of rejected rebuild jobs")
	m.queueDequeue = m.counter("queue_dequeue_total", "Total number of rebuild jobs dequeued")
	m.rebuildsCoalesced = m.counter("rebuilds_coalesced_total",
		"Rebuild requests folded into an already pending rebuild")
	m.workerJobs = m.counterVec("worker_jobs_total", "Rebuild jobs processed by outcome", "outcome")
	m.workerLatency = m.histogram("worker_processing_latency_milliseconds",
		"Rebuild job latency in milliseconds", m.histogramBuckets)

	// HTTP
	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	// Errors
	m.errorsByComponent = m.counterVec("errors_by_component_total",
		"Total number of errors by component", "component", "error_type")

	// System
	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Upstream feed.

// RecordUpstreamRequest counts one upstream attempt and its latency.
func RecordUpstreamRequest(source, outcome string, latencyMs float64) {
	globalManager.upstreamRequests.WithLabelValues(source, outcome).Inc()
	globalManager.upstreamDuration.WithLabelValues(source).Observe(latencyMs)
}

// RecordUpstreamRetry increments the retry counter for a source.
func RecordUpstreamRetry(source string) {
	globalManager.upstreamRetries.WithLabelValues(source).Inc()
}

// UpdateBreakerState sets the breaker gauge for a source.
func UpdateBreakerState(source string, state int) {
	globalManager.breakerState.WithLabelValues(source).Set(float64(state))
}

// Cache.

// RecordCacheLookup counts a cache hit or miss for a data class.
func RecordCacheLookup(class string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	globalManager.cacheLookups.WithLabelValues(class, result).Inc()
}

// UpdateCacheEntries sets the number of cache entries.
func UpdateCacheEntries(n int) {
	globalManager.cacheEntries.Set(float64(n))
}

// RecordFallbackResolution counts which strategy won a fallback chain ("none" if all failed).
func RecordFallbackResolution(query, source string) {
	globalManager.fallbackResolutions.WithLabelValues(query, source).Inc()
}

// Dashboard assembly.

// RecordDashboardBuild records one completed build.
func RecordDashboardBuild(trigger string, events, entities int, latencyMs float64) {
	globalManager.dashboardBuilds.WithLabelValues(trigger).Inc()
	globalManager.buildDuration.Observe(latencyMs)
	globalManager.dashboardEvents.Set(float64(events))
	globalManager.dashboardEntities.Set(float64(entities))
}

// RecordEntityDropped counts an entity left out of a build.
func RecordEntityDropped(reason string) {
	globalManager.entitiesDropped.WithLabelValues(reason).Inc()
}

// Rebuild queue and worker.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordRebuildCoalesced counts a refresh folded into a pending rebuild.
func RecordRebuildCoalesced() {
	globalManager.rebuildsCoalesced.Inc()
}

// RecordWorkerJob records a processed rebuild job.
func RecordWorkerJob(outcome string, latencyMs float64) {
	globalManager.workerJobs.WithLabelValues(outcome).Inc()
	globalManager.workerLatency.Observe(latencyMs)
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System.

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

// Default returns the global manager.
func Default() *Manager {
	return globalManager
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
