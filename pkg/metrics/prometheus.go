// Package metrics provides Prometheus metrics for the pokecalc service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calculation outcomes used as label values.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Manager owns the Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Calculator
	calculations       *prometheus.CounterVec
	calculationLatency prometheus.Histogram
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	cacheEntries       prometheus.Gauge
	batchSize          prometheus.Histogram
	choices            *prometheus.CounterVec

	// Queue and workers
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueRejected      prometheus.Counter
	workerCount        prometheus.Gauge
	workerBusy         prometheus.Gauge
	jobLatency         prometheus.Histogram
	historyRecords     prometheus.Gauge
	historyWriteErrors prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pokecalc",
		subsystem:        "calc",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
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
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.calculations = auto.NewCounterVec(
		m.counterOpts("calculations_total", "Damage calculations by generation and outcome"),
		[]string{"generation", "outcome"},
	)
	m.calculationLatency = auto.NewHistogram(m.histogramOpts(
		"calculation_latency_milliseconds", "Time spent inside the damage formula", m.histogramBuckets))
	m.cacheHits = auto.NewCounter(m.counterOpts("cache_hits_total", "Requests answered from the result cache"))
	m.cacheMisses = auto.NewCounter(m.counterOpts("cache_misses_total", "Requests that had to be computed"))
	m.cacheEntries = auto.NewGauge(m.gaugeOpts("cache_entries", "Entries held by the result cache"))
	m.batchSize = auto.NewHistogram(m.histogramOpts(
		"batch_size", "Number of requests per batch call", []float64{1, 2, 5, 10, 25, 50, 100, 250}))
	m.choices = auto.NewCounterVec(
		m.counterOpts("choices_total", "Move-choice decisions by kind and reason"),
		[]string{"kind", "reason"},
	)

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Jobs waiting in the batch queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the batch queue"))
	m.queueRejected = auto.NewCounter(m.counterOpts("queue_rejected_total", "Jobs rejected by the batch queue"))
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Workers in the batch pool"))
	m.workerBusy = auto.NewGauge(m.gaugeOpts("worker_busy", "Workers currently running a job"))
	m.jobLatency = auto.NewHistogram(m.histogramOpts(
		"job_latency_milliseconds", "Time from dequeue to reply for batch jobs", m.histogramBuckets))
	m.historyRecords = auto.NewGauge(m.gaugeOpts("history_records", "Calculation records held by the history store"))
	m.historyWriteErrors = auto.NewCounter(m.counterOpts("history_write_errors_total", "Failed history writes"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Allocated heap bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
}

// RecordCalculation counts one calculation. outcome must be one of the Outcome constants.
func RecordCalculation(generation int, outcome string) error {
	switch outcome {
	case OutcomeOK, OutcomeInvalid, OutcomeError:
	default:
		return ErrUnknownOutcome
	}
	globalManager.calculations.WithLabelValues(strconv.Itoa(generation), outcome).Inc()
	return nil
}

// RecordCalculationLatency records formula latency in milliseconds.
func RecordCalculationLatency(latencyMs float64) {
	globalManager.calculationLatency.Observe(latencyMs)
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() { globalManager.cacheHits.Inc() }

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() { globalManager.cacheMisses.Inc() }

// UpdateCacheEntries sets the cache size gauge.
func UpdateCacheEntries(n int64) { globalManager.cacheEntries.Set(float64(n)) }

// RecordBatchSize observes the size of one batch call.
func RecordBatchSize(n int) { globalManager.batchSize.Observe(float64(n)) }

// RecordChoice counts one move-choice decision.
func RecordChoice(kind, reason string) { globalManager.choices.WithLabelValues(kind, reason).Inc() }

// UpdateQueueSize sets the queue backlog gauge.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueRejected counts a job the queue refused.
func RecordQueueRejected() { globalManager.queueRejected.Inc() }

// UpdateWorkerCount sets the worker pool size gauge.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// WorkerBusy adjusts the busy worker gauge by delta.
func WorkerBusy(delta int) { globalManager.workerBusy.Add(float64(delta)) }

// RecordJobLatency records batch job latency in milliseconds.
func RecordJobLatency(latencyMs float64) { globalManager.jobLatency.Observe(latencyMs) }

// UpdateHistoryRecords sets the history size gauge.
func UpdateHistoryRecords(count int) { globalManager.historyRecords.Set(float64(count)) }

// RecordHistoryWriteError counts a failed history write.
func RecordHistoryWriteError() { globalManager.historyWriteErrors.Inc() }

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent counts an error raised by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// GetRegistry returns the registry the global manager registers on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
