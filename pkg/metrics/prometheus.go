// Package metrics provides Prometheus metrics for the outgoing service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Progress
	pointsAwarded       *prometheus.CounterVec
	actionsLogged       *prometheus.CounterVec
	challengesCompleted prometheus.Counter
	commandRejections   *prometheus.CounterVec
	requestsDuplicate   prometheus.Counter
	dayRollovers        prometheus.Counter
	totalPoints         prometheus.Gauge
	dailyPoints         prometheus.Gauge
	unlockedDay         prometheus.Gauge
	logEntries          prometheus.Gauge

	// History
	historyUpdates prometheus.Counter
	historyDays    prometheus.Gauge
	historyErrors  prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Award queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "outgoing",
		subsystem:        "session",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.pointsAwarded = auto.NewCounterVec(m.counterOpts("points_awarded_total", "Points awarded, by source (challenge or action)"), []string{"source"})
	m.actionsLogged = auto.NewCounterVec(m.counterOpts("actions_logged_total", "Logged actions, by catalog category"), []string{"category"})
	m.challengesCompleted = auto.NewCounter(m.counterOpts("challenges_completed_total", "Daily challenges completed"))
	m.commandRejections = auto.NewCounterVec(m.counterOpts("command_rejections_total", "Commands rejected by the session, by reason"), []string{"reason"})
	m.requestsDuplicate = auto.NewCounter(m.counterOpts("requests_duplicate_total", "Replayed request ids that were not applied again"))
	m.dayRollovers = auto.NewCounter(m.counterOpts("day_rollovers_total", "Day boundary rollovers"))
	m.totalPoints = auto.NewGauge(m.gaugeOpts("total_points", "Points accumulated in the session"))
	m.dailyPoints = auto.NewGauge(m.gaugeOpts("daily_points", "Points accumulated since the last rollover"))
	m.unlockedDay = auto.NewGauge(m.gaugeOpts("unlocked_day", "Current unlocked challenge day (1..7)"))
	m.logEntries = auto.NewGauge(m.gaugeOpts("log_entries", "Entries in the action log"))

	m.historyUpdates = auto.NewCounter(m.counterOpts("history_updates_total", "Awards applied to the points history"))
	m.historyDays = auto.NewGauge(m.gaugeOpts("history_days", "Days with at least one award in the points history"))
	m.historyErrors = auto.NewCounter(m.counterOpts("history_errors_total", "Awards the history store rejected"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("award_queue_size", "Awards waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("award_queue_capacity", "Maximum award queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("award_queue_utilization_ratio", "Award queue fill ratio (0..1)"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("award_queue_enqueued_total", "Awards enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("award_queue_dequeued_total", "Awards dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("award_queue_enqueue_errors_total", "Awards dropped at enqueue"))
	m.queueProcessingLatency = auto.NewHistogram(m.histogramOpts("award_queue_latency_milliseconds", "Enqueue latency in milliseconds"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "History workers running"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Time to apply one award in milliseconds"))
	m.workerErrorRate = auto.NewCounter(m.counterOpts("worker_errors_total", "Awards a worker failed to apply"))

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component and type"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total", "Errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds", "Latency of failed operations in milliseconds"), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Running goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds"))
}

// Progress

// RecordPointsAwarded adds points under the given source label.
func RecordPointsAwarded(source string, points int) {
	globalManager.pointsAwarded.WithLabelValues(source).Add(float64(points))
}

// RecordActionLogged counts one logged action in its category.
func RecordActionLogged(category string) {
	globalManager.actionsLogged.WithLabelValues(category).Inc()
}

// RecordChallengeCompleted counts one completed daily challenge.
func RecordChallengeCompleted() {
	globalManager.challengesCompleted.Inc()
}

// RecordCommandRejected counts a command the session refused.
func RecordCommandRejected(reason string) {
	globalManager.commandRejections.WithLabelValues(reason).Inc()
}

// RecordRequestDuplicate counts a replayed request id.
func RecordRequestDuplicate() {
	globalManager.requestsDuplicate.Inc()
}

// RecordDayRollover counts a day boundary rollover.
func RecordDayRollover() {
	globalManager.dayRollovers.Inc()
}

// UpdateTotals sets the total and daily points gauges.
func UpdateTotals(total, daily int) {
	globalManager.totalPoints.Set(float64(total))
	globalManager.dailyPoints.Set(float64(daily))
}

// UpdateUnlockedDay sets the unlocked challenge day gauge.
func UpdateUnlockedDay(day int) {
	globalManager.unlockedDay.Set(float64(day))
}

// UpdateLogEntries sets the action log size gauge.
func UpdateLogEntries(count int) {
	globalManager.logEntries.Set(float64(count))
}

// History

// RecordHistoryUpdate counts an award applied to the history.
func RecordHistoryUpdate() {
	globalManager.historyUpdates.Inc()
}

// RecordHistoryError counts an award the history store rejected.
func RecordHistoryError() {
	globalManager.historyErrors.Inc()
}

// UpdateHistoryDays sets the number of days held by the history.
func UpdateHistoryDays(count int) {
	globalManager.historyDays.Set(float64(count))
}

// HTTP

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Queue

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records enqueue latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Workers

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records how long one award took to apply.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// Errors

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
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

// System

// UpdateSystemMemoryUsage sets the heap usage in bytes.
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

// GetRegistry returns the registry the service metrics are registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
