// Package metrics provides Prometheus metrics for the tabula scoreboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus metrics for the scoreboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Sync engine metrics
	remoteSaves        prometheus.Counter
	remoteSaveFailures prometheus.Counter
	savesCoalesced     prometheus.Counter
	echoesSuppressed   *prometheus.CounterVec
	snapshotsApplied   prometheus.Counter
	subscribeErrors    prometheus.Counter
	saveLatency        prometheus.Histogram

	// Local store metrics
	localWriteFailures prometheus.Counter
	localReadFallbacks prometheus.Counter

	// Scoreboard metrics
	teensTracked          prometheus.Gauge
	categoriesTracked     prometheus.Gauge
	bulkCommits           prometheus.Counter
	bulkPointsAwarded     prometheus.Counter
	unauthorizedMutations *prometheus.CounterVec
	groupSwitches         prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "tabula",
		subsystem:        "scoreboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.remoteSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "remote_saves_total",
		Help:      "Total number of remote document saves completed",
	})

	m.remoteSaveFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "remote_save_failures_total",
		Help:      "Total number of remote document saves that failed",
	})

	m.savesCoalesced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "saves_coalesced_total",
		Help:      "Total number of pending saves replaced by a newer snapshot before flush",
	})

	m.echoesSuppressed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "echoes_suppressed_total",
			Help:      "Total number of inbound snapshots discarded as self-write echoes",
		},
		[]string{"reason"},
	)

	m.snapshotsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_applied_total",
		Help:      "Total number of inbound remote snapshots applied to local state",
	})

	m.subscribeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "subscribe_errors_total",
		Help:      "Total number of subscription failures",
	})

	m.saveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "remote_save_latency_milliseconds",
		Help:      "Histogram of remote save round-trip latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.localWriteFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "local_write_failures_total",
		Help:      "Total number of best-effort local store writes that failed",
	})

	m.localReadFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "local_read_fallbacks_total",
		Help:      "Total number of local reads that fell back to defaults",
	})

	m.teensTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teens_tracked",
		Help:      "Number of teens in the active group",
	})

	m.categoriesTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "categories_tracked",
		Help:      "Number of registered scoring categories in the active group",
	})

	m.bulkCommits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bulk_commits_total",
		Help:      "Total number of bulk award commits",
	})

	m.bulkPointsAwarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bulk_points_awarded_total",
		Help:      "Total points awarded through bulk commits",
	})

	m.unauthorizedMutations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "unauthorized_mutations_total",
			Help:      "Total number of admin-only operations rejected as no-ops",
		},
		[]string{"operation"},
	)

	m.groupSwitches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "group_switches_total",
		Help:      "Total number of group switches",
	})

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
}

// RecordRemoteSave increments the completed saves counter.
func RecordRemoteSave() {
	globalManager.remoteSaves.Inc()
}

// RecordRemoteSaveFailure increments the failed saves counter.
func RecordRemoteSaveFailure() {
	globalManager.remoteSaveFailures.Inc()
}

// RecordSaveCoalesced increments the coalesced saves counter.
func RecordSaveCoalesced() {
	globalManager.savesCoalesced.Inc()
}

// RecordEchoSuppressed increments the suppressed echo counter.
// Reason is "in_flight" or "token".
func RecordEchoSuppressed(reason string) {
	globalManager.echoesSuppressed.WithLabelValues(reason).Inc()
}

// RecordSnapshotApplied increments the applied snapshots counter.
func RecordSnapshotApplied() {
	globalManager.snapshotsApplied.Inc()
}

// RecordSubscribeError increments the subscription failure counter.
func RecordSubscribeError() {
	globalManager.subscribeErrors.Inc()
}

// RecordSaveLatency records remote save latency in milliseconds.
func RecordSaveLatency(latencyMs float64) {
	globalManager.saveLatency.Observe(latencyMs)
}

// RecordLocalWriteFailure increments the local write failure counter.
func RecordLocalWriteFailure() {
	globalManager.localWriteFailures.Inc()
}

// RecordLocalReadFallback increments the local read fallback counter.
func RecordLocalReadFallback() {
	globalManager.localReadFallbacks.Inc()
}

// UpdateTeensTracked sets the current teen count gauge.
func UpdateTeensTracked(count int) {
	globalManager.teensTracked.Set(float64(count))
}

// UpdateCategoriesTracked sets the current category count gauge.
func UpdateCategoriesTracked(count int) {
	globalManager.categoriesTracked.Set(float64(count))
}

// RecordBulkCommit records a bulk award commit and the points it granted.
func RecordBulkCommit(points int) {
	globalManager.bulkCommits.Inc()
	globalManager.bulkPointsAwarded.Add(float64(points))
}

// RecordUnauthorizedMutation records a rejected admin-only operation.
func RecordUnauthorizedMutation(operation string) {
	globalManager.unauthorizedMutations.WithLabelValues(operation).Inc()
}

// RecordGroupSwitch increments the group switch counter.
func RecordGroupSwitch() {
	globalManager.groupSwitches.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
