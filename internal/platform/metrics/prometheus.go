// Package metrics provides Prometheus metrics for the insights service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/simaogato/wealthflow-insights/internal/domain"
	"github.com/simaogato/wealthflow-insights/internal/usecase/batch"
)

// Manager owns the service metrics and the registry they are exported from
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Batch metrics
	batchUsers       *prometheus.CounterVec
	batchRuns        prometheus.Counter
	batchDuration    prometheus.Histogram
	batchLastRunUnix prometheus.Gauge
	batchLastErrors  prometheus.Gauge

	// Scoring metrics
	scoresComputed *prometheus.CounterVec
	scoreValues    prometheus.Histogram

	// Transport metrics
	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets the registry metrics are registered on and exported from
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors. Pass it after WithRegistry.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// NewManager creates a Manager with its own registry unless WithRegistry is given
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "insights",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.batchUsers = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "users_total",
		Help:      "Users handled by the monthly aggregation, by outcome",
	}, []string{"outcome"})

	m.batchRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "runs_total",
		Help:      "Completed monthly aggregation runs",
	})

	m.batchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "run_duration_seconds",
		Help:      "Duration of monthly aggregation runs",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
	})

	m.batchLastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last monthly aggregation run finished",
	})

	m.batchLastErrors = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "last_run_errors",
		Help:      "Users that failed in the last monthly aggregation run",
	})

	m.scoresComputed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "health",
		Name:      "scores_total",
		Help:      "Health scores computed, by rating",
	}, []string{"rating"})

	m.scoreValues = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "health",
		Name:      "score",
		Help:      "Distribution of computed health scores (0-1000)",
		Buckets:   []float64{350, 500, 650, 800, 1000},
	})

	m.rpcRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "grpc",
		Name:      "requests_total",
		Help:      "gRPC requests by method and status code",
	}, []string{"method", "code"})

	m.rpcDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "grpc",
		Name:      "request_duration_seconds",
		Help:      "gRPC request duration by method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
}

// ObserveUser records the outcome of one user in a batch run
func (m *Manager) ObserveUser(outcome batch.Outcome) {
	m.batchUsers.WithLabelValues(string(outcome)).Inc()
}

// ObserveRun records a finished batch run
func (m *Manager) ObserveRun(elapsed time.Duration, result batch.Result) {
	m.batchRuns.Inc()
	m.batchDuration.Observe(elapsed.Seconds())
	m.batchLastRunUnix.SetToCurrentTime()
	m.batchLastErrors.Set(float64(result.Errors))
}

// ObserveScore records a computed health score
func (m *Manager) ObserveScore(result domain.HealthScoreResult) {
	m.scoresComputed.WithLabelValues(string(result.Rating)).Inc()
	m.scoreValues.Observe(float64(result.Score))
}

// ObserveRPC records a finished gRPC call
func (m *Manager) ObserveRPC(method, code string, elapsed time.Duration) {
	m.rpcRequests.WithLabelValues(method, code).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Registry returns the registry the metrics are registered on
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
