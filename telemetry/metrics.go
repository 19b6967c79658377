package telemetry

import (
	"errors"
	"time"

	"github.com/AnatoleLucet/signalctx/internal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "signalctx").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "signalctx",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is an observer recording Prometheus metrics.
//
// Metrics collected:
//   - signalctx_transactions_total: Counter of update transactions
//   - signalctx_transaction_duration_seconds: Histogram of transaction duration
//   - signalctx_computations_enqueued_total: Counter of queued computations by tier
//   - signalctx_computation_runs_total: Counter of computation runs by tier
//   - signalctx_computation_errors_total: Counter of failed runs by tier and cause
//   - signalctx_computation_duration_seconds: Histogram of run duration by tier
type Metrics struct {
	transactions        prometheus.Counter
	transactionDuration prometheus.Histogram
	enqueued            *prometheus.CounterVec
	runs                *prometheus.CounterVec
	runErrors           *prometheus.CounterVec
	runDuration         *prometheus.HistogramVec
}

var _ internal.Observer = (*Metrics)(nil)

// Prometheus creates and registers the metrics. It panics if they are
// already registered with the configured registry.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		transactions: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transactions_total",
			Help:        "Total number of update transactions",
			ConstLabels: config.ConstLabels,
		}),

		transactionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transaction_duration_seconds",
			Help:        "Update transaction duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		enqueued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computations_enqueued_total",
			Help:        "Total number of computations queued for re-evaluation",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computation_runs_total",
			Help:        "Total number of computation runs",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		runErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computation_errors_total",
			Help:        "Total number of computation runs that failed",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "cause"}),

		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computation_duration_seconds",
			Help:        "Computation run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),
	}
}

func (m *Metrics) TransactionStarted(uint64) {
	m.transactions.Inc()
}

func (m *Metrics) TransactionCompleted(_ uint64, elapsed time.Duration) {
	m.transactionDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ComputationEnqueued(kind internal.ScopeKind) {
	m.enqueued.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) ComputationInvoked(kind internal.ScopeKind, elapsed time.Duration, err error) {
	label := kind.String()
	m.runs.WithLabelValues(label).Inc()
	m.runDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	if err != nil {
		m.runErrors.WithLabelValues(label, errorCause(err)).Inc()
	}
}

// errorCause categorizes a run error for the cause label.
func errorCause(err error) string {
	var panicErr *internal.PanicError
	switch {
	case errors.As(err, &panicErr):
		return "panic"
	case errors.Is(err, internal.ErrNotCallable):
		return "not_callable"
	case errors.Is(err, internal.ErrRuntimeGone):
		return "runtime_gone"
	default:
		return "error"
	}
}
