package telemetry

import (
	"fmt"
	"testing"

	"github.com/AnatoleLucet/signalctx/internal"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricCounterValue(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	require.NotNil(t, m.Counter, "expected counter metric")
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	h, ok := o.(prometheus.Metric)
	require.True(t, ok, "expected observer to be a metric")
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	require.NotNil(t, m.Histogram, "expected histogram metric")
	return m.GetHistogram().GetSampleCount()
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := Prometheus(WithRegistry(reg))
	ctx, s := newGraph(t, metrics, 2)

	t.Run("root creation", func(t *testing.T) {
		assert.Equal(t, float64(1), metricCounterValue(t, metrics.transactions))
		assert.Equal(t, float64(1), metricCounterValue(t, metrics.runs.WithLabelValues("pure")))
		assert.Equal(t, float64(0), metricCounterValue(t, metrics.enqueued.WithLabelValues("pure")))
	})

	t.Run("write drains the effect tier in a nested transaction", func(t *testing.T) {
		write(ctx, s, 2)
		assert.Equal(t, float64(3), metricCounterValue(t, metrics.transactions))
		assert.Equal(t, float64(1), metricCounterValue(t, metrics.enqueued.WithLabelValues("pure")))
		assert.Equal(t, float64(2), metricCounterValue(t, metrics.runs.WithLabelValues("pure")))
		assert.Equal(t, uint64(2), metricHistogramCount(t, metrics.runDuration.WithLabelValues("pure")))
		assert.Equal(t, uint64(3), metricHistogramCount(t, metrics.transactionDuration))
	})

	t.Run("panics are counted by cause", func(t *testing.T) {
		write(ctx, s, 3)
		assert.Equal(t, float64(3), metricCounterValue(t, metrics.runs.WithLabelValues("pure")))
		assert.Equal(t, float64(1), metricCounterValue(t, metrics.runErrors.WithLabelValues("pure", "panic")))
	})

	t.Run("equal writes are free", func(t *testing.T) {
		write(ctx, s, 3)
		assert.Equal(t, float64(3), metricCounterValue(t, metrics.runs.WithLabelValues("pure")))
	})

	t.Run("registered names", func(t *testing.T) {
		families, err := reg.Gather()
		require.NoError(t, err)

		var names []string
		for _, f := range families {
			names = append(names, f.GetName())
		}
		assert.Contains(t, names, "signalctx_transactions_total")
		assert.Contains(t, names, "signalctx_computation_runs_total")
		assert.Contains(t, names, "signalctx_computation_errors_total")
	})
}

func TestPrometheusOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	Prometheus(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("graph"),
		WithConstLabels(prometheus.Labels{"runtime": "go"}),
		WithBuckets([]float64{0.001, 0.1}),
	).TransactionStarted(1)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		byName[f.GetName()] = f
	}
	require.Contains(t, byName, "app_graph_transactions_total")
	require.Contains(t, byName, "app_graph_transaction_duration_seconds")

	counter := byName["app_graph_transactions_total"].GetMetric()[0]
	assert.Equal(t, float64(1), counter.GetCounter().GetValue())
	assert.Equal(t, "runtime", counter.GetLabel()[0].GetName())
	assert.Len(t, byName["app_graph_transaction_duration_seconds"].GetMetric()[0].GetHistogram().GetBucket(), 2)

	t.Run("registering twice panics", func(t *testing.T) {
		assert.Panics(t, func() { Prometheus(WithRegistry(reg), WithNamespace("app"), WithSubsystem("graph")) })
	})
}

func TestErrorCause(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want string
	}{
		{&internal.PanicError{Value: "boom"}, "panic"},
		{fmt.Errorf("%w: int", internal.ErrNotCallable), "not_callable"},
		{internal.ErrRuntimeGone, "runtime_gone"},
		{assert.AnError, "error"},
	} {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, errorCause(tc.err))
		})
	}
}
