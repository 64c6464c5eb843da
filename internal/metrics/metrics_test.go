package metrics_test

import (
	"testing"

	"github.com/meridianchain/meridian/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGaugePairing(t *testing.T) {
	t.Parallel()

	g := metrics.AsyncTasksGauge("metrics-test-async")
	require.NotNil(t, g)

	g.Inc()
	require.InDelta(t, 1.0, testutil.ToFloat64(g), 0.0)
	g.Dec()
	require.InDelta(t, 0.0, testutil.ToFloat64(g), 0.0)

	b := metrics.BlockingTasksGauge("metrics-test-blocking")
	require.NotNil(t, b)
	b.Inc()
	b.Dec()
	require.InDelta(t, 0.0, testutil.ToFloat64(b), 0.0)
}

func TestBlockingTimerObserves(t *testing.T) {
	t.Parallel()

	timer := metrics.BlockingTasksTimer("metrics-test-hist")
	require.NotNil(t, timer)
	timer.ObserveDuration()

	count, err := testutil.GatherAndCount(metrics.Registry(), "blocking_tasks_histogram")
	require.NoError(t, err)
	require.Greater(t, count, 0)
}

func TestSameNameSharesHandle(t *testing.T) {
	t.Parallel()

	a := metrics.AsyncTasksGauge("metrics-test-shared")
	b := metrics.AsyncTasksGauge("metrics-test-shared")
	require.NotNil(t, a)
	require.NotNil(t, b)

	a.Inc()
	require.InDelta(t, 1.0, testutil.ToFloat64(b), 0.0)
	b.Dec()
	require.InDelta(t, 0.0, testutil.ToFloat64(a), 0.0)
}
