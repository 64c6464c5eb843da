// Package metrics instruments spawned work. Handles are looked up per task
// name; a lookup failure yields a nil handle and the caller skips
// instrumentation, it never fails the task.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	asyncTasksCount = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "async_tasks_count",
		Help: "Number of async tasks currently in flight.",
	}, []string{"task_name"})

	blockingTasksCount = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "blocking_tasks_count",
		Help: "Number of blocking tasks currently in flight.",
	}, []string{"task_name"})

	blockingTasksHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blocking_tasks_histogram",
		Help:    "Time taken by blocking tasks, queueing included.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task_name"})
)

func init() {
	registry.MustRegister(asyncTasksCount, blockingTasksCount, blockingTasksHistogram)
}

// Registry returns the registry backing the /metrics endpoint.
func Registry() *prometheus.Registry {
	return registry
}

// AsyncTasksGauge returns the async in-flight gauge for name, or nil when the
// vector cannot produce one.
func AsyncTasksGauge(name string) prometheus.Gauge {
	g, err := asyncTasksCount.GetMetricWithLabelValues(name)
	if err != nil {
		return nil
	}
	return g
}

// BlockingTasksGauge returns the blocking in-flight gauge for name, or nil
// when the vector cannot produce one.
func BlockingTasksGauge(name string) prometheus.Gauge {
	g, err := blockingTasksCount.GetMetricWithLabelValues(name)
	if err != nil {
		return nil
	}
	return g
}

// BlockingTasksTimer starts a timer observing into the blocking-duration
// histogram for name, or nil when the vector cannot produce one. The caller
// stops it with ObserveDuration once the task completes.
func BlockingTasksTimer(name string) *prometheus.Timer {
	o, err := blockingTasksHistogram.GetMetricWithLabelValues(name)
	if err != nil {
		return nil
	}
	return prometheus.NewTimer(o)
}
