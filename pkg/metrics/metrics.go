// Package metrics provides Prometheus instrumentation for the scoring and
// assignment engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "teambalance"

// Assignment outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Custom registry so the default Go collectors don't leak into output.
var registry = prometheus.NewRegistry()

var (
	trackerRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "requests_total",
		Help:      "Tracker API requests by method and outcome.",
	}, []string{"method", "outcome"})

	cacheHits = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "cache_hits_total",
		Help:      "Metric cache hits during scoring passes.",
	})

	cacheMisses = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "cache_misses_total",
		Help:      "Metric cache misses during scoring passes.",
	})

	assignments = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "assignment",
		Name:      "executions_total",
		Help:      "Assignment executions by outcome.",
	}, []string{"outcome"})

	batchFallbacks = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "batch",
		Name:      "fallbacks_total",
		Help:      "Batch items parked on the fallback status because no candidate qualified.",
	})

	batchRuns = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "batch",
		Name:      "runs_total",
		Help:      "Batch runs by terminal state.",
	}, []string{"state"})

	runDuration = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "batch",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of batch runs.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Registry exposes the metrics registry for embedding.
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the registry over HTTP.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// RecordTrackerRequest counts one tracker API call.
func RecordTrackerRequest(method string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	trackerRequests.WithLabelValues(method, outcome).Inc()
}

// RecordCacheHit counts a scoring cache hit.
func RecordCacheHit() { cacheHits.Inc() }

// RecordCacheMiss counts a scoring cache miss.
func RecordCacheMiss() { cacheMisses.Inc() }

// RecordAssignment counts one executor invocation by outcome.
func RecordAssignment(outcome string) {
	assignments.WithLabelValues(outcome).Inc()
}

// RecordFallback counts one batch fallback item.
func RecordFallback() { batchFallbacks.Inc() }

// RecordRunState counts a batch run reaching a terminal state.
func RecordRunState(state string) {
	batchRuns.WithLabelValues(state).Inc()
}

// ObserveRunDuration records how long a batch run took.
func ObserveRunDuration(d time.Duration) {
	runDuration.Observe(d.Seconds())
}
