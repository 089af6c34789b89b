package metrics

import "github.com/prometheus/client_golang/prometheus"

// Map viewport pipeline Prometheus metrics.
var (
	FetchesStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mapflow",
			Name:      "viewport_fetches_started_total",
			Help:      "Viewport fetches dispatched after debounce",
		},
	)

	FetchesAborted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mapflow",
			Name:      "viewport_fetches_aborted_total",
			Help:      "Viewport fetches cancelled by a superseding request",
		},
	)

	FetchesFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mapflow",
			Name:      "viewport_fetches_failed_total",
			Help:      "Viewport fetches that failed with a genuine error",
		},
	)

	ApplyOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapflow",
			Name:      "viewport_apply_outcomes_total",
			Help:      "Apply-gate classifications of resolved fetches",
		},
		[]string{"outcome"}, // "ok:apply" / "drop:stale" / "drop:incompatible"
	)

	IndexBuildSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mapflow",
			Name:      "cluster_index_build_seconds",
			Help:      "Cluster index rebuild duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	IndexPoints = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mapflow",
			Name:      "cluster_index_points",
			Help:      "Points in the most recently built cluster index",
		},
	)
)

var viewportMetricsRegistered bool

// RegisterViewportMetrics registers viewport pipeline metrics. Must be
// called once from main.
func RegisterViewportMetrics() {
	if viewportMetricsRegistered {
		return
	}
	prometheus.MustRegister(FetchesStarted)
	prometheus.MustRegister(FetchesAborted)
	prometheus.MustRegister(FetchesFailed)
	prometheus.MustRegister(ApplyOutcomes)
	prometheus.MustRegister(IndexBuildSeconds)
	prometheus.MustRegister(IndexPoints)
	viewportMetricsRegistered = true
}
