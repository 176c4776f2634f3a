// Package metrics exposes Prometheus instrumentation for the analysis
// pipeline. Collectors are registered on the default registry and served
// by the HTTP layer's /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rmtclean_pipeline_runs_total",
		Help: "Completed analysis pipeline runs.",
	})

	pipelineFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rmtclean_pipeline_failures_total",
		Help: "Analysis pipeline runs rejected or aborted with an error.",
	})

	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rmtclean_pipeline_duration_seconds",
		Help:    "Wall-clock duration of a full pipeline run.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	signalCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rmtclean_last_signal_count",
		Help: "Signal eigenvalue count of the most recent pipeline run.",
	})

	riskClamps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rmtclean_risk_clamps_total",
		Help: "Negative quadratic forms clamped to zero during risk evaluation.",
	})
)

// ObserveRun records a completed pipeline run.
func ObserveRun(elapsed time.Duration, signals int) {
	pipelineRuns.Inc()
	pipelineDuration.Observe(elapsed.Seconds())
	signalCount.Set(float64(signals))
}

// IncFailure records a failed pipeline run.
func IncFailure() {
	pipelineFailures.Inc()
}

// IncRiskClamp records one clamp-to-zero event in the risk evaluator.
func IncRiskClamp() {
	riskClamps.Inc()
}
