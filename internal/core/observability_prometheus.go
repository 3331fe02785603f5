package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tcrdcore/internal/errors"
)

// PrometheusMetricsRecorder counts report runs and their durations on a
// private registry. A one-shot CLI has nothing to scrape, so the registry is
// flushed to a node_exporter textfile with WriteTextfile.
type PrometheusMetricsRecorder struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusMetricsRecorder registers the tcrd_report_* collectors.
func NewPrometheusMetricsRecorder() *PrometheusMetricsRecorder {
	reg := prometheus.NewRegistry()
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tcrd",
		Subsystem: "report",
		Name:      "runs_total",
		Help:      "Report operations by outcome.",
	}, []string{"operation", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tcrd",
		Subsystem: "report",
		Name:      "duration_seconds",
		Help:      "Report operation latency.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
	}, []string{"operation"})
	reg.MustRegister(runs, duration)
	return &PrometheusMetricsRecorder{registry: reg, runs: runs, duration: duration}
}

// Registry exposes the backing registry.
func (r *PrometheusMetricsRecorder) Registry() *prometheus.Registry { return r.registry }

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	r.runs.WithLabelValues(operation, statusOf(success)).Inc()
	r.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// WriteTextfile writes the registry in text exposition format to path.
func (r *PrometheusMetricsRecorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.MarkIO(err, "write metrics textfile %s", path)
	}
	return nil
}
