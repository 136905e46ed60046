package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics collects the counters and gauges for one batch run on a
// private registry. A batch job has no scrape endpoint, so the metrics are
// flushed once at exit with WriteTextfile (the node-exporter
// textfile-collector convention).
type RunMetrics struct {
	registry *prometheus.Registry

	RowsLoaded    prometheus.Gauge
	RowsDropped   prometheus.Gauge
	DuplicateRows prometheus.Gauge
	PlotsRendered prometheus.Counter
	StageDuration *prometheus.GaugeVec
	RunDuration   prometheus.Gauge
}

// NewRunMetrics creates the run metrics and registers them on a fresh registry.
func NewRunMetrics() *RunMetrics {
	registry := prometheus.NewRegistry()

	m := &RunMetrics{
		registry: registry,
		RowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "radpulse",
			Name:      "rows_loaded",
			Help:      "Number of dataset rows loaded before cleaning.",
		}),
		RowsDropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "radpulse",
			Name:      "rows_dropped",
			Help:      "Number of rows removed because of missing values.",
		}),
		DuplicateRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "radpulse",
			Name:      "duplicate_rows",
			Help:      "Number of exact duplicate rows found in the dataset.",
		}),
		PlotsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radpulse",
			Name:      "plots_rendered_total",
			Help:      "Number of plot files written by the run.",
		}),
		StageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "radpulse",
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock duration of each pipeline stage.",
		}, []string{"stage"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "radpulse",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the whole run.",
		}),
	}

	registry.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.DuplicateRows,
		m.PlotsRendered,
		m.StageDuration,
		m.RunDuration,
	)

	return m
}

// ObserveStage records the duration of one pipeline stage.
func (m *RunMetrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Set(d.Seconds())
}

// WriteTextfile writes the registry contents to path in the Prometheus
// text exposition format, creating the parent directory if needed.
func (m *RunMetrics) WriteTextfile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory %s: %w", dir, err)
	}

	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
