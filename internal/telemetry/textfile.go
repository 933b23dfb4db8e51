// Package telemetry exports benchmark aggregates as Prometheus metrics in
// the node_exporter textfile format.
package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spboyer/parbench/internal/models"
	"github.com/spboyer/parbench/internal/reporting"
)

const namespace = "parbench"

// Exporter owns a private registry holding per-configuration metrics.
type Exporter struct {
	registry *prometheus.Registry

	trialSeconds *prometheus.HistogramVec
	trials       *prometheus.CounterVec
	totalSeconds *prometheus.GaugeVec
	avgSeconds   *prometheus.GaugeVec
	speedup      *prometheus.GaugeVec
	efficiency   *prometheus.GaugeVec
	processors   prometheus.Gauge
}

// NewExporter creates an exporter with all collectors registered.
func NewExporter() (*Exporter, error) {
	labels := []string{"configuration", "mode", "threads"}
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		trialSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trial_duration_seconds",
			Help:      "Wall-clock duration of a single solver invocation.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		}, labels),
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_total",
			Help:      "Number of completed trials.",
		}, labels),
		totalSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "configuration_total_seconds",
			Help:      "Sum of all trial durations for a configuration.",
		}, labels),
		avgSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "configuration_average_seconds",
			Help:      "Mean trial duration for a configuration.",
		}, labels),
		speedup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "configuration_speedup_ratio",
			Help:      "Sequential total divided by the configuration total.",
		}, labels),
		efficiency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "configuration_efficiency_ratio",
			Help:      "Speedup divided by thread count.",
		}, labels),
		processors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "available_processors",
			Help:      "Logical CPUs visible to the harness.",
		}),
	}
	for _, c := range []prometheus.Collector{
		e.trialSeconds, e.trials, e.totalSeconds, e.avgSeconds, e.speedup, e.efficiency, e.processors,
	} {
		if err := e.registry.Register(c); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}
	return e, nil
}

func labelValues(c models.Configuration) []string {
	return []string{c.Label(), string(c.Mode), fmt.Sprintf("%d", c.Threads)}
}

// ObserveProgress records completed trials. It matches the orchestration
// ProgressListener signature and ignores every other event type.
func (e *Exporter) ObserveProgress(ev models.ProgressEvent) {
	if ev.EventType != models.EventTrialComplete {
		return
	}
	lv := labelValues(ev.Configuration)
	e.trialSeconds.WithLabelValues(lv...).Observe(float64(ev.ElapsedNs) / 1e9)
	e.trials.WithLabelValues(lv...).Inc()
}

// RecordStatistics sets the per-configuration aggregate gauges.
func (e *Exporter) RecordStatistics(stats *reporting.Statistics) {
	e.processors.Set(float64(stats.Processors))
	for _, cs := range stats.Configs {
		lv := labelValues(cs.Configuration)
		e.totalSeconds.WithLabelValues(lv...).Set(cs.TotalSeconds)
		e.avgSeconds.WithLabelValues(lv...).Set(cs.AvgSeconds)
		e.speedup.WithLabelValues(lv...).Set(cs.Speedup)
		e.efficiency.WithLabelValues(lv...).Set(cs.Efficiency())
	}
}

// WriteTextfile atomically writes every gathered metric to path.
func (e *Exporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
