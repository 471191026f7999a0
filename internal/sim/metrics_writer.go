package sim

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/health"
)

// MetricsWriter keeps Prometheus gauges of the latest circuit health and
// flushes them to a node-exporter textfile on Close.
type MetricsWriter struct {
	path     string
	registry *prometheus.Registry

	mu         sync.Mutex
	score      *prometheus.GaugeVec
	metrics    *prometheus.GaugeVec
	events     *prometheus.CounterVec
	recovered  prometheus.Gauge
	recoveryMS prometheus.Gauge
}

// NewMetricsWriter creates a writer flushing to path. An empty path keeps the
// gauges in memory only.
func NewMetricsWriter(path string) *MetricsWriter {
	w := &MetricsWriter{
		path:     path,
		registry: prometheus.NewRegistry(),
		score: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "neurocircuit",
			Name:      "health_score",
			Help:      "Latest weighted health score per snapshot type.",
		}, []string{"state_type"}),
		metrics: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "neurocircuit",
			Name:      "system_metric",
			Help:      "Latest raw system metric per snapshot type.",
		}, []string{"state_type", "metric"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neurocircuit",
			Name:      "events_total",
			Help:      "Session events by type.",
		}, []string{"event_type"}),
		recovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neurocircuit",
			Name:      "recovery_success",
			Help:      "1 if the last comparison met the recovery threshold.",
		}),
		recoveryMS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neurocircuit",
			Name:      "recovery_time_milliseconds",
			Help:      "Scripted recovery time of the last injected fault.",
		}),
	}
	w.registry.MustRegister(w.score, w.metrics, w.events, w.recovered, w.recoveryMS)
	return w
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (w *MetricsWriter) Registry() *prometheus.Registry { return w.registry }

// WriteEvent updates the gauges from ev.
func (w *MetricsWriter) WriteEvent(ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events.WithLabelValues(string(ev.EventType)).Inc()
	switch ev.EventType {
	case EventSystemState:
		w.score.WithLabelValues(ev.StateType).Set(ev.HealthScore)
		if ev.Metrics != nil {
			for _, f := range health.Fields {
				w.metrics.WithLabelValues(ev.StateType, string(f)).Set(f.Value(*ev.Metrics))
			}
		}
	case EventFaultInjection:
		w.recoveryMS.Set(float64(ev.TotalRecoveryTimeMS))
	case EventHealthComparison:
		v := 0.0
		if ev.RecoverySuccess != nil && *ev.RecoverySuccess {
			v = 1
		}
		w.recovered.Set(v)
	}
	return nil
}

// WriteEvents updates the gauges from multiple events.
func (w *MetricsWriter) WriteEvents(evs []Event) error {
	for _, ev := range evs {
		_ = w.WriteEvent(ev)
	}
	return nil
}

// Close writes the registry to the textfile, if configured.
func (w *MetricsWriter) Close() error {
	if w.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(w.path, w.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
