package sim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

func TestMetricsWriterGauges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neurocircuit.prom")
	w := NewMetricsWriter(path)
	recovered := true
	evs := []Event{
		{EventType: EventSystemState, StateType: "baseline", HealthScore: 92.5, Metrics: &telemetry.SystemMetrics{ResponseLatency: 150}},
		{EventType: EventFaultInjection, TotalRecoveryTimeMS: 1800},
		{EventType: EventHealthComparison, RecoverySuccess: &recovered},
		{EventType: EventSystemState, StateType: "baseline", HealthScore: 93},
	}
	if err := w.WriteEvents(evs); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}

	if got := testutil.ToFloat64(w.score.WithLabelValues("baseline")); got != 93 {
		t.Fatalf("health_score = %v, want 93", got)
	}
	if got := testutil.ToFloat64(w.metrics.WithLabelValues("baseline", "response_latency")); got != 150 {
		t.Fatalf("response_latency = %v, want 150", got)
	}
	if got := testutil.ToFloat64(w.events.WithLabelValues(string(EventSystemState))); got != 2 {
		t.Fatalf("system_state events = %v, want 2", got)
	}
	if got := testutil.ToFloat64(w.recovered); got != 1 {
		t.Fatalf("recovery_success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(w.recoveryMS); got != 1800 {
		t.Fatalf("recovery time = %v, want 1800", got)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `neurocircuit_health_score{state_type="baseline"} 93`) {
		t.Fatalf("unexpected textfile:\n%s", data)
	}
}

func TestMetricsWriterNoPath(t *testing.T) {
	if err := NewMetricsWriter("").Close(); err != nil {
		t.Fatalf("Close without path: %v", err)
	}
}
