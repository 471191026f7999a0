package sim

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

func TestJSONStdoutWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &JSONStdoutWriter{out: buf}
	if err := w.WriteEvent(Event{EventType: EventSystemState, SessionID: "s1", HealthScore: 88.1}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	var got Event
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
	if got.HealthScore != 88.1 || got.SessionID != "s1" {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestColorStdoutWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &ColorStdoutWriter{agents: telemetry.Agents(), out: buf}
	recovered := true
	evs := []Event{
		{EventType: EventSystemState, SessionID: "s1", StateType: "baseline", HealthScore: 96},
		{EventType: EventFaultInjection, SessionID: "s1", FaultType: "byzantine", TargetAgent: "NeuralBus"},
		{EventType: EventHealthComparison, SessionID: "s1", BeforeScore: 90, AfterScore: 91, RecoverySuccess: &recovered},
	}
	if err := w.WriteEvents(evs); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Circuit Agents:") || !strings.Contains(output, "CoordinationHub") {
		t.Fatalf("overview not printed: %q", output)
	}
	for _, want := range []string{"STATE", "FAULT", "target=", "recovered=true", "\x1b["} {
		if !strings.Contains(output, want) {
			t.Fatalf("missing %q in output: %q", want, output)
		}
	}

	buf.Reset()
	if err := w.WriteEvent(evs[0]); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if strings.Contains(buf.String(), "Circuit Agents:") {
		t.Fatalf("overview printed more than once")
	}
}
