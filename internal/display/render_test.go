package display

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/health"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

func assertPanelWidths(t *testing.T, out string) {
	t.Helper()
	want := LeftWidth + 1 + RightWidth
	for i, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if !strings.HasPrefix(line, "╭") && !strings.HasPrefix(line, "│") && !strings.HasPrefix(line, "╰") {
			continue
		}
		if got := lipgloss.Width(line); got != want {
			t.Fatalf("line %d width %d, want %d: %q", i, got, want, line)
		}
	}
}

func TestFit(t *testing.T) {
	if got := Fit("abc", 5); got != "abc  " {
		t.Fatalf("pad: %q", got)
	}
	if got := Fit("abcdefgh", 4); got != "abcd" {
		t.Fatalf("truncate: %q", got)
	}
	if got := Fit("", 3); got != "   " {
		t.Fatalf("empty: %q", got)
	}
	if got := Fit("abc", 0); got != "" {
		t.Fatalf("zero width: %q", got)
	}
	colored := NewTheme(true).Error("abcdef")
	if got := lipgloss.Width(Fit(colored, 3)); got != 3 {
		t.Fatalf("ansi-aware width %d", got)
	}
}

func TestPadBorders(t *testing.T) {
	if got := lipgloss.Width(PadLeft(" hello")); got != LeftWidth {
		t.Fatalf("left width %d", got)
	}
	if got := lipgloss.Width(PadRight(strings.Repeat("x", 200))); got != RightWidth {
		t.Fatalf("right width %d", got)
	}
}

func TestThemeColor(t *testing.T) {
	plain := NewTheme(false)
	if got := plain.Health(health.Classify(99)); got != "Excellent" {
		t.Fatalf("plain theme should not color: %q", got)
	}
	colored := NewTheme(true)
	if got := colored.Health(health.Classify(40)); !strings.Contains(got, "\x1b[") || !strings.Contains(got, "Critical") {
		t.Fatalf("expected ANSI colored label, got %q", got)
	}
	if ColorEnabled("never", nil) || !ColorEnabled("always", nil) {
		t.Fatalf("explicit color modes not honoured")
	}
	if ColorEnabled("auto", nil) {
		t.Fatalf("auto without a file should disable color")
	}
}

func TestFlowStep(t *testing.T) {
	r := NewRenderer(nil)
	steps := telemetry.FlowSteps("Ada")
	out := r.FlowStep(FlowFrame{
		Step:       steps[2],
		User:       "Ada",
		Agents:     telemetry.AgentNames(),
		Progress:   60,
		Integrity:  91.2,
		Confidence: 88.4,
	})
	assertPanelWidths(t, out)
	for _, want := range []string{
		"Step 3/6",
		"← ACTIVE",
		"← TARGET",
		"Retrieving flow strategies for Ada",
		"████████████░░░░░░░░ 3/6",
		"Strategy optimization",
		"🔴 LIVE: MemoryController ═══▶ DecisionEngine (with Ada's data)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestFaultPhase(t *testing.T) {
	r := NewRenderer(nil)
	statuses := []telemetry.AgentStatus{}
	for _, a := range telemetry.AgentNames() {
		st := telemetry.StateEmergency
		if a == telemetry.NeuralBus {
			st = telemetry.StateCritical
		}
		statuses = append(statuses, telemetry.AgentStatus{AgentID: a, State: st})
	}
	out := r.FaultPhase(FaultFrame{
		Statuses: statuses,
		Target:   telemetry.NeuralBus,
		Phase:    telemetry.PhaseIsolate,
		Progress: 60,
		Metrics:  telemetry.SystemMetrics{SystemIntegrity: 80, AgentConfidence: 70},
	})
	assertPanelWidths(t, out)
	for _, want := range []string{
		"LIVE FAULT RECOVERY - Step 2/4",
		"COORDINATING: Accepting recovery assistance",
		"EMERGENCY: Bypassing NeuralBus, rerouting tasks",
		"5 agents isolating NeuralBus",
		"████████████████░░░░ 80.0%",
		"🤝 EMERGENCY COORDINATION: 5 agents collaborating to isolate NeuralBus!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestFaultPhaseCustomText(t *testing.T) {
	r := NewRenderer(nil)
	statuses := []telemetry.AgentStatus{
		{AgentID: telemetry.NeuralBus, State: telemetry.StateCritical},
		{AgentID: telemetry.MemoryController, State: telemetry.StateEmergency},
		{AgentID: telemetry.CoordinationHub, State: telemetry.StateEmergency},
	}
	out := r.FaultPhase(FaultFrame{
		Statuses:    statuses,
		Target:      telemetry.NeuralBus,
		Phase:       1,
		Steps:       2,
		Progress:    50,
		Description: "drain {target}",
		Message:     "{peers} peers cover {target}",
	})
	for _, want := range []string{
		"LIVE FAULT RECOVERY - Step 1/2",
		"drain NeuralBus",
		"2 peers cover NeuralBus\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, "FAULT INJECTED") || strings.Contains(out, "cross-coordination protocols") {
		t.Errorf("stock text rendered despite override:\n%s", out)
	}
}

func TestComparisonAndDelta(t *testing.T) {
	r := NewRenderer(nil)
	before := telemetry.SystemMetrics{SystemIntegrity: 98, AgentConfidence: 90, CoordinationEfficiency: 92, MessageThroughput: 50, ResponseLatency: 150, ErrorRate: 0.005}
	after := before
	after.ErrorRate = 0.002
	after.ResponseLatency = 120
	out := r.Comparison(health.Compare(before, after))
	for _, want := range []string{"Before:", "Recovery success: YES", "Response Latency", "Resilience:    Excellent"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}

	delta := health.CompareAgents(
		[]telemetry.AgentStatus{{AgentID: "NeuralBus", Confidence: 50, State: telemetry.StateCritical}},
		[]telemetry.AgentStatus{{AgentID: "NeuralBus", Confidence: 90, State: telemetry.StateValidated}},
	)
	out = r.CoordinationDelta(delta)
	if !strings.Contains(out, "+40.00") || !strings.Contains(out, "Improved: 1") {
		t.Errorf("unexpected delta output\n%s", out)
	}
}

func TestHealthDashboardAndSuite(t *testing.T) {
	r := NewRenderer(nil)
	m := telemetry.SystemMetrics{SystemIntegrity: 98, AgentConfidence: 90, CoordinationEfficiency: 92, MessageThroughput: 50, ResponseLatency: 150, ErrorRate: 0.005}
	statuses := []telemetry.AgentStatus{{AgentID: "NeuralBus", State: telemetry.StateNormal, Confidence: 91}}
	out := r.HealthDashboard("Baseline", m, statuses)
	assertPanelWidths(t, out)
	score := health.Score(m)
	if !strings.Contains(out, health.Classify(score).Label) || !strings.Contains(out, "NeuralBus") {
		t.Errorf("unexpected dashboard\n%s", out)
	}

	out = r.SuiteSummary([]CheckRow{
		{Agent: "NeuralBus", State: telemetry.StateNormal, Confidence: 91, Passed: true},
		{Agent: "DecisionEngine", State: telemetry.StateWarning, Confidence: 60},
	}, score)
	if !strings.Contains(out, "1/2 agents passed") || !strings.Contains(out, "FAIL") {
		t.Errorf("unexpected suite summary\n%s", out)
	}

	arch := r.Architecture(telemetry.Agents())
	if !strings.Contains(arch, "CoordinationHub ═══▶ CognitiveDetector") {
		t.Errorf("architecture should close the loop\n%s", arch)
	}
}
