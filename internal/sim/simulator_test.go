package sim

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/fault"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/scenario"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

func newTestSimulator(t *testing.T, opts Options) (*Simulator, *SessionLogger, *bytes.Buffer) {
	t.Helper()
	session, err := NewSessionLogger(t.TempDir(), fixedNow)
	if err != nil {
		t.Fatalf("NewSessionLogger: %v", err)
	}
	out := &bytes.Buffer{}
	return NewSimulator(opts, rand.New(rand.NewSource(42)), fixedNow, out, nil, session), session, out
}

func TestRunFaultInjection(t *testing.T) {
	s, session, out := newTestSimulator(t, Options{
		Fault: fault.Options{Target: telemetry.NeuralBus, Type: fault.NetworkPartition, Severity: 0.8},
	})
	res, err := s.RunFaultInjection(context.Background())
	if err != nil {
		t.Fatalf("RunFaultInjection: %v", err)
	}
	if res.Event.TargetAgent != telemetry.NeuralBus || res.Event.FaultType != fault.NetworkPartition {
		t.Errorf("unexpected fault %+v", res.Event)
	}
	if len(res.Steps) != 4 {
		t.Errorf("expected 4 recovery steps, got %d", len(res.Steps))
	}
	if res.Comparison.OverallHealth.BeforeScore <= 0 {
		t.Errorf("comparison not populated: %+v", res.Comparison.OverallHealth)
	}
	snap := s.Snapshot()
	if snap.Comparison == nil || snap.Delta == nil || !strings.HasPrefix(snap.Source, "phase:") {
		t.Errorf("snapshot not updated: %+v", snap)
	}
	if out.Len() == 0 {
		t.Errorf("expected rendered output")
	}

	if err := session.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	evs := readStream(t, session.Info().JSONLFile)
	var states []string
	for _, ev := range evs {
		if ev.EventType == EventSystemState {
			states = append(states, ev.StateType)
		}
	}
	if strings.Join(states, ",") != "baseline,fault,recovered" {
		t.Errorf("unexpected state sequence %v", states)
	}
	if got := eventTypes(evs); got[len(got)-2] != EventHealthComparison {
		t.Errorf("expected comparison before session_end, got %v", got)
	}
}

func TestRunFaultInjectionCancelled(t *testing.T) {
	s, _, _ := newTestSimulator(t, Options{PhaseDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.RunFaultInjection(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunFlowDemo(t *testing.T) {
	s, session, out := newTestSimulator(t, Options{UserName: "Ada"})
	res, err := s.RunFlowDemo(context.Background())
	if err != nil {
		t.Fatalf("RunFlowDemo: %v", err)
	}
	if res.UserName != "Ada" || res.Steps != telemetry.FlowStepCount {
		t.Errorf("unexpected result %+v", res)
	}
	if res.TargetFlow <= res.InitialFlow {
		t.Errorf("flow should improve: %.1f -> %.1f", res.InitialFlow, res.TargetFlow)
	}
	if !strings.Contains(out.String(), "Ada's flow improved") {
		t.Errorf("missing summary line in output")
	}
	session.Finalize()
	got := eventTypes(readStream(t, session.Info().JSONLFile))
	if len(got) != 4 || got[1] != EventCoordinationSequence || got[2] != EventFlowDemoComplete {
		t.Errorf("unexpected events %v", got)
	}
}

func TestRunAgentSuite(t *testing.T) {
	s, _, out := newTestSimulator(t, Options{Agents: []string{telemetry.CognitiveDetector, telemetry.NeuralBus, telemetry.DecisionEngine}})
	checks, err := s.RunAgentSuite(context.Background())
	if err != nil {
		t.Fatalf("RunAgentSuite: %v", err)
	}
	if len(checks) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(checks))
	}
	for i, want := range []string{telemetry.CognitiveDetector, telemetry.NeuralBus, telemetry.DecisionEngine} {
		if checks[i].Agent != want {
			t.Errorf("check %d: expected %s, got %s", i, want, checks[i].Agent)
		}
		ok := checks[i].Status.Confidence >= passThreshold && checks[i].Status.ErrorCount <= 2
		if checks[i].Passed && !ok {
			t.Errorf("check %s passed below threshold: %+v", want, checks[i].Status)
		}
	}
	if out.Len() == 0 {
		t.Errorf("expected suite summary output")
	}
}

func TestRunHealthDashboard(t *testing.T) {
	s, _, out := newTestSimulator(t, Options{})
	snap, err := s.RunHealthDashboard(context.Background())
	if err != nil {
		t.Fatalf("RunHealthDashboard: %v", err)
	}
	if snap.Source != "dashboard" || len(snap.Agents) != len(telemetry.AgentNames()) || snap.Score <= 0 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.Classification.Label == "" || snap.Bar == "" {
		t.Errorf("classification missing: %+v", snap)
	}
	if out.Len() == 0 {
		t.Errorf("expected dashboard output")
	}
}

func TestRunFaultInjectionScenarioText(t *testing.T) {
	s, _, out := newTestSimulator(t, Options{
		Fault: fault.Options{Target: telemetry.NeuralBus},
		Scenario: &scenario.Scenario{Phases: []scenario.Phase{
			{
				Name:        "contain",
				Description: "CUSTOM-DESC {target}",
				Progress:    50,
				Message:     "CUSTOM-MSG {peers}",
				Triggers:    []scenario.Trigger{{Event: scenario.EventPhaseComplete, Value: 1, Next: "done"}},
			},
			{Name: "done", Progress: 100, Message: "CUSTOM-DONE {target}"},
		}},
	})
	if _, err := s.RunFaultInjection(context.Background()); err != nil {
		t.Fatalf("RunFaultInjection: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"CUSTOM-DESC NeuralBus",
		"CUSTOM-MSG 5",
		"CUSTOM-DONE NeuralBus",
		"Step 2/2",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in output", want)
		}
	}
	if strings.Contains(text, "cross-coordination protocols") {
		t.Errorf("stock fault message rendered despite scenario text")
	}
}

func TestTickCycle(t *testing.T) {
	s := NewSimulator(Options{Fault: fault.Options{Target: telemetry.MemoryController}}, rand.New(rand.NewSource(7)), fixedNow, nil, nil, nil)
	cw := &collectWriter{}
	s.SetLiveWriter(cw)
	st := &liveState{baseline: s.gen.BaselineMetrics()}
	for i := 0; i < ticksPerPhase*len(liveCycle); i++ {
		s.tick(context.Background(), st)
	}

	var faults, states, comparisons int
	var seq []string
	for _, ev := range cw.events {
		switch ev.EventType {
		case EventHealthComparison:
			comparisons++
			if ev.TargetAgent != telemetry.MemoryController || ev.RecoverySuccess == nil {
				t.Errorf("unexpected comparison %+v", ev)
			}
		case EventFaultInjection:
			faults++
			if ev.TargetAgent != telemetry.MemoryController {
				t.Errorf("unexpected fault target %s", ev.TargetAgent)
			}
		case EventSystemState:
			states++
			if len(seq) == 0 || seq[len(seq)-1] != ev.StateType {
				seq = append(seq, ev.StateType)
			}
		}
	}
	if faults != 1 {
		t.Errorf("expected one fault per cycle, got %d", faults)
	}
	if comparisons != 1 {
		t.Errorf("expected one comparison per cycle, got %d", comparisons)
	}
	if last := cw.events[len(cw.events)-1]; last.EventType != EventHealthComparison {
		t.Errorf("expected the cycle to end with a comparison, got %s", last.EventType)
	}
	if states != ticksPerPhase*len(liveCycle) {
		t.Errorf("expected %d state events, got %d", ticksPerPhase*len(liveCycle), states)
	}
	if strings.Join(seq, ",") != "baseline,fault,isolate,heal,validate" {
		t.Errorf("unexpected phase sequence %v", seq)
	}
	if s.Snapshot().Source != "live" {
		t.Errorf("snapshot not updated by tick")
	}
	if s.Snapshot().Comparison == nil || s.Snapshot().Delta == nil {
		t.Errorf("comparison not published by tick")
	}
}

func TestRunPublishesComparison(t *testing.T) {
	s := NewSimulator(Options{TickInterval: time.Millisecond}, rand.New(rand.NewSource(3)), fixedNow, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	deadline := time.After(5 * time.Second)
	for s.Snapshot().Comparison == nil {
		select {
		case <-deadline:
			t.Fatal("no comparison after a full live cycle")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if rep := s.Snapshot().Comparison; rep.OverallHealth.BeforeScore <= 0 {
		t.Errorf("unexpected comparison %+v", rep.OverallHealth)
	}
}
