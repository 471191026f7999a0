package sim

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	if err := w.WriteEvent(Event{EventType: EventSystemState, StateType: "baseline", HealthScore: 95}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := p.msgs[0].(stateMsg); !ok {
		t.Fatalf("expected stateMsg, got %T", p.msgs[0])
	}
	if _, ok := p.msgs[1].(logMsg); !ok {
		t.Fatalf("expected logMsg, got %T", p.msgs[1])
	}
	if err := w.WriteEvent(Event{EventType: EventFaultInjection, FaultType: "agent_crash", TargetAgent: "NeuralBus"}); err != nil {
		t.Fatalf("fault: %v", err)
	}
	lm, ok := p.msgs[2].(logMsg)
	if !ok || !strings.Contains(lm.line, "agent_crash on NeuralBus") {
		t.Fatalf("expected fault log line, got %#v", p.msgs[2])
	}
	w.SetAdminStatus(true)
	if _, ok := p.msgs[3].(adminMsg); !ok {
		t.Fatalf("expected adminMsg, got %T", p.msgs[3])
	}
}

func TestApplyState(t *testing.T) {
	m := newTUIModel([]string{"NeuralBus"})
	mi, _ := m.Update(stateMsg{ev: Event{
		EventType:   EventSystemState,
		StateType:   "heal",
		HealthScore: 72.5,
		Agents: []telemetry.AgentStatus{
			{AgentID: "NeuralBus", State: telemetry.StateRecovery, Confidence: 61.5, ErrorCount: 3, CoordinationScore: 70},
			{AgentID: "DecisionEngine", State: telemetry.StateNormal, Confidence: 90, CoordinationScore: 88},
		},
	}})
	m = mi.(tuiModel)
	rows := m.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "NeuralBus" || rows[0][2] != "61.5" || rows[0][3] != "3" {
		t.Fatalf("unexpected row %v", rows[0])
	}
	header := m.renderHeader()
	if !strings.Contains(header, "phase: heal") || !strings.Contains(header, "72.50") {
		t.Fatalf("unexpected header %q", header)
	}
}

func TestWrapToggle(t *testing.T) {
	m := newTUIModel([]string{"NeuralBus"})
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 30})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "one two three four five six seven"})
	m = mi.(tuiModel)
	if got := m.vp.TotalLineCount(); got != 1 {
		t.Fatalf("expected single line before wrap, got %d", got)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = mi.(tuiModel)
	if !m.wrap {
		t.Fatalf("wrap not toggled")
	}
	if got := m.vp.TotalLineCount(); got < 2 {
		t.Fatalf("expected wrapped content, got %d lines", got)
	}
}

func TestScrollToggle(t *testing.T) {
	m := newTUIModel(nil)
	if !m.autoscroll {
		t.Fatalf("autoscroll should default to on")
	}
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if m.autoscroll {
		t.Fatalf("autoscroll not toggled off")
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if !m.autoscroll {
		t.Fatalf("autoscroll not toggled on")
	}
}

func TestLogCap(t *testing.T) {
	m := newTUIModel(nil)
	for i := 0; i < maxLogLines+10; i++ {
		mi, _ := m.Update(logMsg{line: "x"})
		m = mi.(tuiModel)
	}
	if len(m.logs) != maxLogLines {
		t.Fatalf("expected %d log lines, got %d", maxLogLines, len(m.logs))
	}
}
