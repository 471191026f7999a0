package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/health"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// stateMsg carries a system_state event.
type stateMsg struct{ ev Event }

// adminMsg reports admin endpoint status.
type adminMsg struct{ active bool }

const maxLogLines = 500

// TUIWriter renders live circuit events using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
// Quitting the TUI interrupts the current process.
func NewTUIWriter(agents []string) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(agents), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteEvent implements EventWriter.
func (w *TUIWriter) WriteEvent(ev Event) error {
	if ev.EventType == EventSystemState {
		w.program.Send(stateMsg{ev: ev})
	}
	w.program.Send(logMsg{line: formatLogLine(ev)})
	return nil
}

// WriteEvents outputs multiple events.
func (w *TUIWriter) WriteEvents(evs []Event) error {
	for _, ev := range evs {
		_ = w.WriteEvent(ev)
	}
	return nil
}

// SetAdminStatus updates the admin endpoint indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

func formatLogLine(ev Event) string {
	head := fmt.Sprintf("%s[%s]%s ", colorGray, ev.Timestamp, colorReset)
	switch ev.EventType {
	case EventSystemState:
		line := fmt.Sprintf("%s%-8s%s %shealth=%.2f%s", colorCyan, ev.StateType, colorReset, scoreColor(ev.HealthScore), ev.HealthScore, colorReset)
		if ev.TargetAgent != "" {
			line += fmt.Sprintf(" %starget=%s%s", colorMagenta, ev.TargetAgent, colorReset)
		}
		return head + line
	case EventFaultInjection:
		return head + fmt.Sprintf("%sFAULT%s %s on %s severity=%.2f", colorRed, colorReset, ev.FaultType, ev.TargetAgent, ev.Severity)
	}
	return head + string(ev.EventType)
}

type tuiModel struct {
	table      table.Model
	vp         viewport.Model
	logs       []string
	agents     []string
	score      float64
	stateType  string
	haveState  bool
	admin      bool
	wrap       bool
	autoscroll bool
	width      int
	height     int
}

func newTUIModel(agents []string) tuiModel {
	cols := []table.Column{
		{Title: "Agent", Width: 22},
		{Title: "State", Width: 12},
		{Title: "Conf", Width: 7},
		{Title: "Errors", Width: 6},
		{Title: "Coord", Width: 7},
	}
	rows := make([]table.Row, len(agents))
	for i, a := range agents {
		rows[i] = table.Row{a, "-", "-", "-", "-"}
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return tuiModel{
		table:      t,
		vp:         viewport.New(0, 0),
		agents:     agents,
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
		case "up", "k":
			m.vp.ScrollUp(1)
		case "down", "j":
			m.vp.ScrollDown(1)
		}
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case stateMsg:
		m.applyState(msg.ev)
	case adminMsg:
		m.admin = msg.active
	}
	return m, nil
}

func (m *tuiModel) applyState(ev Event) {
	m.score = ev.HealthScore
	m.stateType = ev.StateType
	m.haveState = true
	if len(ev.Agents) == 0 {
		return
	}
	rows := make([]table.Row, 0, len(ev.Agents))
	for _, a := range ev.Agents {
		rows = append(rows, table.Row{
			a.AgentID,
			a.State.Icon() + " " + string(a.State),
			fmt.Sprintf("%.1f", a.Confidence),
			fmt.Sprintf("%d", a.ErrorCount),
			fmt.Sprintf("%.1f", a.CoordinationScore),
		})
	}
	m.table.SetRows(rows)
	m.table.SetHeight(len(rows) + 1)
}

func (m *tuiModel) updateViewportHeight() {
	h := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.table.View()) - lipgloss.Height(m.renderHelp()) - 3
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	lines := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		if m.wrap && m.vp.Width > 0 {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("🧠 NeuroCircuit Live")
	admin := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("admin: off")
	if m.admin {
		admin = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("admin: on")
	}
	if !m.haveState {
		return title + "  " + admin + "\nwaiting for first tick..."
	}
	cls := health.Classify(m.score)
	return fmt.Sprintf("%s  %s\nphase: %s  health: %.2f (%s)  %s",
		title, admin, m.stateType, m.score, cls.Label, health.DefaultBar(m.score))
}

func (m tuiModel) renderHelp() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("q quit • w wrap • s autoscroll • ↑/↓ scroll")
}

func (m tuiModel) View() string {
	divider := strings.Repeat("─", max(m.vp.Width, 1))
	return strings.Join([]string{
		m.renderHeader(),
		divider,
		m.table.View(),
		divider,
		m.vp.View(),
		m.renderHelp(),
	}, "\n")
}
