package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/health"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

// Renderer turns circuit snapshots into terminal text.
type Renderer struct {
	theme *Theme
}

// NewRenderer creates a renderer using theme. A nil theme renders without color.
func NewRenderer(theme *Theme) *Renderer {
	if theme == nil {
		theme = NewTheme(false)
	}
	return &Renderer{theme: theme}
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() *Theme { return r.theme }

func rule(title string) string {
	side := strings.Repeat("─", 10)
	return side + " " + title + " " + side
}

func metricBar(label string, value float64) string {
	return fmt.Sprintf(" %-17s %s", label, health.DefaultBar(value))
}

// Architecture renders the agent catalogue and the coordination loop.
func (r *Renderer) Architecture(agents []telemetry.AgentInfo) string {
	t := r.theme
	var b strings.Builder
	b.WriteString(t.Bold(t.Info("🧠 NeuroCircuit Agent Architecture")) + "\n\n")
	for _, a := range agents {
		rows := []string{
			fmt.Sprintf(" %s %s", a.Icon, t.Bold(a.Name)),
			fmt.Sprintf("   Role: %s", a.Role),
			fmt.Sprintf("   Function: %s", a.PrimaryFunction),
			"   Capabilities:",
		}
		for _, c := range a.Capabilities {
			rows = append(rows, "     • "+c)
		}
		rows = append(rows, fmt.Sprintf("   Coordination: %s", a.CoordRole))
		b.WriteString(Box(LeftWidth+RightWidth+1, rows))
	}
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name
	}
	if len(names) > 0 {
		names = append(names, names[0])
	}
	b.WriteString("\n" + t.Bold("Coordination loop:") + "\n  " + strings.Join(names, " ═══▶ ") + "\n")
	return b.String()
}

// FlowFrame is one step of the flow coordination demo.
type FlowFrame struct {
	Step       telemetry.CoordinationStep
	User       string
	Agents     []string
	Progress   int
	Integrity  float64
	Confidence float64
}

// FlowStep renders one flow hand-off as side-by-side panels.
func (r *Renderer) FlowStep(f FlowFrame) string {
	left := []string{" 🤖 Agent Coordination Actions", " 🤖 LIVE AGENT COORDINATION:", ""}
	right := []string{
		fmt.Sprintf(" 🤖 LIVE AGENT COORDINATION - Step %s", f.Step.Step),
		"",
		" " + f.Step.Description,
	}
	phase := flowPhase(f.Step.Step)
	for i, agent := range f.Agents {
		icon, status := "⚙️", ""
		switch agent {
		case f.Step.Active:
			icon, status = "🔥", "← ACTIVE"
		case f.Step.Target:
			icon, status = "🎯", "← TARGET"
		}
		left = append(left,
			fmt.Sprintf(" %s %-26s%s", icon, agent+":", status),
			"    "+flowAction(f.Step, agent, f.User),
		)
		right = append(right, flowRight(i, f, phase)...)
	}
	var b strings.Builder
	b.WriteString(SideBySide(left, right))
	b.WriteString(rule(fmt.Sprintf("🔴 LIVE: %s ═══▶ %s (with %s's data)", f.Step.Active, f.Step.Target, f.User)) + "\n")
	return b.String()
}

// flowPhase groups the six steps into analysis (0), optimization (1) and validation (2).
func flowPhase(step string) int {
	var n, total int
	if _, err := fmt.Sscanf(step, "%d/%d", &n, &total); err != nil || n <= 0 {
		return 0
	}
	return (n - 1) / 2
}

var activeActions = [telemetry.FlowStepCount]string{
	"Analyzing %s's flow state patterns",
	"Routing %s's context to memory systems",
	"Retrieving flow strategies for %s",
	"Optimizing %s's challenge-skill balance",
	"Adapting flow parameters for %s",
	"Coordinating %s's flow completion",
}

var targetActions = [telemetry.FlowStepCount]string{
	"Receiving flow analysis data",
	"Processing context preservation request",
	"Preparing strategy pattern delivery",
	"Ready for optimization plan execution",
	"Coordinating system-wide flow adjustment",
	"Confirming flow recovery completion",
}

func flowAction(step telemetry.CoordinationStep, agent, user string) string {
	var n, total int
	_, _ = fmt.Sscanf(step.Step, "%d/%d", &n, &total)
	idx := n - 1
	switch {
	case agent == step.Active:
		if idx >= 0 && idx < len(activeActions) {
			return fmt.Sprintf(activeActions[idx], user)
		}
		return "Processing coordination"
	case agent == step.Target:
		if idx >= 0 && idx < len(targetActions) {
			return targetActions[idx]
		}
		return "Receiving coordination"
	}
	switch flowPhase(step.Step) {
	case 0:
		return fmt.Sprintf("Supporting %s context analysis", user)
	case 1:
		return fmt.Sprintf("Contributing to %s flow optimization", user)
	}
	return fmt.Sprintf("Validating %s flow recovery success", user)
}

func flowRight(i int, f FlowFrame, phase int) []string {
	switch i {
	case 0:
		return []string{" Agent Coordination Progress:", ""}
	case 1:
		return []string{fmt.Sprintf(" %s %s", health.Bar(float64(f.Progress), 100, 20, false), f.Step.Step), ""}
	case 2:
		return []string{" Coordination Analysis:", ""}
	case 3:
		text := fmt.Sprintf("SUCCESS: %s achieved optimal flow state", f.User)
		switch phase {
		case 0:
			text = fmt.Sprintf("Flow analysis: %s requires skill-challenge balance", f.User)
		case 1:
			text = fmt.Sprintf("Strategy optimization: Improving %s's flow coefficient", f.User)
		}
		return []string{" " + text, ""}
	case 4:
		return []string{" System Recovery Metrics:", metricBar("System Integrity", f.Integrity)}
	case 5:
		return []string{fmt.Sprintf(" Context Preserved: ✅ %s's profile", f.User), metricBar("Agent Confidence", f.Confidence)}
	}
	return []string{"", ""}
}

// FaultFrame is one phase of the fault injection demo. Description and
// Message override the stock phase text; {target} and {peers} are expanded.
// Steps is the number of phases in the run and defaults to four.
type FaultFrame struct {
	Statuses    []telemetry.AgentStatus
	Target      string
	Phase       int
	Steps       int
	Progress    int
	Metrics     telemetry.SystemMetrics
	Description string
	Message     string
}

func (f FaultFrame) steps() int {
	if f.Steps > 0 {
		return f.Steps
	}
	return telemetry.PhaseValidate
}

func (f FaultFrame) expand(text string) string {
	return strings.NewReplacer(
		"{target}", f.Target,
		"{peers}", strconv.Itoa(len(f.Statuses)-1),
	).Replace(text)
}

func (f FaultFrame) description() string {
	if f.Description != "" {
		return f.expand(f.Description)
	}
	return faultDescription(f.Phase, f.Target)
}

func (f FaultFrame) message() string {
	if f.Message != "" {
		return f.expand(f.Message) + "\n"
	}
	return faultMessage(f.Phase, f.Target, len(f.Statuses)-1)
}

// FaultPhase renders one recovery phase as side-by-side panels followed by
// the phase message.
func (r *Renderer) FaultPhase(f FaultFrame) string {
	left := []string{" 🤖 Agent Coordination Actions", " 🤖 LIVE AGENT COORDINATION:", ""}
	right := []string{
		fmt.Sprintf(" 🤖 LIVE FAULT RECOVERY - Step %d/%d", f.Phase, f.steps()),
		"",
		" " + f.description(),
	}
	for i, st := range f.Statuses {
		left = append(left,
			fmt.Sprintf(" %s %s:", st.State.Icon(), st.AgentID),
			"    "+faultAction(st.AgentID, f.Target, f.Phase),
		)
		right = append(right, faultRight(i, f, len(f.Statuses)-1)...)
	}
	return SideBySide(left, right) + f.message() + "\n"
}

func faultDescription(phase int, target string) string {
	switch phase {
	case telemetry.PhaseFault:
		return fmt.Sprintf("🔴 FAULT INJECTED - %s compromised, others detecting", target)
	case telemetry.PhaseIsolate:
		return "🟡 EMERGENCY COORDINATION - Agents collaborating on isolation"
	case telemetry.PhaseHeal:
		return fmt.Sprintf("🔄 COLLABORATIVE RECOVERY - Agents healing %s together", target)
	}
	return "✅ RECOVERY COMPLETE - All agents back in coordination"
}

func faultAction(agent, target string, phase int) string {
	if agent == target && phase <= telemetry.PhaseIsolate {
		if phase == telemetry.PhaseFault {
			return "FAULT DETECTED: Attempting self-recovery"
		}
		return "COORDINATING: Accepting recovery assistance"
	}
	switch phase {
	case telemetry.PhaseFault:
		return fmt.Sprintf("ALERT: Detecting %s communication failure", target)
	case telemetry.PhaseIsolate:
		return fmt.Sprintf("EMERGENCY: Bypassing %s, rerouting tasks", target)
	case telemetry.PhaseHeal:
		return fmt.Sprintf("HEALING: Restoring %s functionality", target)
	}
	return fmt.Sprintf("VALIDATED: Confirming %s full recovery", target)
}

func faultRight(i int, f FaultFrame, peers int) []string {
	switch i {
	case 0:
		return []string{" Agent Coordination Progress:", ""}
	case 1:
		return []string{fmt.Sprintf(" %s Step %d/%d", health.Bar(float64(f.Progress), 100, 20, false), f.Phase, f.steps()), ""}
	case 2:
		return []string{" Coordination Analysis:", ""}
	case 3:
		var text string
		switch f.Phase {
		case telemetry.PhaseFault:
			text = fmt.Sprintf("Agents detecting %s failure, diagnostics active", f.Target)
		case telemetry.PhaseIsolate:
			text = fmt.Sprintf("Emergency coordination: %d agents isolating %s", peers, f.Target)
		case telemetry.PhaseHeal:
			text = fmt.Sprintf("Collaborative healing: All agents restoring %s", f.Target)
		default:
			text = fmt.Sprintf("SUCCESS: %s fully recovered via coordination", f.Target)
		}
		return []string{" " + text, ""}
	case 4:
		return []string{" System Recovery Metrics:", metricBar("System Integrity", f.Metrics.SystemIntegrity)}
	case 5:
		return []string{" Data Protection: User context preserved", metricBar("Agent Confidence", f.Metrics.AgentConfidence)}
	}
	return []string{"", ""}
}

func faultMessage(phase int, target string, peers int) string {
	switch phase {
	case telemetry.PhaseFault:
		return "🚨 FAULT DETECTED: Agents initiating cross-coordination protocols!\n"
	case telemetry.PhaseIsolate:
		return fmt.Sprintf("🤝 EMERGENCY COORDINATION: %d agents collaborating to isolate %s!\n", peers, target)
	case telemetry.PhaseHeal:
		return fmt.Sprintf("🔄 COLLABORATIVE HEALING: All agents working together to restore %s!\n", target)
	}
	return fmt.Sprintf("🎉 COORDINATION SUCCESS: %s restored through agent collaboration!\n", target)
}

var metricLabels = map[health.Field]string{
	health.FieldIntegrity:    "System Integrity",
	health.FieldConfidence:   "Agent Confidence",
	health.FieldCoordination: "Coordination Eff.",
	health.FieldThroughput:   "Msg Throughput",
	health.FieldLatency:      "Response Latency",
	health.FieldErrorRate:    "Error Rate",
}

// MetricLabel returns the display label of a metric field.
func MetricLabel(f health.Field) string {
	if l, ok := metricLabels[f]; ok {
		return l
	}
	return string(f)
}

// HealthDashboard renders the overall score, the percentage metrics as bars
// and the per-agent status table.
func (r *Renderer) HealthDashboard(title string, m telemetry.SystemMetrics, statuses []telemetry.AgentStatus) string {
	t := r.theme
	score := health.Score(m)
	cls := health.Classify(score)

	left := []string{
		" 📊 " + title,
		"",
		fmt.Sprintf(" Health Score: %s (%s)", t.Score(score), t.Health(cls)),
		" " + health.Bar(score, 100, 30, true),
		"",
		metricBar("System Integrity", m.SystemIntegrity),
		metricBar("Agent Confidence", m.AgentConfidence),
		metricBar("Coordination Eff.", m.CoordinationEfficiency),
		fmt.Sprintf(" %-17s %.1f msg/s", "Msg Throughput", m.MessageThroughput),
		fmt.Sprintf(" %-17s %.1f ms", "Response Latency", m.ResponseLatency),
		fmt.Sprintf(" %-17s %.3f%%", "Error Rate", m.ErrorRate*100),
	}
	right := []string{" 🤖 Agent Status", ""}
	for _, st := range statuses {
		right = append(right, fmt.Sprintf(" %s %-21s %-9s conf %5.1f%% err %d",
			st.State.Icon(), st.AgentID, st.State, st.Confidence, st.ErrorCount))
	}
	return SideBySide(left, right)
}

// Comparison renders a before/after comparison report.
func (r *Renderer) Comparison(rep health.ComparisonReport) string {
	t := r.theme
	oh := rep.OverallHealth
	var b strings.Builder
	b.WriteString(t.Bold("📈 Health Comparison") + "\n")
	fmt.Fprintf(&b, "  Before: %s (%s)  After: %s (%s)  Change: %+.2f\n",
		t.Score(oh.BeforeScore), t.Health(health.Classify(oh.BeforeScore)),
		t.Score(oh.AfterScore), t.Health(health.Classify(oh.AfterScore)),
		oh.Change)
	recovered := t.Error("NO")
	if oh.RecoverySuccess {
		recovered = t.Success("YES")
	}
	fmt.Fprintf(&b, "  Recovery success: %s\n\n", recovered)

	rows := []string{fmt.Sprintf(" %-18s %12s %12s %12s %9s", "Metric", "Before", "After", "Change", "Change%")}
	for _, mc := range rep.MetricsComparison {
		rows = append(rows, fmt.Sprintf(" %-18s %12.3f %12.3f %+12.3f %+8.1f%%",
			MetricLabel(mc.Metric), mc.Before, mc.After, mc.Change, mc.ChangePercent))
	}
	b.WriteString(Box(LeftWidth+RightWidth+1, rows))

	s := rep.AnalysisSummary
	fmt.Fprintf(&b, "  Most impacted: %s\n", MetricLabel(s.MostImpactedMetric))
	fmt.Fprintf(&b, "  Best recovery: %s\n", MetricLabel(s.BestRecoveryMetric))
	fmt.Fprintf(&b, "  Resilience:    %s\n", t.Bold(string(s.ResilienceRating)))
	return b.String()
}

// CoordinationDelta renders per-agent confidence changes.
func (r *Renderer) CoordinationDelta(d health.CoordinationDelta) string {
	t := r.theme
	rows := []string{fmt.Sprintf(" %-22s %-10s %-10s %10s", "Agent", "Before", "After", "Δ conf")}
	for _, c := range d.CoordinationChanges {
		delta := fmt.Sprintf("%+10.2f", c.ConfidenceChange)
		switch {
		case c.ConfidenceChange > 0:
			delta = t.Success(delta)
		case c.ConfidenceChange < 0:
			delta = t.Error(delta)
		}
		rows = append(rows, fmt.Sprintf(" %-22s %-10s %-10s %s", c.AgentID, c.StateBefore, c.StateAfter, delta))
	}
	rows = append(rows, "", fmt.Sprintf(" Improved: %d  Degraded: %d  Average change: %+.2f",
		d.AgentsImproved, d.AgentsDegraded, d.AverageConfidenceChange))
	return t.Bold("🤝 Coordination Delta") + "\n" + Box(LeftWidth+RightWidth+1, rows)
}

// CheckRow is one agent result of the agent test suite.
type CheckRow struct {
	Agent      string
	State      telemetry.AgentState
	Confidence float64
	ResponseMS float64
	Passed     bool
}

// SuiteSummary renders agent suite results and the pass count.
func (r *Renderer) SuiteSummary(rows []CheckRow, score float64) string {
	t := r.theme
	lines := []string{fmt.Sprintf(" %-22s %-10s %8s %10s  %s", "Agent", "State", "Conf", "Resp", "Result")}
	passed := 0
	for _, c := range rows {
		res := t.Error("FAIL")
		if c.Passed {
			res = t.Success("PASS")
			passed++
		}
		lines = append(lines, fmt.Sprintf(" %-22s %-10s %7.1f%% %8.1fms  %s",
			c.Agent, c.State, c.Confidence, c.ResponseMS, res))
	}
	lines = append(lines, "", fmt.Sprintf(" %d/%d agents passed  Health %s (%s)",
		passed, len(rows), t.Score(score), t.Health(health.Classify(score))))
	return t.Bold("🧪 Agent Test Suite") + "\n" + Box(LeftWidth+RightWidth+1, lines)
}
