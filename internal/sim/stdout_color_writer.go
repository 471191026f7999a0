// ColorStdoutWriter prints human-friendly, colorized events to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/health"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

var tierANSI = map[health.Tier]string{
	health.TierExcellent: "\x1b[92m",
	health.TierGood:      colorGreen,
	health.TierFair:      colorYellow,
	health.TierPoor:      "\x1b[93m",
	health.TierCritical:  "\x1b[91m",
}

// ColorStdoutWriter prints session events using ANSI colors.
type ColorStdoutWriter struct {
	agents []telemetry.AgentInfo
	out    io.Writer
	once   sync.Once
	mu     sync.Mutex
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
// The agent overview is printed before the first event.
func NewColorStdoutWriter(agents []telemetry.AgentInfo) *ColorStdoutWriter {
	return &ColorStdoutWriter{agents: agents, out: os.Stdout}
}

func (w *ColorStdoutWriter) printOverview() {
	if len(w.agents) == 0 {
		return
	}
	fmt.Fprintln(w.out, "Circuit Agents:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Agent\tRole\tCoordination\n")
	for _, a := range w.agents {
		fmt.Fprintf(tw, "%s%s %s%s\t%s\t%s\n", colorCyan, a.Icon, a.Name, colorReset, a.Role, a.CoordRole)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

func scoreColor(score float64) string {
	return tierANSI[health.Classify(score).Tier]
}

// WriteEvent outputs a single event in colorized format.
func (w *ColorStdoutWriter) WriteEvent(ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.once.Do(w.printOverview)

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, ev.Timestamp, colorReset)
	fmt.Fprintf(w.out, "%ssession=%s%s ", colorBlue, ev.SessionID, colorReset)
	switch ev.EventType {
	case EventSystemState:
		fmt.Fprintf(w.out, "%sSTATE%s type=%s %shealth=%.2f%s agents=%d",
			colorCyan, colorReset, ev.StateType, scoreColor(ev.HealthScore), ev.HealthScore, colorReset, ev.AgentCount)
	case EventFaultInjection:
		fmt.Fprintf(w.out, "%sFAULT%s type=%s target=%s%s%s severity=%.2f steps=%d recovery=%dms",
			colorRed, colorReset, ev.FaultType, colorMagenta, ev.TargetAgent, colorReset, ev.Severity, ev.RecoverySteps, ev.TotalRecoveryTimeMS)
	case EventFlowDemoComplete:
		fmt.Fprintf(w.out, "%sFLOW%s user=%s final_flow=%.1f effectiveness=%.1f%%",
			colorGreen, colorReset, ev.UserName, ev.FinalFlow, ev.Effectiveness)
	case EventCoordinationSequence:
		fmt.Fprintf(w.out, "%sSEQUENCE%s type=%s steps=%d", colorYellow, colorReset, ev.SequenceType, ev.StepCount)
	case EventHealthComparison:
		recovered := ev.RecoverySuccess != nil && *ev.RecoverySuccess
		rc := colorRed
		if recovered {
			rc = colorGreen
		}
		fmt.Fprintf(w.out, "%sCOMPARE%s before=%s%.2f%s after=%s%.2f%s %srecovered=%t%s resilience=%s",
			colorMagenta, colorReset,
			scoreColor(ev.BeforeScore), ev.BeforeScore, colorReset,
			scoreColor(ev.AfterScore), ev.AfterScore, colorReset,
			rc, recovered, colorReset, ev.ResilienceRating)
	default:
		fmt.Fprintf(w.out, "%s%s%s", colorGray, ev.EventType, colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteEvents outputs multiple events.
func (w *ColorStdoutWriter) WriteEvents(evs []Event) error {
	for _, ev := range evs {
		_ = w.WriteEvent(ev)
	}
	return nil
}
