package scenario

import (
	"fmt"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

// Built-in scenario names.
const (
	FaultRecovery    = "fault-recovery"
	FlowCoordination = "flow-coordination"
)

// BuiltIn returns the predefined demo scripts.
func BuiltIn() map[string]Scenario {
	return map[string]Scenario{
		FaultRecovery: {
			Name:        "Fault Recovery",
			Description: "Inject a fault into one agent and let the circuit isolate, heal and validate it.",
			Phases: []Phase{
				{
					Name:        "fault",
					Description: "🔴 FAULT INJECTED - {target} compromised, others detecting",
					Progress:    40,
					Message:     "🚨 FAULT DETECTED: Agents initiating cross-coordination protocols!",
					Triggers:    []Trigger{{Event: EventPhaseComplete, Value: 1, Next: "isolate"}},
				},
				{
					Name:        "isolate",
					Description: "🟡 EMERGENCY COORDINATION - Agents collaborating on isolation",
					Progress:    60,
					Message:     "🤝 EMERGENCY COORDINATION: {peers} agents collaborating to isolate {target}!",
					Triggers:    []Trigger{{Event: EventPhaseComplete, Value: 1, Next: "heal"}},
				},
				{
					Name:        "heal",
					Description: "🔄 COLLABORATIVE RECOVERY - Agents healing {target} together",
					Progress:    80,
					Message:     "🔄 COLLABORATIVE HEALING: All agents working together to restore {target}!",
					Triggers:    []Trigger{{Event: EventPhaseComplete, Value: 1, Next: "validate"}},
				},
				{
					Name:        "validate",
					Description: "✅ RECOVERY COMPLETE - All agents back in coordination",
					Progress:    100,
					Message:     "🎉 COORDINATION SUCCESS: {target} restored through agent collaboration!",
				},
			},
		},
		FlowCoordination: flowScenario(),
	}
}

var flowProgress = [telemetry.FlowStepCount]int{20, 40, 60, 80, 100, 100}

func flowScenario() Scenario {
	steps := telemetry.FlowSteps("the user")
	phases := make([]Phase, len(steps))
	for i, st := range steps {
		phases[i] = Phase{
			Name:        fmt.Sprintf("step-%d", i+1),
			Description: st.Description,
			Progress:    flowProgress[i],
			Message:     fmt.Sprintf("%s ═══▶ %s", st.Active, st.Target),
		}
		if i+1 < len(steps) {
			phases[i].Triggers = []Trigger{{Event: EventPhaseComplete, Value: 1, Next: fmt.Sprintf("step-%d", i+2)}}
		}
	}
	return Scenario{
		Name:        "Flow Coordination",
		Description: "Six agent hand-offs restoring a user's flow state.",
		Phases:      phases,
	}
}
