package telemetry

import "fmt"

// FlowStepCount is the number of hand-offs in the flow coordination demo.
const FlowStepCount = 6

var flowPairs = [FlowStepCount][2]string{
	{CognitiveDetector, NeuralBus},
	{NeuralBus, MemoryController},
	{MemoryController, DecisionEngine},
	{DecisionEngine, AdaptationController},
	{AdaptationController, CoordinationHub},
	{CoordinationHub, CognitiveDetector},
}

var flowDescriptions = [FlowStepCount]string{
	"Detecting %s's flow state and challenge-skill balance",
	"Routing %s's context to the memory systems",
	"Retrieving proven flow strategies for %s",
	"Optimizing %s's challenge-skill balance",
	"Adapting flow parameters to %s's feedback",
	"Confirming %s's flow recovery across the circuit",
}

// FlowSteps returns the scripted coordination hand-offs for user.
func FlowSteps(user string) []CoordinationStep {
	steps := make([]CoordinationStep, FlowStepCount)
	for i, pair := range flowPairs {
		steps[i] = CoordinationStep{
			Step:        fmt.Sprintf("%d/%d", i+1, FlowStepCount),
			Active:      pair[0],
			Target:      pair[1],
			Description: fmt.Sprintf(flowDescriptions[i], user),
		}
	}
	return steps
}

// FlowResult summarizes a completed flow demo.
type FlowResult struct {
	UserName      string  `json:"user_name"`
	InitialFlow   float64 `json:"initial_flow"`
	TargetFlow    float64 `json:"target_flow"`
	Effectiveness float64 `json:"effectiveness"`
	Steps         int     `json:"steps"`
}

// FlowResult draws the flow improvement of a finished demo.
func (g *Generator) FlowResult(user string) FlowResult {
	initial := g.uniform(35, 55)
	target := g.uniform(80, 95)
	return FlowResult{
		UserName:      user,
		InitialFlow:   initial,
		TargetFlow:    target,
		Effectiveness: (target - initial) / (100 - initial) * 100,
		Steps:         FlowStepCount,
	}
}
