package fault

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

// Injector picks fault targets and scripts the recovery plan.
type Injector struct {
	agents []string
	rand   *rand.Rand
	now    func() time.Time
}

// NewInjector creates an injector over the given circuit agents.
func NewInjector(agents []string, r *rand.Rand, now func() time.Time) *Injector {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Injector{agents: agents, rand: r, now: now}
}

// Options pins parts of the injected fault. Zero values are randomized.
type Options struct {
	Target   string
	Type     Type
	Severity float64
}

// Inject builds a fault event. Explicit targets must belong to the circuit.
func (i *Injector) Inject(opts Options) (Event, error) {
	if len(i.agents) == 0 {
		return Event{}, fmt.Errorf("no agents to inject a fault into")
	}
	target := opts.Target
	if target == "" {
		target = i.agents[i.rand.Intn(len(i.agents))]
	} else if !i.member(target) {
		return Event{}, fmt.Errorf("fault target %s is not part of the circuit", target)
	}
	typ := opts.Type
	if typ == "" {
		typ = Types[i.rand.Intn(len(Types))]
	}
	severity := opts.Severity
	if severity <= 0 {
		severity = 0.5 + i.rand.Float64()*0.4
	}
	if severity > 1 {
		severity = 1
	}
	id, err := uuid.NewRandomFromReader(i.rand)
	if err != nil {
		return Event{}, fmt.Errorf("fault id: %w", err)
	}
	return Event{
		FaultID:       id.String()[:8],
		FaultType:     typ,
		TargetAgent:   target,
		Severity:      severity,
		Description:   describe(typ, target),
		InjectionTime: i.now().UTC().Format(telemetry.TimeFormat),
	}, nil
}

func (i *Injector) member(name string) bool {
	for _, a := range i.agents {
		if a == name {
			return true
		}
	}
	return false
}

func describe(t Type, target string) string {
	switch t {
	case AgentCrash:
		return fmt.Sprintf("%s stopped responding", target)
	case NetworkPartition:
		return fmt.Sprintf("%s cut off from the neural bus", target)
	case MemoryCorruption:
		return fmt.Sprintf("%s working memory corrupted", target)
	case LatencySpike:
		return fmt.Sprintf("%s response latency spiking", target)
	case Byzantine:
		return fmt.Sprintf("%s emitting inconsistent decisions", target)
	}
	return fmt.Sprintf("%s faulted", target)
}

// RecoveryPlan returns the four scripted recovery steps for ev.
// Durations scale with severity.
func (i *Injector) RecoveryPlan(ev Event) []RecoveryStep {
	peers := make([]string, 0, len(i.agents))
	for _, a := range i.agents {
		if a != ev.TargetAgent {
			peers = append(peers, a)
		}
	}
	all := append(append([]string{}, peers...), ev.TargetAgent)
	scale := 1 + ev.Severity

	steps := []RecoveryStep{
		{Phase: telemetry.PhaseFault, Name: "detect", Description: fmt.Sprintf("Agents detecting %s failure", ev.TargetAgent), AgentsInvolved: peers},
		{Phase: telemetry.PhaseIsolate, Name: "isolate", Description: fmt.Sprintf("Bypassing %s and rerouting tasks", ev.TargetAgent), AgentsInvolved: peers},
		{Phase: telemetry.PhaseHeal, Name: "heal", Description: fmt.Sprintf("Collaboratively restoring %s", ev.TargetAgent), AgentsInvolved: all},
		{Phase: telemetry.PhaseValidate, Name: "validate", Description: fmt.Sprintf("Confirming %s full recovery", ev.TargetAgent), AgentsInvolved: all},
	}
	base := [...]int{150, 300, 600, 200}
	for n := range steps {
		jitter := 0.8 + i.rand.Float64()*0.4
		steps[n].DurationMS = int(float64(base[n]) * scale * jitter)
		steps[n].Success = true
	}
	return steps
}
