package telemetry

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// TimeFormat is the ISO-8601 layout used for every snapshot timestamp.
const TimeFormat = time.RFC3339Nano

// Fault phases driven by the fault-injection demo.
const (
	PhaseBaseline = 0
	PhaseFault    = 1
	PhaseIsolate  = 2
	PhaseHeal     = 3
	PhaseValidate = 4
)

// Generator produces randomized metric and agent snapshots.
// The random source and clock are owned by the caller so runs are reproducible.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a generator. A nil now falls back to time.Now.
func NewGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// Timestamp returns the generator clock formatted as ISO-8601.
func (g *Generator) Timestamp() string {
	return g.now().UTC().Format(TimeFormat)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// intn returns a value in [lo, hi].
func (g *Generator) intn(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// BaselineMetrics returns a healthy snapshot.
func (g *Generator) BaselineMetrics() SystemMetrics {
	return SystemMetrics{
		SystemIntegrity:        g.uniform(97.0, 99.5),
		AgentConfidence:        g.uniform(85.0, 95.0),
		MessageThroughput:      g.uniform(45.0, 55.0),
		ResponseLatency:        g.uniform(100, 300),
		ErrorRate:              g.uniform(0.001, 0.01),
		CoordinationEfficiency: g.uniform(88.0, 96.0),
		Timestamp:              g.Timestamp(),
	}
}

// phaseImpact is the share of the fault still visible in each phase.
var phaseImpact = map[int]float64{
	PhaseFault:   1.0,
	PhaseIsolate: 0.8,
	PhaseHeal:    0.4,
}

// PhaseMetrics derives a new snapshot from base for the given fault phase.
// severity is clamped to [0,1]. The validate phase returns a snapshot close to
// base; unknown phases return base with a fresh timestamp.
func (g *Generator) PhaseMetrics(base SystemMetrics, phase int, severity float64) SystemMetrics {
	severity = math.Max(0, math.Min(1, severity))
	out := base
	out.Timestamp = g.Timestamp()

	if phase == PhaseValidate {
		out.SystemIntegrity = pct(base.SystemIntegrity * g.uniform(0.995, 1.01))
		out.AgentConfidence = pct(base.AgentConfidence * g.uniform(0.99, 1.03))
		out.CoordinationEfficiency = pct(base.CoordinationEfficiency * g.uniform(0.99, 1.03))
		out.MessageThroughput = math.Max(0, base.MessageThroughput*g.uniform(0.97, 1.05))
		out.ResponseLatency = math.Max(0, base.ResponseLatency*g.uniform(0.85, 1.05))
		out.ErrorRate = math.Max(0, base.ErrorRate*g.uniform(0.7, 1.1))
		return out
	}

	impact, ok := phaseImpact[phase]
	if !ok {
		return out
	}
	k := impact * severity
	out.SystemIntegrity = pct(base.SystemIntegrity - k*g.uniform(15, 25))
	out.AgentConfidence = pct(base.AgentConfidence - k*g.uniform(20, 30))
	out.CoordinationEfficiency = pct(base.CoordinationEfficiency - k*g.uniform(15, 25))
	out.MessageThroughput = math.Max(0, base.MessageThroughput-k*g.uniform(10, 20))
	out.ResponseLatency = base.ResponseLatency + k*g.uniform(200, 400)
	out.ErrorRate = base.ErrorRate + k*g.uniform(0.05, 0.15)
	return out
}

func pct(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// AgentStatuses returns one status per agent for the given fault phase.
// An empty faultTarget means no fault is active.
func (g *Generator) AgentStatuses(agents []string, faultTarget string, phase int) []AgentStatus {
	statuses := make([]AgentStatus, 0, len(agents))
	ts := g.Timestamp()
	for _, agent := range agents {
		var (
			state      AgentState
			confidence float64
			errors     int
			coordScore float64
		)
		switch {
		case faultTarget != "" && agent == faultTarget && (phase == PhaseFault || phase == PhaseIsolate):
			state = StateEmergency
			if phase == PhaseFault {
				state = StateCritical
			}
			confidence = g.uniform(20.0, 40.0)
			errors = g.intn(5, 15)
			coordScore = g.uniform(30.0, 50.0)
		case faultTarget != "" && (phase == PhaseFault || phase == PhaseIsolate):
			state = StateEmergency
			if phase == PhaseFault {
				state = StateWarning
			}
			confidence = g.uniform(70.0, 85.0)
			errors = g.intn(1, 3)
			coordScore = g.uniform(75.0, 90.0)
		case phase == PhaseHeal:
			state = StateRecovery
			confidence = g.uniform(80.0, 95.0)
			errors = g.intn(0, 2)
			coordScore = g.uniform(85.0, 95.0)
		default:
			state = StateNormal
			if phase == PhaseValidate {
				state = StateValidated
			}
			confidence = g.uniform(85.0, 98.0)
			errors = g.intn(0, 1)
			coordScore = g.uniform(90.0, 98.0)
		}

		tasks := make([]string, g.intn(2, 6))
		for i := range tasks {
			tasks[i] = fmt.Sprintf("task_%d", i)
		}
		statuses = append(statuses, AgentStatus{
			AgentID:           agent,
			State:             state,
			Confidence:        confidence,
			ActiveTasks:       tasks,
			LastResponseTime:  g.uniform(50, 200),
			ErrorCount:        errors,
			CoordinationScore: coordScore,
			Timestamp:         ts,
		})
	}
	return statuses
}

// Uniform exposes the generator's random source for scripted display values.
func (g *Generator) Uniform(lo, hi float64) float64 {
	return g.uniform(lo, hi)
}
