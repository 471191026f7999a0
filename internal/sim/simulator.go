// Simulator orchestrating the coordination demos
package sim

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/display"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/fault"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/health"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/logging"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/scenario"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

// Options configures a Simulator.
type Options struct {
	Agents       []string
	UserName     string
	PhaseDelay   time.Duration
	TickInterval time.Duration
	Fault        fault.Options
	// Scenario overrides the built-in fault-recovery script.
	Scenario *scenario.Scenario
}

// Snapshot is the latest observed circuit state.
type Snapshot struct {
	Source         string                    `json:"source"`
	Metrics        telemetry.SystemMetrics   `json:"metrics"`
	Agents         []telemetry.AgentStatus   `json:"agents"`
	Score          float64                   `json:"health_score"`
	Classification health.Classification     `json:"classification"`
	Bar            string                    `json:"bar"`
	Comparison     *health.ComparisonReport  `json:"comparison,omitempty"`
	Delta          *health.CoordinationDelta `json:"coordination_delta,omitempty"`
}

// FaultResult is the outcome of a fault injection run.
type FaultResult struct {
	Event      fault.Event
	Steps      []fault.RecoveryStep
	Baseline   telemetry.SystemMetrics
	Final      telemetry.SystemMetrics
	Comparison health.ComparisonReport
	Delta      health.CoordinationDelta
}

// AgentCheck is the result of one agent in the test suite.
type AgentCheck struct {
	Agent    string
	Status   telemetry.AgentStatus
	Passed   bool
	Duration time.Duration
}

// Simulator orchestrates the scripted demos, renders them to out and records
// them in the session log.
type Simulator struct {
	opts     Options
	gen      *telemetry.Generator
	injector *fault.Injector
	renderer *display.Renderer
	out      io.Writer
	session  *SessionLogger
	live     EventWriter

	mu       sync.Mutex
	snapshot Snapshot
}

// NewSimulator creates a simulator. rng and now seed the telemetry generator
// and fault injector; session may be nil to skip session logs.
func NewSimulator(opts Options, rng *rand.Rand, now func() time.Time, out io.Writer, renderer *display.Renderer, session *SessionLogger) *Simulator {
	if len(opts.Agents) == 0 {
		opts.Agents = telemetry.AgentNames()
	}
	if opts.UserName == "" {
		opts.UserName = "User"
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if out == nil {
		out = io.Discard
	}
	if renderer == nil {
		renderer = display.NewRenderer(nil)
	}
	return &Simulator{
		opts:     opts,
		gen:      telemetry.NewGenerator(rng, now),
		injector: fault.NewInjector(opts.Agents, rng, now),
		renderer: renderer,
		out:      out,
		session:  session,
	}
}

// SetLiveWriter sets the writer receiving live tick events.
func (s *Simulator) SetLiveWriter(w EventWriter) { s.live = w }

// Snapshot returns a copy of the latest observed state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot
	snap.Agents = append([]telemetry.AgentStatus(nil), s.snapshot.Agents...)
	return snap
}

func (s *Simulator) observe(source string, m telemetry.SystemMetrics, agents []telemetry.AgentStatus) {
	score := health.Score(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Source = source
	s.snapshot.Metrics = m
	s.snapshot.Agents = agents
	s.snapshot.Score = score
	s.snapshot.Classification = health.Classify(score)
	s.snapshot.Bar = health.DefaultBar(score)
}

func (s *Simulator) observeComparison(rep health.ComparisonReport, delta health.CoordinationDelta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Comparison = &rep
	s.snapshot.Delta = &delta
}

func (s *Simulator) print(text string) {
	fmt.Fprint(s.out, text)
}

// pause waits for the phase delay or until ctx is done.
func (s *Simulator) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Simulator) logState(stateType string, m telemetry.SystemMetrics, agents []telemetry.AgentStatus, meta map[string]any) error {
	if s.session == nil {
		return nil
	}
	_, err := s.session.LogSystemState(stateType, m, agents, meta)
	return err
}

// RunArchitecture renders the agent catalogue.
func (s *Simulator) RunArchitecture() {
	infos := make([]telemetry.AgentInfo, 0, len(s.opts.Agents))
	for _, a := range s.opts.Agents {
		if info, ok := telemetry.LookupAgent(a); ok {
			infos = append(infos, info)
		}
	}
	s.print(s.renderer.Architecture(infos))
}

// RunHealthDashboard renders a baseline snapshot and records it.
func (s *Simulator) RunHealthDashboard(ctx context.Context) (Snapshot, error) {
	log := logging.FromContext(ctx)
	m := s.gen.BaselineMetrics()
	agents := s.gen.AgentStatuses(s.opts.Agents, "", telemetry.PhaseBaseline)
	s.observe("dashboard", m, agents)
	s.print(s.renderer.HealthDashboard("System Health Dashboard", m, agents))
	if err := s.logState("dashboard", m, agents, nil); err != nil {
		return Snapshot{}, err
	}
	log.Debug("health dashboard rendered", "score", health.Score(m))
	return s.Snapshot(), nil
}

// RunFaultInjection injects a fault, walks the recovery script and compares
// the recovered state against the baseline.
func (s *Simulator) RunFaultInjection(ctx context.Context) (FaultResult, error) {
	log := logging.FromContext(ctx)
	baseline := s.gen.BaselineMetrics()
	baseAgents := s.gen.AgentStatuses(s.opts.Agents, "", telemetry.PhaseBaseline)
	s.observe("baseline", baseline, baseAgents)
	s.print(s.renderer.HealthDashboard("Baseline System State", baseline, baseAgents))
	if err := s.logState("baseline", baseline, baseAgents, nil); err != nil {
		return FaultResult{}, err
	}

	ev, err := s.injector.Inject(s.opts.Fault)
	if err != nil {
		return FaultResult{}, fmt.Errorf("inject fault: %w", err)
	}
	steps := s.injector.RecoveryPlan(ev)
	log.Info("fault injected", "fault_id", ev.FaultID, "type", ev.FaultType, "target", ev.TargetAgent, "severity", ev.Severity)
	if s.session != nil {
		if _, err := s.session.LogFaultEvent(ev, steps); err != nil {
			return FaultResult{}, err
		}
	}

	script := s.opts.Scenario
	if script == nil {
		sc := scenario.BuiltIn()[scenario.FaultRecovery]
		script = &sc
	}
	final, finalAgents := baseline, baseAgents
	walk := script.Walk()
	for i, ph := range walk {
		if err := s.pause(ctx, s.opts.PhaseDelay); err != nil {
			return FaultResult{}, err
		}
		phase := i + 1
		m := s.gen.PhaseMetrics(baseline, phase, ev.Severity)
		agents := s.gen.AgentStatuses(s.opts.Agents, ev.TargetAgent, phase)
		s.observe("phase:"+ph.Name, m, agents)
		s.print(s.renderer.FaultPhase(display.FaultFrame{
			Statuses:    agents,
			Target:      ev.TargetAgent,
			Phase:       phase,
			Steps:       len(walk),
			Progress:    ph.Progress,
			Metrics:     m,
			Description: ph.Description,
			Message:     ph.Message,
		}))
		if phase == telemetry.PhaseFault {
			if err := s.logState("fault", m, agents, map[string]any{"fault_id": ev.FaultID, "phase": ph.Name}); err != nil {
				return FaultResult{}, err
			}
		}
		log.Debug("recovery phase", "phase", ph.Name, "score", health.Score(m))
		final, finalAgents = m, agents
	}

	if err := s.logState("recovered", final, finalAgents, map[string]any{"fault_id": ev.FaultID}); err != nil {
		return FaultResult{}, err
	}
	rep := health.Compare(baseline, final)
	delta := health.CompareAgents(baseAgents, finalAgents)
	s.observeComparison(rep, delta)
	s.print(s.renderer.Comparison(rep))
	s.print(s.renderer.CoordinationDelta(delta))
	if s.session != nil {
		if _, err := s.session.LogComparison(rep, delta); err != nil {
			return FaultResult{}, err
		}
	}
	return FaultResult{Event: ev, Steps: steps, Baseline: baseline, Final: final, Comparison: rep, Delta: delta}, nil
}

// RunFlowDemo walks the six flow coordination hand-offs for the user.
func (s *Simulator) RunFlowDemo(ctx context.Context) (telemetry.FlowResult, error) {
	user := s.opts.UserName
	steps := telemetry.FlowSteps(user)
	phases := scenario.BuiltIn()[scenario.FlowCoordination].Phases
	for i, st := range steps {
		if i > 0 {
			if err := s.pause(ctx, s.opts.PhaseDelay); err != nil {
				return telemetry.FlowResult{}, err
			}
		}
		progress := 100
		if i < len(phases) {
			progress = phases[i].Progress
		}
		s.print(s.renderer.FlowStep(display.FlowFrame{
			Step:       st,
			User:       user,
			Agents:     s.opts.Agents,
			Progress:   progress,
			Integrity:  s.gen.Uniform(85, 99),
			Confidence: s.gen.Uniform(80, 95),
		}))
	}
	res := s.gen.FlowResult(user)
	s.print(fmt.Sprintf("\n%s %s's flow improved from %.1f%% to %.1f%% (effectiveness %.1f%%)\n\n",
		s.renderer.Theme().Success("✅ FLOW RESTORED:"), user, res.InitialFlow, res.TargetFlow, res.Effectiveness))
	if s.session != nil {
		if _, err := s.session.LogCoordinationSequence("flow", steps, map[string]any{"user_name": user}); err != nil {
			return res, err
		}
		if _, err := s.session.LogFlowDemo(res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// passThreshold is the minimum confidence of a passing agent check.
const passThreshold = 80.0

// RunAgentSuite checks every agent concurrently and renders the summary.
// The first failing or cancelled check cancels the rest.
func (s *Simulator) RunAgentSuite(ctx context.Context) ([]AgentCheck, error) {
	log := logging.FromContext(ctx)
	m := s.gen.BaselineMetrics()
	statuses := s.gen.AgentStatuses(s.opts.Agents, "", telemetry.PhaseBaseline)
	probes := make([]time.Duration, len(statuses))
	for i, st := range statuses {
		probes[i] = time.Duration(st.LastResponseTime/200*float64(s.opts.PhaseDelay)) / 2
	}

	results := make([]AgentCheck, len(statuses))
	g, gctx := errgroup.WithContext(ctx)
	for i, st := range statuses {
		g.Go(func() error {
			start := time.Now()
			if err := s.pause(gctx, probes[i]); err != nil {
				return fmt.Errorf("check %s: %w", st.AgentID, err)
			}
			passed := (st.State == telemetry.StateNormal || st.State == telemetry.StateValidated) &&
				st.Confidence >= passThreshold && st.ErrorCount <= 2
			results[i] = AgentCheck{Agent: st.AgentID, Status: st, Passed: passed, Duration: time.Since(start)}
			log.Debug("agent check", "agent", st.AgentID, "passed", passed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]display.CheckRow, len(results))
	for i, r := range results {
		rows[i] = display.CheckRow{
			Agent:      r.Agent,
			State:      r.Status.State,
			Confidence: r.Status.Confidence,
			ResponseMS: r.Status.LastResponseTime,
			Passed:     r.Passed,
		}
	}
	s.observe("test-all", m, statuses)
	s.print(s.renderer.SuiteSummary(rows, health.Score(m)))
	if err := s.logState("test_all", m, statuses, map[string]any{"passed": countPassed(results)}); err != nil {
		return results, err
	}
	return results, nil
}

func countPassed(rs []AgentCheck) int {
	n := 0
	for _, r := range rs {
		if r.Passed {
			n++
		}
	}
	return n
}
