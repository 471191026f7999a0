package sim

import (
	"context"
	"time"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/fault"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/health"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/logging"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

// ticksPerPhase is how many live ticks each fault phase lasts.
const ticksPerPhase = 4

// liveCycle is the phase sequence of the live loop: a healthy stretch
// followed by one full fault and recovery.
var liveCycle = []int{
	telemetry.PhaseBaseline,
	telemetry.PhaseBaseline,
	telemetry.PhaseFault,
	telemetry.PhaseIsolate,
	telemetry.PhaseHeal,
	telemetry.PhaseValidate,
}

// liveState tracks the fault cycle of the live loop. before and beforeAgents
// hold the last healthy tick, compared against the end of validation.
type liveState struct {
	tick         int
	baseline     telemetry.SystemMetrics
	fault        fault.Event
	before       telemetry.SystemMetrics
	beforeAgents []telemetry.AgentStatus
}

// Run starts the live loop and stops when the context is done.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting live simulation", "tick_interval", s.opts.TickInterval)
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	st := &liveState{baseline: s.gen.BaselineMetrics()}
	for {
		select {
		case <-ticker.C:
			s.tick(ctx, st)
		case <-ctx.Done():
			log.Info("stopping live simulation", "ticks", st.tick)
			return
		}
	}
}

// tick advances the live cycle by one step and writes a system_state event.
func (s *Simulator) tick(ctx context.Context, st *liveState) {
	log := logging.FromContext(ctx)
	phase := liveCycle[(st.tick/ticksPerPhase)%len(liveCycle)]
	boundary := st.tick%ticksPerPhase == 0
	st.tick++

	if phase == telemetry.PhaseFault && boundary {
		ev, err := s.injector.Inject(s.opts.Fault)
		if err != nil {
			log.Error("live fault injection failed", "err", err)
			return
		}
		st.fault = ev
		log.Info("live fault injected", "target", ev.TargetAgent, "type", ev.FaultType)
		s.writeLive(ctx, Event{
			EventType:   EventFaultInjection,
			Timestamp:   s.gen.Timestamp(),
			FaultType:   string(ev.FaultType),
			TargetAgent: ev.TargetAgent,
			Severity:    ev.Severity,
		})
	}
	if phase == telemetry.PhaseBaseline && boundary {
		st.baseline = s.gen.BaselineMetrics()
		st.fault = fault.Event{}
	}

	var m telemetry.SystemMetrics
	if phase == telemetry.PhaseBaseline {
		m = s.gen.PhaseMetrics(st.baseline, telemetry.PhaseValidate, 0)
	} else {
		m = s.gen.PhaseMetrics(st.baseline, phase, st.fault.Severity)
	}
	agents := s.gen.AgentStatuses(s.opts.Agents, st.fault.TargetAgent, phase)
	s.observe("live", m, agents)

	metrics := m
	s.writeLive(ctx, Event{
		EventType:   EventSystemState,
		Timestamp:   m.Timestamp,
		StateType:   phaseName(phase),
		HealthScore: health.Score(m),
		AgentCount:  len(agents),
		Metrics:     &metrics,
		Agents:      agents,
		TargetAgent: st.fault.TargetAgent,
	})

	switch {
	case phase == telemetry.PhaseBaseline:
		st.before, st.beforeAgents = m, agents
	case phase == telemetry.PhaseValidate && st.tick%ticksPerPhase == 0 && st.beforeAgents != nil:
		s.compareLive(ctx, st, m, agents)
	}
}

// compareLive closes a live fault cycle with a before/after comparison.
func (s *Simulator) compareLive(ctx context.Context, st *liveState, m telemetry.SystemMetrics, agents []telemetry.AgentStatus) {
	rep := health.Compare(st.before, m)
	delta := health.CompareAgents(st.beforeAgents, agents)
	s.observeComparison(rep, delta)
	recovered := rep.OverallHealth.RecoverySuccess
	logging.FromContext(ctx).Info("live recovery compared",
		"target", st.fault.TargetAgent,
		"before", rep.OverallHealth.BeforeScore,
		"after", rep.OverallHealth.AfterScore,
		"recovered", recovered)
	s.writeLive(ctx, Event{
		EventType:        EventHealthComparison,
		Timestamp:        m.Timestamp,
		TargetAgent:      st.fault.TargetAgent,
		BeforeScore:      rep.OverallHealth.BeforeScore,
		AfterScore:       rep.OverallHealth.AfterScore,
		RecoverySuccess:  &recovered,
		ResilienceRating: string(rep.AnalysisSummary.ResilienceRating),
		AgentsImproved:   delta.AgentsImproved,
		AgentsDegraded:   delta.AgentsDegraded,
	})
}

func (s *Simulator) writeLive(ctx context.Context, ev Event) {
	if s.live == nil {
		return
	}
	if s.session != nil {
		ev.SessionID = s.session.Info().SessionID
	}
	if err := s.live.WriteEvent(ev); err != nil {
		logging.FromContext(ctx).Error("live write failed", "event_type", ev.EventType, "err", err)
	}
}

func phaseName(phase int) string {
	switch phase {
	case telemetry.PhaseFault:
		return "fault"
	case telemetry.PhaseIsolate:
		return "isolate"
	case telemetry.PhaseHeal:
		return "heal"
	case telemetry.PhaseValidate:
		return "validate"
	}
	return "baseline"
}
