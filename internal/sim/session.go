package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/fault"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/health"
	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

// fileStamp is the timestamp prefix of session file names.
const fileStamp = "20060102_150405"

// SessionInfo describes a running session.
type SessionInfo struct {
	SessionID    string `json:"session_id"`
	SessionStart string `json:"session_start"`
	LogDir       string `json:"log_dir"`
	JSONLFile    string `json:"jsonl_file"`
}

// SessionLogger writes JSON snapshot files and the JSONL event stream of one
// session. Extra sinks receive every event written to the stream.
type SessionLogger struct {
	mu     sync.Mutex
	dir    string
	id     string
	start  string
	now    func() time.Time
	stream *FileWriter
	sinks  *MultiWriter
	closed bool
}

// NewSessionLogger creates dir if needed, opens the event stream and records
// session_start. A nil now uses time.Now.
func NewSessionLogger(dir string, now func() time.Time, sinks ...EventWriter) (*SessionLogger, error) {
	if now == nil {
		now = time.Now
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	l := &SessionLogger{
		dir: dir,
		id:  uuid.NewString()[:8],
		now: now,
	}
	l.start = l.timestamp()
	stream, err := NewFileWriter(l.sessionPath("events.jsonl"))
	if err != nil {
		return nil, err
	}
	l.stream = stream
	l.sinks = NewMultiWriter(sinks...)
	if err := l.emit(Event{EventType: EventSessionStart, Timestamp: l.start}); err != nil {
		stream.Close()
		return nil, err
	}
	return l, nil
}

func (l *SessionLogger) timestamp() string {
	return l.now().UTC().Format(telemetry.TimeFormat)
}

func (l *SessionLogger) sessionPath(name string) string {
	return filepath.Join(l.dir, fmt.Sprintf("%s_%s_%s", l.now().Format(fileStamp), l.id, name))
}

// emit stamps ev with the session id and appends it to the stream and sinks.
func (l *SessionLogger) emit(ev Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errors.New("session already finalized")
	}
	return l.write(ev)
}

// write does the work of emit. l.mu must be held.
func (l *SessionLogger) write(ev Event) error {
	ev.SessionID = l.id
	if ev.Timestamp == "" {
		ev.Timestamp = l.timestamp()
	}
	if err := l.stream.WriteEvent(ev); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	if err := l.sinks.WriteEvent(ev); err != nil {
		return fmt.Errorf("forward event %s: %w", ev.EventType, err)
	}
	return nil
}

// writeSnapshot writes v as indented JSON to a new session file.
func (l *SessionLogger) writeSnapshot(name string, v any) (string, error) {
	path := l.sessionPath(name)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

type stateSnapshot struct {
	SessionID     string                  `json:"session_id"`
	StateType     string                  `json:"state_type"`
	Timestamp     string                  `json:"timestamp"`
	SystemMetrics telemetry.SystemMetrics `json:"system_metrics"`
	Agents        []telemetry.AgentStatus `json:"agents"`
	Metadata      map[string]any          `json:"metadata"`
}

// LogSystemState records a full metric and agent snapshot.
func (l *SessionLogger) LogSystemState(stateType string, m telemetry.SystemMetrics, agents []telemetry.AgentStatus, metadata map[string]any) (string, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	ts := l.timestamp()
	path, err := l.writeSnapshot(stateType+"_state.json", stateSnapshot{
		SessionID:     l.id,
		StateType:     stateType,
		Timestamp:     ts,
		SystemMetrics: m,
		Agents:        agents,
		Metadata:      metadata,
	})
	if err != nil {
		return "", err
	}
	metrics := m
	return path, l.emit(Event{
		EventType:   EventSystemState,
		Timestamp:   ts,
		StateType:   stateType,
		HealthScore: health.Score(m),
		AgentCount:  len(agents),
		Metrics:     &metrics,
		Agents:      agents,
		Metadata:    metadata,
	})
}

type faultSnapshot struct {
	SessionID         string               `json:"session_id"`
	FaultEvent        fault.Event          `json:"fault_event"`
	RecoveryProcess   []fault.RecoveryStep `json:"recovery_process"`
	TotalRecoveryTime int                  `json:"total_recovery_time"`
	Timestamp         string               `json:"timestamp"`
}

// LogFaultEvent records an injected fault and its recovery plan.
func (l *SessionLogger) LogFaultEvent(ev fault.Event, steps []fault.RecoveryStep) (string, error) {
	total := fault.TotalDurationMS(steps)
	ts := l.timestamp()
	path, err := l.writeSnapshot("fault_event.json", faultSnapshot{
		SessionID:         l.id,
		FaultEvent:        ev,
		RecoveryProcess:   steps,
		TotalRecoveryTime: total,
		Timestamp:         ts,
	})
	if err != nil {
		return "", err
	}
	return path, l.emit(Event{
		EventType:           EventFaultInjection,
		Timestamp:           ts,
		FaultType:           string(ev.FaultType),
		TargetAgent:         ev.TargetAgent,
		Severity:            ev.Severity,
		RecoverySteps:       len(steps),
		TotalRecoveryTimeMS: total,
	})
}

type flowSnapshot struct {
	SessionID string               `json:"session_id"`
	UserName  string               `json:"user_name"`
	FlowData  telemetry.FlowResult `json:"flow_data"`
	Timestamp string               `json:"timestamp"`
}

// LogFlowDemo records a completed flow coordination demo.
func (l *SessionLogger) LogFlowDemo(r telemetry.FlowResult) (string, error) {
	ts := l.timestamp()
	path, err := l.writeSnapshot("flow_demo.json", flowSnapshot{
		SessionID: l.id,
		UserName:  r.UserName,
		FlowData:  r,
		Timestamp: ts,
	})
	if err != nil {
		return "", err
	}
	return path, l.emit(Event{
		EventType:     EventFlowDemoComplete,
		Timestamp:     ts,
		UserName:      r.UserName,
		FinalFlow:     r.TargetFlow,
		Effectiveness: r.Effectiveness,
	})
}

type sequenceSnapshot struct {
	SessionID    string                       `json:"session_id"`
	SequenceType string                       `json:"sequence_type"`
	Steps        []telemetry.CoordinationStep `json:"steps"`
	UserContext  map[string]any               `json:"user_context"`
	Timestamp    string                       `json:"timestamp"`
}

// LogCoordinationSequence records an ordered list of agent hand-offs.
func (l *SessionLogger) LogCoordinationSequence(sequenceType string, steps []telemetry.CoordinationStep, userContext map[string]any) (string, error) {
	if userContext == nil {
		userContext = map[string]any{}
	}
	ts := l.timestamp()
	path, err := l.writeSnapshot(sequenceType+"_coordination.json", sequenceSnapshot{
		SessionID:    l.id,
		SequenceType: sequenceType,
		Steps:        steps,
		UserContext:  userContext,
		Timestamp:    ts,
	})
	if err != nil {
		return "", err
	}
	return path, l.emit(Event{
		EventType:    EventCoordinationSequence,
		Timestamp:    ts,
		SequenceType: sequenceType,
		StepCount:    len(steps),
	})
}

type comparisonSnapshot struct {
	SessionID         string                   `json:"session_id"`
	Comparison        health.ComparisonReport  `json:"comparison"`
	CoordinationDelta health.CoordinationDelta `json:"coordination_delta"`
	Timestamp         string                   `json:"timestamp"`
}

// LogComparison records a before/after health comparison.
func (l *SessionLogger) LogComparison(rep health.ComparisonReport, delta health.CoordinationDelta) (string, error) {
	ts := l.timestamp()
	path, err := l.writeSnapshot("health_comparison.json", comparisonSnapshot{
		SessionID:         l.id,
		Comparison:        rep,
		CoordinationDelta: delta,
		Timestamp:         ts,
	})
	if err != nil {
		return "", err
	}
	recovered := rep.OverallHealth.RecoverySuccess
	return path, l.emit(Event{
		EventType:        EventHealthComparison,
		Timestamp:        ts,
		BeforeScore:      rep.OverallHealth.BeforeScore,
		AfterScore:       rep.OverallHealth.AfterScore,
		RecoverySuccess:  &recovered,
		ResilienceRating: string(rep.AnalysisSummary.ResilienceRating),
		AgentsImproved:   delta.AgentsImproved,
		AgentsDegraded:   delta.AgentsDegraded,
	})
}

// Finalize records session_end and closes the stream and every closable sink.
// Calling Finalize again, concurrently or not, is a no-op.
func (l *SessionLogger) Finalize() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	endErr := l.write(Event{EventType: EventSessionEnd})
	return errors.Join(endErr, l.stream.Close(), l.sinks.Close())
}

// Info returns the session id, start time and file locations.
func (l *SessionLogger) Info() SessionInfo {
	return SessionInfo{
		SessionID:    l.id,
		SessionStart: l.start,
		LogDir:       l.dir,
		JSONLFile:    l.stream.Path(),
	}
}
