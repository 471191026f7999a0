package sim

import (
	"encoding/json"
	"time"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

// EventType names an entry of the session event stream.
type EventType string

const (
	EventSessionStart         EventType = "session_start"
	EventSystemState          EventType = "system_state"
	EventFaultInjection       EventType = "fault_injection"
	EventFlowDemoComplete     EventType = "flow_demo_complete"
	EventCoordinationSequence EventType = "coordination_sequence"
	EventHealthComparison     EventType = "health_comparison"
	EventSessionEnd           EventType = "session_end"
)

// Event is one line of the JSONL session stream. Only the fields relevant
// to the event type are set; MarshalJSON writes exactly those fields, zero
// values included.
type Event struct {
	EventType EventType `json:"event_type"`
	SessionID string    `json:"session_id"`
	Timestamp string    `json:"timestamp"`

	// system_state
	StateType   string                   `json:"state_type,omitempty"`
	HealthScore float64                  `json:"health_score,omitempty"`
	AgentCount  int                      `json:"agent_count,omitempty"`
	Metrics     *telemetry.SystemMetrics `json:"metrics,omitempty"`
	Agents      []telemetry.AgentStatus  `json:"agents,omitempty"`
	Metadata    map[string]any           `json:"metadata,omitempty"`

	// fault_injection
	FaultType           string  `json:"fault_type,omitempty"`
	TargetAgent         string  `json:"target_agent,omitempty"`
	Severity            float64 `json:"severity,omitempty"`
	RecoverySteps       int     `json:"recovery_steps,omitempty"`
	TotalRecoveryTimeMS int     `json:"total_recovery_time_ms,omitempty"`

	// flow_demo_complete
	UserName      string  `json:"user_name,omitempty"`
	FinalFlow     float64 `json:"final_flow,omitempty"`
	Effectiveness float64 `json:"effectiveness,omitempty"`

	// coordination_sequence
	SequenceType string `json:"sequence_type,omitempty"`
	StepCount    int    `json:"step_count,omitempty"`

	// health_comparison
	BeforeScore      float64 `json:"before_score,omitempty"`
	AfterScore       float64 `json:"after_score,omitempty"`
	RecoverySuccess  *bool   `json:"recovery_success,omitempty"`
	ResilienceRating string  `json:"resilience_rating,omitempty"`
	AgentsImproved   int     `json:"agents_improved,omitempty"`
	AgentsDegraded   int     `json:"agents_degraded,omitempty"`
}

type eventHeader struct {
	EventType EventType `json:"event_type"`
	SessionID string    `json:"session_id"`
	Timestamp string    `json:"timestamp"`
}

// MarshalJSON encodes the header plus the payload of the event type.
func (e Event) MarshalJSON() ([]byte, error) {
	h := eventHeader{EventType: e.EventType, SessionID: e.SessionID, Timestamp: e.Timestamp}
	switch e.EventType {
	case EventSystemState:
		return json.Marshal(struct {
			eventHeader
			StateType   string                   `json:"state_type"`
			HealthScore float64                  `json:"health_score"`
			AgentCount  int                      `json:"agent_count"`
			Metrics     *telemetry.SystemMetrics `json:"metrics,omitempty"`
			Agents      []telemetry.AgentStatus  `json:"agents,omitempty"`
			Metadata    map[string]any           `json:"metadata,omitempty"`
			TargetAgent string                   `json:"target_agent,omitempty"`
		}{h, e.StateType, e.HealthScore, e.AgentCount, e.Metrics, e.Agents, e.Metadata, e.TargetAgent})
	case EventFaultInjection:
		return json.Marshal(struct {
			eventHeader
			FaultType           string  `json:"fault_type"`
			TargetAgent         string  `json:"target_agent"`
			Severity            float64 `json:"severity"`
			RecoverySteps       int     `json:"recovery_steps"`
			TotalRecoveryTimeMS int     `json:"total_recovery_time_ms"`
		}{h, e.FaultType, e.TargetAgent, e.Severity, e.RecoverySteps, e.TotalRecoveryTimeMS})
	case EventFlowDemoComplete:
		return json.Marshal(struct {
			eventHeader
			UserName      string  `json:"user_name"`
			FinalFlow     float64 `json:"final_flow"`
			Effectiveness float64 `json:"effectiveness"`
		}{h, e.UserName, e.FinalFlow, e.Effectiveness})
	case EventCoordinationSequence:
		return json.Marshal(struct {
			eventHeader
			SequenceType string `json:"sequence_type"`
			StepCount    int    `json:"step_count"`
		}{h, e.SequenceType, e.StepCount})
	case EventHealthComparison:
		return json.Marshal(struct {
			eventHeader
			TargetAgent      string  `json:"target_agent,omitempty"`
			BeforeScore      float64 `json:"before_score"`
			AfterScore       float64 `json:"after_score"`
			RecoverySuccess  *bool   `json:"recovery_success"`
			ResilienceRating string  `json:"resilience_rating"`
			AgentsImproved   int     `json:"agents_improved"`
			AgentsDegraded   int     `json:"agents_degraded"`
		}{h, e.TargetAgent, e.BeforeScore, e.AfterScore, e.RecoverySuccess, e.ResilienceRating, e.AgentsImproved, e.AgentsDegraded})
	}
	return json.Marshal(h)
}

// Time parses the event timestamp. Unparseable timestamps yield the zero time.
func (e Event) Time() time.Time {
	ts, err := time.Parse(telemetry.TimeFormat, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// EventWriter is an interface to support different event sinks.
type EventWriter interface {
	WriteEvent(Event) error
}

// Optional: writers can also support batch mode
type batchWriter interface {
	WriteEvents([]Event) error
}

// AdminStatusWriter allows writers to receive admin endpoint status updates.
type AdminStatusWriter interface {
	SetAdminStatus(listening bool)
}
