// Metric and agent snapshot types shared by generators, analyzers and writers
package telemetry

import (
	"encoding/json"
	"fmt"
)

// SystemMetrics is one snapshot of system-wide metrics.
// Values are copied around by value and never edited after creation.
type SystemMetrics struct {
	SystemIntegrity        float64 `json:"system_integrity"`
	AgentConfidence        float64 `json:"agent_confidence"`
	CoordinationEfficiency float64 `json:"coordination_efficiency"`
	MessageThroughput      float64 `json:"message_throughput"`
	ResponseLatency        float64 `json:"response_latency"` // ms
	ErrorRate              float64 `json:"error_rate"`       // fraction
	Timestamp              string  `json:"timestamp"`        // ISO-8601
}

// AgentState is the coordination state of a single agent.
type AgentState string

// Agent states.
const (
	StateNormal    AgentState = "NORMAL"
	StateWarning   AgentState = "WARNING"
	StateCritical  AgentState = "CRITICAL"
	StateEmergency AgentState = "EMERGENCY"
	StateRecovery  AgentState = "RECOVERY"
	StateValidated AgentState = "VALIDATED"
)

// AgentStates lists every state in severity-neutral declaration order.
var AgentStates = []AgentState{
	StateNormal,
	StateWarning,
	StateCritical,
	StateEmergency,
	StateRecovery,
	StateValidated,
}

// ParseAgentState converts s into an AgentState.
func ParseAgentState(s string) (AgentState, error) {
	st := AgentState(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown agent state %q", s)
	}
	return st, nil
}

// Valid reports whether s is one of the six known states.
func (s AgentState) Valid() bool {
	switch s {
	case StateNormal, StateWarning, StateCritical, StateEmergency, StateRecovery, StateValidated:
		return true
	}
	return false
}

// Icon returns the glyph used when rendering the state.
func (s AgentState) Icon() string {
	switch s {
	case StateNormal:
		return "🟢"
	case StateWarning:
		return "🟡"
	case StateCritical:
		return "🔴"
	case StateEmergency:
		return "🚨"
	case StateRecovery:
		return "🔄"
	case StateValidated:
		return "✅"
	}
	return "?"
}

// UnmarshalJSON rejects states outside the closed set.
func (s *AgentState) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParseAgentState(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// AgentStatus is one snapshot of a single agent.
type AgentStatus struct {
	AgentID           string     `json:"agent_id"`
	State             AgentState `json:"state"`
	Confidence        float64    `json:"confidence"`
	ActiveTasks       []string   `json:"active_tasks"`
	LastResponseTime  float64    `json:"last_response_time"`
	ErrorCount        int        `json:"error_count"`
	CoordinationScore float64    `json:"coordination_score"`
	Timestamp         string     `json:"timestamp"`
}

// CoordinationStep is one scripted hand-off between two agents.
type CoordinationStep struct {
	Step        string `json:"step"` // "3/6"
	Active      string `json:"active"`
	Target      string `json:"target"`
	Description string `json:"description"`
}
