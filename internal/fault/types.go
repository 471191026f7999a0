package fault

import (
	"fmt"
	"time"
)

// Type represents the kind of fault injected into the circuit.
type Type string

const (
	AgentCrash       Type = "agent_crash"
	NetworkPartition Type = "network_partition"
	MemoryCorruption Type = "memory_corruption"
	LatencySpike     Type = "latency_spike"
	Byzantine        Type = "byzantine"
)

// Types lists every fault type in declaration order.
var Types = []Type{AgentCrash, NetworkPartition, MemoryCorruption, LatencySpike, Byzantine}

// ParseType converts a string into a Type.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown fault type %q", s)
}

// Event describes one injected fault.
type Event struct {
	FaultID       string  `json:"fault_id"`
	FaultType     Type    `json:"fault_type"`
	TargetAgent   string  `json:"target_agent"`
	Severity      float64 `json:"severity"`
	Description   string  `json:"description"`
	InjectionTime string  `json:"injection_time"`
}

// RecoveryStep is one scripted step of the recovery plan.
type RecoveryStep struct {
	Phase          int      `json:"phase"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	AgentsInvolved []string `json:"agents_involved"`
	DurationMS     int      `json:"duration_ms"`
	Success        bool     `json:"success"`
}

// Duration returns the step duration.
func (s RecoveryStep) Duration() time.Duration {
	return time.Duration(s.DurationMS) * time.Millisecond
}

// TotalDurationMS sums the durations of all steps.
func TotalDurationMS(steps []RecoveryStep) int {
	total := 0
	for _, s := range steps {
		total += s.DurationMS
	}
	return total
}
