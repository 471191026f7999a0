package health

import (
	"math"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

// RecoveryThreshold is the share of the pre-event score that counts as recovered.
const RecoveryThreshold = 0.95

// Resilience is the qualitative rating of a before/after score ratio.
type Resilience string

// Resilience ratings.
const (
	ResilienceExcellent Resilience = "Excellent"
	ResilienceGood      Resilience = "Good"
	ResilienceAdequate  Resilience = "Adequate"
	ResiliencePoor      Resilience = "Poor"
)

// OverallHealth is the score block of a ComparisonReport.
type OverallHealth struct {
	BeforeScore     float64 `json:"before_score"`
	AfterScore      float64 `json:"after_score"`
	Change          float64 `json:"change"`
	RecoverySuccess bool    `json:"recovery_success"`
}

// MetricChange is one row of the per-field comparison table.
type MetricChange struct {
	Metric        Field   `json:"metric"`
	Before        float64 `json:"before"`
	After         float64 `json:"after"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// AnalysisSummary names the notable fields of a comparison.
type AnalysisSummary struct {
	MostImpactedMetric Field      `json:"most_impacted_metric"`
	BestRecoveryMetric Field      `json:"best_recovery_metric"`
	ResilienceRating   Resilience `json:"resilience_rating"`
}

// ComparisonReport is the result of comparing two metric snapshots.
type ComparisonReport struct {
	OverallHealth     OverallHealth   `json:"overall_health"`
	MetricsComparison []MetricChange  `json:"metrics_comparison"`
	AnalysisSummary   AnalysisSummary `json:"analysis_summary"`
}

// Metric returns the comparison row for f.
func (r ComparisonReport) Metric(f Field) (MetricChange, bool) {
	for _, mc := range r.MetricsComparison {
		if mc.Metric == f {
			return mc, true
		}
	}
	return MetricChange{}, false
}

// Compare scores both snapshots and builds the per-field change table.
func Compare(before, after telemetry.SystemMetrics) ComparisonReport {
	beforeScore := Score(before)
	afterScore := Score(after)

	table := make([]MetricChange, 0, len(Fields))
	for _, f := range Fields {
		b, a := f.Value(before), f.Value(after)
		change := a - b
		changePct := 0.0
		if b != 0 {
			changePct = change / b * 100
		}
		table = append(table, MetricChange{
			Metric:        f,
			Before:        b,
			After:         a,
			Change:        round(change, 3),
			ChangePercent: round(changePct, 2),
		})
	}

	return ComparisonReport{
		OverallHealth: OverallHealth{
			BeforeScore:     beforeScore,
			AfterScore:      afterScore,
			Change:          round(afterScore-beforeScore, 2),
			RecoverySuccess: Recovered(beforeScore, afterScore),
		},
		MetricsComparison: table,
		AnalysisSummary: AnalysisSummary{
			MostImpactedMetric: argmax(table, func(mc MetricChange) float64 { return math.Abs(mc.ChangePercent) }),
			BestRecoveryMetric: argmax(table, recoveryGain),
			ResilienceRating:   Rate(beforeScore, afterScore),
		},
	}
}

// recoveryGain is the change of a field measured in its "good" direction.
func recoveryGain(mc MetricChange) float64 {
	if mc.Metric.HigherIsBetter() {
		return mc.Change
	}
	return -mc.Change
}

// argmax returns the field with the largest key; the first one wins ties.
func argmax(table []MetricChange, key func(MetricChange) float64) Field {
	if len(table) == 0 {
		return ""
	}
	best, bestKey := table[0].Metric, key(table[0])
	for _, mc := range table[1:] {
		if k := key(mc); k > bestKey {
			best, bestKey = mc.Metric, k
		}
	}
	return best
}

// Recovered reports whether afterScore reached 95% of beforeScore (inclusive).
func Recovered(beforeScore, afterScore float64) bool {
	return afterScore >= beforeScore*RecoveryThreshold
}

// Rate classifies the after/before score ratio. A zero before score rates as
// a ratio of 1.
func Rate(beforeScore, afterScore float64) Resilience {
	ratio := 1.0
	if beforeScore > 0 {
		ratio = afterScore / beforeScore
	}
	switch {
	case ratio >= 0.98:
		return ResilienceExcellent
	case ratio >= 0.95:
		return ResilienceGood
	case ratio >= 0.90:
		return ResilienceAdequate
	default:
		return ResiliencePoor
	}
}

// AgentChange is the per-agent row of a CoordinationDelta.
type AgentChange struct {
	AgentID          string               `json:"agent_id"`
	ConfidenceChange float64              `json:"confidence_change"`
	StateBefore      telemetry.AgentState `json:"state_before"`
	StateAfter       telemetry.AgentState `json:"state_after"`
}

// CoordinationDelta summarizes confidence changes across paired agents.
type CoordinationDelta struct {
	AgentsImproved          int           `json:"agents_improved"`
	AgentsDegraded          int           `json:"agents_degraded"`
	AverageConfidenceChange float64       `json:"average_confidence_change"`
	CoordinationChanges     []AgentChange `json:"coordination_changes"`
}

// CompareAgents pairs before and after positionally. Lists of different length
// yield an empty delta; pairs whose ids differ are skipped.
func CompareAgents(before, after []telemetry.AgentStatus) CoordinationDelta {
	delta := CoordinationDelta{CoordinationChanges: []AgentChange{}}
	if len(before) != len(after) {
		return delta
	}

	var sum float64
	var n int
	for i := range before {
		b, a := before[i], after[i]
		if b.AgentID != a.AgentID {
			continue
		}
		change := a.Confidence - b.Confidence
		sum += change
		n++
		delta.CoordinationChanges = append(delta.CoordinationChanges, AgentChange{
			AgentID:          b.AgentID,
			ConfidenceChange: round(change, 2),
			StateBefore:      b.State,
			StateAfter:       a.State,
		})
		switch {
		case change > 0:
			delta.AgentsImproved++
		case change < 0:
			delta.AgentsDegraded++
		}
	}
	if n > 0 {
		delta.AverageConfidenceChange = round(sum/float64(n), 2)
	}
	return delta
}
