// Package health turns metric snapshots into health scores, labels, bars and
// before/after comparisons. Every function is pure and safe for concurrent use.
package health

import (
	"fmt"
	"math"
	"strings"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/telemetry"
)

// Field names a metric of telemetry.SystemMetrics using its JSON key.
type Field string

// Metric fields in the fixed tie-break order.
const (
	FieldIntegrity    Field = "system_integrity"
	FieldConfidence   Field = "agent_confidence"
	FieldCoordination Field = "coordination_efficiency"
	FieldThroughput   Field = "message_throughput"
	FieldLatency      Field = "response_latency"
	FieldErrorRate    Field = "error_rate"
)

// Fields is the fixed field order used for reports and tie-breaks.
var Fields = []Field{
	FieldIntegrity,
	FieldConfidence,
	FieldCoordination,
	FieldThroughput,
	FieldLatency,
	FieldErrorRate,
}

// HigherIsBetter reports whether an increase of f is an improvement.
func (f Field) HigherIsBetter() bool {
	return f != FieldLatency && f != FieldErrorRate
}

// Value reads f from m.
func (f Field) Value(m telemetry.SystemMetrics) float64 {
	switch f {
	case FieldIntegrity:
		return m.SystemIntegrity
	case FieldConfidence:
		return m.AgentConfidence
	case FieldCoordination:
		return m.CoordinationEfficiency
	case FieldThroughput:
		return m.MessageThroughput
	case FieldLatency:
		return m.ResponseLatency
	case FieldErrorRate:
		return m.ErrorRate
	}
	return 0
}

// Weight is one entry of the scoring table.
type Weight struct {
	Field  Field
	Weight float64
}

var weights = []Weight{
	{FieldIntegrity, 0.25},
	{FieldConfidence, 0.20},
	{FieldCoordination, 0.20},
	{FieldThroughput, 0.15},
	{FieldLatency, 0.10},
	{FieldErrorRate, 0.10},
}

// Weights returns a copy of the scoring table. The weights sum to 1.0.
func Weights() []Weight {
	out := make([]Weight, len(weights))
	copy(out, weights)
	return out
}

// normalize maps a raw field value onto the 0-100 "higher is better" scale.
func normalize(f Field, v float64) float64 {
	switch f {
	case FieldLatency:
		return math.Max(0, 100-v/10)
	case FieldErrorRate:
		return math.Max(0, 100-v*100)
	}
	return v
}

// Score computes the weighted health score of m, clamped to [0,100] and
// rounded to two decimals.
func Score(m telemetry.SystemMetrics) float64 {
	var sum float64
	for _, w := range weights {
		sum += normalize(w.Field, w.Field.Value(m)) * w.Weight
	}
	return round(clamp(sum, 0, 100), 2)
}

// Tier is the color tier of a health score. Tiers map 1:1 to labels.
type Tier int

// Health tiers, best first.
const (
	TierExcellent Tier = iota
	TierGood
	TierFair
	TierPoor
	TierCritical
)

// String returns the label of the tier.
func (t Tier) String() string {
	switch t {
	case TierExcellent:
		return "Excellent"
	case TierGood:
		return "Good"
	case TierFair:
		return "Fair"
	case TierPoor:
		return "Poor"
	case TierCritical:
		return "Critical"
	}
	return "Unknown"
}

// Classification is the label and color tier of a score.
type Classification struct {
	Label string `json:"label"`
	Tier  Tier   `json:"tier"`
}

// Classify maps a score onto its tier. Lower bounds are inclusive.
func Classify(score float64) Classification {
	var t Tier
	switch {
	case score >= 95:
		t = TierExcellent
	case score >= 85:
		t = TierGood
	case score >= 70:
		t = TierFair
	case score >= 50:
		t = TierPoor
	default:
		t = TierCritical
	}
	return Classification{Label: t.String(), Tier: t}
}

// Bar glyphs.
const (
	BarFilled = "█"
	BarEmpty  = "░"
)

// Bar renders value/maxValue as a width-glyph progress bar, optionally followed by
// the percentage with one decimal. A zero max renders an empty bar.
func Bar(value, maxValue float64, width int, showPercentage bool) string {
	if width < 0 {
		width = 0
	}
	percentage := 0.0
	if maxValue != 0 {
		percentage = clamp(value/maxValue*100, 0, 100)
	}
	filled := int(math.Floor(percentage / 100 * float64(width)))
	var b strings.Builder
	b.WriteString(strings.Repeat(BarFilled, filled))
	b.WriteString(strings.Repeat(BarEmpty, width-filled))
	if showPercentage {
		fmt.Fprintf(&b, " %.1f%%", percentage)
	}
	return b.String()
}

// DefaultBar renders a 20 glyph bar against a maximum of 100 with percentage.
func DefaultBar(value float64) string {
	return Bar(value, 100, 20, true)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// round rounds half away from zero to the given number of decimals.
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
