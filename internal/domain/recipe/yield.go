package recipe

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// YieldMode selects how non-deterministic yield is collapsed into a single number
type YieldMode string

const (
	// YieldModeSafe plans with the worst outcome
	YieldModeSafe YieldMode = "SAFE"

	// YieldModeAverage plans with the expected outcome
	YieldModeAverage YieldMode = "AVERAGE"

	// YieldModeOptimistic plans with the best outcome
	YieldModeOptimistic YieldMode = "OPTIMISTIC"
)

// YieldModes returns all modes in pessimistic-to-optimistic order
func YieldModes() []YieldMode {
	return []YieldMode{YieldModeSafe, YieldModeAverage, YieldModeOptimistic}
}

// ParseYieldMode parses a mode name case-insensitively ("safe", "avg", "average", ...)
func ParseYieldMode(s string) (YieldMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SAFE", "MIN", "PESSIMISTIC":
		return YieldModeSafe, nil
	case "AVERAGE", "AVG", "EXPECTED":
		return YieldModeAverage, nil
	case "OPTIMISTIC", "MAX":
		return YieldModeOptimistic, nil
	default:
		return "", fmt.Errorf("unknown yield mode %q (expected safe, average or optimistic)", s)
	}
}

// YieldKind tags which representation a YieldSpec carries
type YieldKind string

const (
	YieldKindFixed    YieldKind = "FIXED"
	YieldKindRange    YieldKind = "RANGE"
	YieldKindOutcomes YieldKind = "OUTCOMES"
)

// Outcome is one branch of a discrete yield distribution
type Outcome struct {
	Quantity float64
	Weight   float64 // normalized probability
}

// YieldSpec is a tagged union of the three yield representations.
// Only the fields belonging to Kind are populated; build it through the constructors.
type YieldSpec struct {
	kind YieldKind

	fixed float64

	min       float64
	max       float64
	minChance *float64
	maxChance *float64

	outcomes []Outcome
}

// DefaultYield is a fixed yield of one unit per action
func DefaultYield() YieldSpec {
	return FixedYield(1)
}

// FixedYield creates a fixed yield. Non-positive quantities fall back to 1.
func FixedYield(qty float64) YieldSpec {
	if !(qty > 0) || math.IsInf(qty, 0) {
		qty = 1
	}
	return YieldSpec{kind: YieldKindFixed, fixed: qty}
}

// RangeYield creates an unweighted min/max yield
func RangeYield(min, max float64) YieldSpec {
	return WeightedRangeYield(min, max, nil, nil)
}

// WeightedRangeYield creates a min/max yield with the deprecated chance weights.
// Negative bounds clamp to 0 and reversed bounds are swapped.
func WeightedRangeYield(min, max float64, minChance, maxChance *float64) YieldSpec {
	min = clampNonNegative(min)
	max = clampNonNegative(max)
	if min > max {
		min, max = max, min
	}
	return YieldSpec{
		kind:      YieldKindRange,
		min:       min,
		max:       max,
		minChance: normalizeChance(minChance),
		maxChance: normalizeChance(maxChance),
	}
}

// OutcomeYield creates a discrete distribution from quantity -> weight.
// Weights above 1 are read as percentages, zero-weight branches are dropped and the
// remainder is normalized to sum to 1. An empty or all-zero map yields Fixed(1).
func OutcomeYield(weights map[float64]float64) YieldSpec {
	outcomes := make([]Outcome, 0, len(weights))
	total := 0.0
	for qty, w := range weights {
		if math.IsNaN(qty) || math.IsNaN(w) || qty < 0 || w <= 0 {
			continue
		}
		if w > 1 {
			w = w / 100
		}
		outcomes = append(outcomes, Outcome{Quantity: qty, Weight: w})
		total += w
	}
	if len(outcomes) == 0 || total <= 0 {
		return DefaultYield()
	}

	for i := range outcomes {
		outcomes[i].Weight /= total
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Quantity < outcomes[j].Quantity })

	return YieldSpec{kind: YieldKindOutcomes, outcomes: outcomes}
}

// Kind returns the representation tag. The zero value reports FIXED.
func (y YieldSpec) Kind() YieldKind {
	if y.kind == "" {
		return YieldKindFixed
	}
	return y.kind
}

// Fixed returns the fixed quantity (1 for the zero value)
func (y YieldSpec) Fixed() float64 {
	if y.kind == "" || y.fixed <= 0 {
		return 1
	}
	return y.fixed
}

// Range returns the min/max bounds of a RANGE yield
func (y YieldSpec) Range() (min, max float64) { return y.min, y.max }

// Chances returns the deprecated chance weights of a RANGE yield
func (y YieldSpec) Chances() (minChance, maxChance *float64) { return y.minChance, y.maxChance }

// Outcomes returns a copy of the normalized distribution, ordered by quantity
func (y YieldSpec) Outcomes() []Outcome {
	out := make([]Outcome, len(y.outcomes))
	copy(out, y.outcomes)
	return out
}

// Estimate collapses the yield to one per-action output for the given mode.
// The result is never negative.
func (y YieldSpec) Estimate(mode YieldMode) float64 {
	var v float64
	switch y.Kind() {
	case YieldKindOutcomes:
		v = y.estimateOutcomes(mode)
	case YieldKindRange:
		v = y.estimateRange(mode)
	default:
		v = y.Fixed()
	}
	return clampNonNegative(v)
}

func (y YieldSpec) estimateOutcomes(mode YieldMode) float64 {
	if len(y.outcomes) == 0 {
		return 1
	}
	switch mode {
	case YieldModeSafe:
		return y.outcomes[0].Quantity
	case YieldModeOptimistic:
		return y.outcomes[len(y.outcomes)-1].Quantity
	default:
		avg := 0.0
		for _, o := range y.outcomes {
			avg += o.Quantity * o.Weight
		}
		return avg
	}
}

func (y YieldSpec) estimateRange(mode YieldMode) float64 {
	switch mode {
	case YieldModeSafe:
		return y.min
	case YieldModeOptimistic:
		return y.max
	}

	minChance, maxChance := y.minChance, y.maxChance
	if minChance == nil && maxChance == nil {
		return (y.min + y.max) / 2
	}

	var pMin, pMax float64
	switch {
	case minChance != nil && maxChance != nil:
		pMin, pMax = *minChance, *maxChance
	case minChance != nil:
		pMin = *minChance
		pMax = 1 - pMin
	default:
		pMax = *maxChance
		pMin = 1 - pMax
	}

	total := pMin + pMax
	if total <= 0 {
		return (y.min + y.max) / 2
	}
	return math.Min(math.Max((y.min*pMin+y.max*pMax)/total, y.min), y.max)
}

// String renders the yield the way recipe listings show it
func (y YieldSpec) String() string {
	switch y.Kind() {
	case YieldKindOutcomes:
		parts := make([]string, 0, len(y.outcomes))
		for _, o := range y.outcomes {
			parts = append(parts, fmt.Sprintf("%s:%.0f%%", formatQuantity(o.Quantity), o.Weight*100))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case YieldKindRange:
		return fmt.Sprintf("%s-%s", formatQuantity(y.min), formatQuantity(y.max))
	default:
		return formatQuantity(y.Fixed())
	}
}

// normalizeChance reads values above 1 as percentages and clamps the result to [0, 1]
func normalizeChance(c *float64) *float64 {
	if c == nil || math.IsNaN(*c) {
		return nil
	}
	v := clampNonNegative(*c)
	if v > 1 {
		v = v / 100
	}
	v = math.Min(v, 1)
	return &v
}

func clampNonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func formatQuantity(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}
