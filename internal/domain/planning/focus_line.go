package planning

import (
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// FocusLine is one visited node of a single evaluation, in pre-order (root first).
// FocusUsed and TimeUsedSeconds are node-local and exclude descendants.
type FocusLine struct {
	Level           int
	Action          recipe.Action
	Material        string
	Crafts          int64
	EffectiveYield  float64
	UnitsRequested  float64
	FocusUsed       float64
	TimeUsedSeconds float64
}

// Plan is the result of evaluating a target
type Plan struct {
	Target         string
	Mode           recipe.YieldMode
	UnitsRequested float64
	TotalFocus     float64
	Lines          []FocusLine
}

// TotalTimeSeconds sums node time over every line.
// Independent branches are added, not overlapped: this is total labour time.
func (p *Plan) TotalTimeSeconds() float64 {
	total := 0.0
	for _, line := range p.Lines {
		total += line.TimeUsedSeconds
	}
	return total
}

// TotalCrafts counts actions across the whole plan
func (p *Plan) TotalCrafts() int64 {
	var total int64
	for _, line := range p.Lines {
		total += line.Crafts
	}
	return total
}

// MaxDepth returns the deepest level reached
func (p *Plan) MaxDepth() int {
	depth := 0
	for _, line := range p.Lines {
		if line.Level > depth {
			depth = line.Level
		}
	}
	return depth
}
