package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// TreeFormatter provides rich visualization of focus plans
type TreeFormatter struct {
	useColors bool
	useEmojis bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors, useEmojis bool) *TreeFormatter {
	return &TreeFormatter{
		useColors: useColors,
		useEmojis: useEmojis,
	}
}

// FormatTree renders plan lines as a tree.
// Lines arrive in pre-order, so a node's children are the following lines one level deeper.
func (f *TreeFormatter) FormatTree(plan *planning.Plan) string {
	if plan == nil || len(plan.Lines) == 0 {
		return "(empty plan)"
	}

	var builder strings.Builder
	// lastAtDepth[d] records whether the open ancestor at depth d was the last of its siblings
	lastAtDepth := make([]bool, plan.MaxDepth()+1)

	for i, line := range plan.Lines {
		isLast := f.isLastSibling(plan.Lines, i)
		if line.Level < len(lastAtDepth) {
			lastAtDepth[line.Level] = isLast
		}

		var prefix strings.Builder
		for depth := 1; depth < line.Level; depth++ {
			if lastAtDepth[depth] {
				prefix.WriteString("    ")
			} else {
				prefix.WriteString("│   ")
			}
		}
		if line.Level > 0 {
			if isLast {
				prefix.WriteString("└── ")
			} else {
				prefix.WriteString("├── ")
			}
		}

		builder.WriteString(prefix.String())
		builder.WriteString(f.formatLine(line))
		builder.WriteString("\n")
	}

	return builder.String()
}

// isLastSibling reports whether no later sibling follows line i before its parent closes
func (f *TreeFormatter) isLastSibling(lines []planning.FocusLine, i int) bool {
	level := lines[i].Level
	for j := i + 1; j < len(lines); j++ {
		if lines[j].Level == level {
			return false
		}
		if lines[j].Level < level {
			return true
		}
	}
	return true
}

// formatLine renders one node
func (f *TreeFormatter) formatLine(line planning.FocusLine) string {
	focus := ""
	if line.FocusUsed > 0 {
		focus = fmt.Sprintf(", %s focus", formatNumber(line.FocusUsed))
	}

	timeText := ""
	if line.TimeUsedSeconds > 0 {
		timeText = fmt.Sprintf(", %s", formatDuration(line.TimeUsedSeconds))
	}

	return fmt.Sprintf("%s%s [%s%s%s] %s units: %d x %s%s%s",
		f.getActionIcon(line.Action),
		line.Material,
		f.getActionColor(line.Action),
		line.Action,
		f.colorReset(),
		formatNumber(line.UnitsRequested),
		line.Crafts,
		formatNumber(line.EffectiveYield),
		focus,
		timeText,
	)
}

// getActionIcon returns a visual indicator for the node action
func (f *TreeFormatter) getActionIcon(action recipe.Action) string {
	if !f.useEmojis {
		return ""
	}

	switch action {
	case recipe.ActionMine:
		return "⛏️  "
	case recipe.ActionGather:
		return "🌿 "
	default:
		return "🔨 "
	}
}

// getActionColor returns ANSI color code for the node action
func (f *TreeFormatter) getActionColor(action recipe.Action) string {
	if !f.useColors {
		return ""
	}

	switch action {
	case recipe.ActionMine:
		return "\033[33m" // Yellow
	case recipe.ActionGather:
		return "\033[32m" // Green
	case recipe.ActionCraft:
		return "\033[36m" // Cyan
	default:
		return ""
	}
}

// colorReset returns ANSI reset code
func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// FormatTreeSummary creates a compact summary of the plan
func (f *TreeFormatter) FormatTreeSummary(plan *planning.Plan) string {
	if plan == nil {
		return "No plan"
	}

	counts := make(map[recipe.Action]int)
	for _, line := range plan.Lines {
		counts[line.Action]++
	}

	return fmt.Sprintf(
		"Plan: %d nodes (%d Craft, %d Mine, %d Gather), depth=%d, crafts=%d, focus=%s, time=%s",
		len(plan.Lines),
		counts[recipe.ActionCraft], counts[recipe.ActionMine], counts[recipe.ActionGather],
		plan.MaxDepth(),
		plan.TotalCrafts(),
		formatNumber(plan.TotalFocus),
		formatDuration(plan.TotalTimeSeconds()),
	)
}

// FormatCompactTree renders a compact single-line representation
func (f *TreeFormatter) FormatCompactTree(plan *planning.Plan) string {
	if plan == nil || len(plan.Lines) == 0 {
		return "(empty)"
	}

	parts := make([]string, 0, len(plan.Lines))
	for _, line := range plan.Lines {
		parts = append(parts, fmt.Sprintf("[%d%s:%s x%d]", line.Level, actionLetter(line.Action), line.Material, line.Crafts))
	}

	return strings.Join(parts, " → ")
}

func actionLetter(action recipe.Action) string {
	switch action {
	case recipe.ActionMine:
		return "M"
	case recipe.ActionGather:
		return "G"
	default:
		return "C"
	}
}
