package grpc

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// Wire layout of the planner documents
//
//	plan request:   {target, units, mode}
//	budget request: {target, budget, mode}
//	plan:           {target, mode, units, total_focus, total_time_seconds, lines: [line]}
//	line:           {level, action, material, crafts, effective_yield, units_requested, focus_used, time_used_seconds}
//	budget result:  {target, mode, budget, quantity, unbounded, focus_used, evaluations}
//	checklist:      {plan, rows: [row]}
//	row:            {material, action, units, effective_yield, crafts, focus, time_seconds}
//	reload result:  {loaded, dropped: [string]}
//
// Numbers travel as doubles; counts stay exact below 2^53.

// planRequest is the decoded form of an evaluate or checklist request
type planRequest struct {
	Target string
	Units  float64
	Mode   recipe.YieldMode
}

// budgetRequest is the decoded form of a max-craftable request
type budgetRequest struct {
	Target string
	Budget float64
	Mode   recipe.YieldMode
}

func encodePlanRequest(target string, units float64, mode recipe.YieldMode) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"target": target,
		"units":  units,
		"mode":   string(mode),
	})
}

func decodePlanRequest(in *structpb.Struct) (planRequest, error) {
	fields := in.AsMap()

	target, err := requiredString(fields, "target")
	if err != nil {
		return planRequest{}, err
	}
	units, err := requiredNumber(fields, "units")
	if err != nil {
		return planRequest{}, err
	}
	mode, err := optionalMode(fields)
	if err != nil {
		return planRequest{}, err
	}

	return planRequest{Target: target, Units: units, Mode: mode}, nil
}

func encodeBudgetRequest(target string, budget float64, mode recipe.YieldMode) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"target": target,
		"budget": budget,
		"mode":   string(mode),
	})
}

func decodeBudgetRequest(in *structpb.Struct) (budgetRequest, error) {
	fields := in.AsMap()

	target, err := requiredString(fields, "target")
	if err != nil {
		return budgetRequest{}, err
	}
	budget, err := requiredNumber(fields, "budget")
	if err != nil {
		return budgetRequest{}, err
	}
	mode, err := optionalMode(fields)
	if err != nil {
		return budgetRequest{}, err
	}

	return budgetRequest{Target: target, Budget: budget, Mode: mode}, nil
}

func planFields(plan *planning.Plan) map[string]interface{} {
	lines := make([]interface{}, 0, len(plan.Lines))
	for _, line := range plan.Lines {
		lines = append(lines, map[string]interface{}{
			"level":             line.Level,
			"action":            string(line.Action),
			"material":          line.Material,
			"crafts":            line.Crafts,
			"effective_yield":   line.EffectiveYield,
			"units_requested":   line.UnitsRequested,
			"focus_used":        line.FocusUsed,
			"time_used_seconds": line.TimeUsedSeconds,
		})
	}

	return map[string]interface{}{
		"target":             plan.Target,
		"mode":               string(plan.Mode),
		"units":              plan.UnitsRequested,
		"total_focus":        plan.TotalFocus,
		"total_time_seconds": plan.TotalTimeSeconds(),
		"lines":              lines,
	}
}

func encodePlan(plan *planning.Plan) (*structpb.Struct, error) {
	return structpb.NewStruct(planFields(plan))
}

func decodePlan(in *structpb.Struct) (*planning.Plan, error) {
	return planFromFields(in.AsMap())
}

func planFromFields(fields map[string]interface{}) (*planning.Plan, error) {
	rawLines, _ := fields["lines"].([]interface{})

	plan := &planning.Plan{
		Target:         stringField(fields, "target"),
		Mode:           recipe.YieldMode(stringField(fields, "mode")),
		UnitsRequested: numberField(fields, "units"),
		TotalFocus:     numberField(fields, "total_focus"),
		Lines:          make([]planning.FocusLine, 0, len(rawLines)),
	}

	for i, raw := range rawLines {
		line, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("plan line %d is not an object", i)
		}
		plan.Lines = append(plan.Lines, planning.FocusLine{
			Level:           int(numberField(line, "level")),
			Action:          recipe.Action(stringField(line, "action")),
			Material:        stringField(line, "material"),
			Crafts:          int64(numberField(line, "crafts")),
			EffectiveYield:  numberField(line, "effective_yield"),
			UnitsRequested:  numberField(line, "units_requested"),
			FocusUsed:       numberField(line, "focus_used"),
			TimeUsedSeconds: numberField(line, "time_used_seconds"),
		})
	}

	return plan, nil
}

func encodeBudgetResult(result *planning.BudgetResult) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"target":      result.Target,
		"mode":        string(result.Mode),
		"budget":      result.Budget,
		"quantity":    result.Quantity,
		"unbounded":   result.Unbounded,
		"focus_used":  result.FocusUsed,
		"evaluations": result.Evaluations,
	})
}

func decodeBudgetResult(in *structpb.Struct) *planning.BudgetResult {
	fields := in.AsMap()
	unbounded, _ := fields["unbounded"].(bool)

	return &planning.BudgetResult{
		Target:      stringField(fields, "target"),
		Mode:        recipe.YieldMode(stringField(fields, "mode")),
		Budget:      numberField(fields, "budget"),
		Quantity:    int64(numberField(fields, "quantity")),
		Unbounded:   unbounded,
		FocusUsed:   numberField(fields, "focus_used"),
		Evaluations: int(numberField(fields, "evaluations")),
	}
}

func encodeChecklist(plan *planning.Plan, rows []planning.LeafRow) (*structpb.Struct, error) {
	encodedRows := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		encodedRows = append(encodedRows, map[string]interface{}{
			"material":        row.Material,
			"action":          string(row.Action),
			"units":           row.Units,
			"effective_yield": row.EffectiveYield,
			"crafts":          row.Crafts,
			"focus":           row.Focus,
			"time_seconds":    row.TimeSeconds,
		})
	}

	return structpb.NewStruct(map[string]interface{}{
		"plan": planFields(plan),
		"rows": encodedRows,
	})
}

func decodeChecklist(in *structpb.Struct) (*planning.Plan, []planning.LeafRow, error) {
	fields := in.AsMap()

	rawPlan, ok := fields["plan"].(map[string]interface{})
	if !ok {
		return nil, nil, fmt.Errorf("checklist response has no plan")
	}
	plan, err := planFromFields(rawPlan)
	if err != nil {
		return nil, nil, err
	}

	rawRows, _ := fields["rows"].([]interface{})
	rows := make([]planning.LeafRow, 0, len(rawRows))
	for i, raw := range rawRows {
		row, ok := raw.(map[string]interface{})
		if !ok {
			return nil, nil, fmt.Errorf("checklist row %d is not an object", i)
		}
		rows = append(rows, planning.LeafRow{
			Material:       stringField(row, "material"),
			Action:         recipe.Action(stringField(row, "action")),
			Units:          numberField(row, "units"),
			EffectiveYield: numberField(row, "effective_yield"),
			Crafts:         int64(numberField(row, "crafts")),
			Focus:          numberField(row, "focus"),
			TimeSeconds:    numberField(row, "time_seconds"),
		})
	}

	return plan, rows, nil
}

func encodeReloadResult(result recipe.LoadResult) (*structpb.Struct, error) {
	dropped := make([]interface{}, 0, len(result.Dropped))
	for _, err := range result.Dropped {
		dropped = append(dropped, err.Error())
	}
	return structpb.NewStruct(map[string]interface{}{
		"loaded":  result.Loaded,
		"dropped": dropped,
	})
}

func decodeReloadResult(in *structpb.Struct) (int, []string) {
	fields := in.AsMap()

	rawDropped, _ := fields["dropped"].([]interface{})
	dropped := make([]string, 0, len(rawDropped))
	for _, raw := range rawDropped {
		if s, ok := raw.(string); ok {
			dropped = append(dropped, s)
		}
	}

	return int(numberField(fields, "loaded")), dropped
}

func requiredString(fields map[string]interface{}, key string) (string, error) {
	value := stringField(fields, key)
	if value == "" {
		return "", fmt.Errorf("field %q is required", key)
	}
	return value, nil
}

func requiredNumber(fields map[string]interface{}, key string) (float64, error) {
	raw, ok := fields[key].(float64)
	if !ok {
		return 0, fmt.Errorf("field %q must be a number", key)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("field %q must be finite", key)
	}
	return raw, nil
}

func optionalMode(fields map[string]interface{}) (recipe.YieldMode, error) {
	raw := stringField(fields, "mode")
	if raw == "" {
		return "", nil
	}
	return recipe.ParseYieldMode(raw)
}

func stringField(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}

func numberField(fields map[string]interface{}, key string) float64 {
	n, _ := fields[key].(float64)
	return n
}
