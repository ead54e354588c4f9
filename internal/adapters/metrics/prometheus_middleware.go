package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/focusplanner/internal/application/logging"
	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	planningQueries "github.com/andrescamacho/focusplanner/internal/application/planning/queries"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// PrometheusMiddleware creates a middleware that records command execution metrics
//
// This middleware wraps all command/query execution and records:
// - Execution duration (histogram)
// - Success/failure counts (counter)
//
// Request names drop the package prefix: "*queries.EvaluatePlanQuery" becomes "EvaluatePlanQuery".
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		commandName := logging.RequestName(request)

		start := time.Now()
		response, err := next(ctx, request)

		collector.RecordCommandExecution(commandName, time.Since(start).Seconds(), err == nil)

		return response, err
	}
}

// PlannerMiddleware records engine outcomes for the planning queries.
// Other requests pass through untouched.
func PlannerMiddleware(recorder PlannerMetricsRecorder) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		response, err := next(ctx, request)
		if recorder == nil {
			return response, err
		}

		switch query := request.(type) {
		case *planningQueries.EvaluatePlanQuery:
			recordPlan(recorder, "evaluate", query.Mode, response, err)
		case *planningQueries.LeafChecklistQuery:
			recordPlan(recorder, "checklist", query.Mode, response, err)
		case *planningQueries.MaxCraftableQuery:
			if resp, ok := response.(*planningQueries.MaxCraftableResponse); ok && err == nil {
				recorder.RecordBudgetSearch(string(resp.Result.Mode), resp.Result.Evaluations, resp.Result.Unbounded)
			} else {
				recorder.RecordEvaluation("budget", modeLabel(query.Mode), 0, 0, false)
			}
		}

		return response, err
	}
}

func recordPlan(recorder PlannerMetricsRecorder, kind string, requested recipe.YieldMode, response mediator.Response, err error) {
	if err != nil {
		recorder.RecordEvaluation(kind, modeLabel(requested), 0, 0, false)
		return
	}

	switch resp := response.(type) {
	case *planningQueries.EvaluatePlanResponse:
		recorder.RecordEvaluation(kind, string(resp.Plan.Mode), resp.Plan.TotalFocus, len(resp.Plan.Lines), true)
	case *planningQueries.LeafChecklistResponse:
		recorder.RecordEvaluation(kind, string(resp.Plan.Mode), resp.Plan.TotalFocus, len(resp.Plan.Lines), true)
	}
}

// modeLabel keeps label cardinality bounded when a failed request carried a bogus mode
func modeLabel(mode recipe.YieldMode) string {
	if mode == "" {
		return "default"
	}
	if parsed, err := recipe.ParseYieldMode(string(mode)); err == nil {
		return string(parsed)
	}
	return "invalid"
}
