package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/focusplanner/internal/adapters/metrics"
	"github.com/andrescamacho/focusplanner/internal/application/mediator"
	planningQueries "github.com/andrescamacho/focusplanner/internal/application/planning/queries"
	"github.com/andrescamacho/focusplanner/internal/domain/planning"
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

type recordedEvaluation struct {
	kind    string
	mode    string
	focus   float64
	success bool
}

type fakeRecorder struct {
	evaluations []recordedEvaluation
	searches    int
	reloads     int
	throttled   []string
}

func (f *fakeRecorder) RecordEvaluation(kind, mode string, focus float64, lines int, success bool) {
	f.evaluations = append(f.evaluations, recordedEvaluation{kind: kind, mode: mode, focus: focus, success: success})
}

func (f *fakeRecorder) RecordBudgetSearch(mode string, evaluations int, unbounded bool) {
	f.searches++
}

func (f *fakeRecorder) RecordReload(recipes int, success bool) {
	f.reloads++
}

func (f *fakeRecorder) RecordRateLimited(method string) {
	f.throttled = append(f.throttled, method)
}

func respondWith(response mediator.Response, err error) mediator.HandlerFunc {
	return func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return response, err
	}
}

func TestPlannerMiddleware_RecordsSuccessfulEvaluation(t *testing.T) {
	recorder := &fakeRecorder{}
	mw := metrics.PlannerMiddleware(recorder)

	plan := &planning.Plan{Target: "Burning Powder", Mode: recipe.YieldModeSafe, TotalFocus: 20}
	_, err := mw(context.Background(), &planningQueries.EvaluatePlanQuery{Target: "Burning Powder", Units: 15},
		respondWith(&planningQueries.EvaluatePlanResponse{Plan: plan}, nil))

	require.NoError(t, err)
	require.Len(t, recorder.evaluations, 1)
	assert.Equal(t, recordedEvaluation{kind: "evaluate", mode: "SAFE", focus: 20, success: true}, recorder.evaluations[0])
}

func TestPlannerMiddleware_RecordsFailureWithBoundedModeLabel(t *testing.T) {
	recorder := &fakeRecorder{}
	mw := metrics.PlannerMiddleware(recorder)

	_, err := mw(context.Background(), &planningQueries.LeafChecklistQuery{Target: "X", Units: 1, Mode: "whatever"},
		respondWith(nil, errors.New("boom")))

	require.Error(t, err)
	require.Len(t, recorder.evaluations, 1)
	assert.Equal(t, "checklist", recorder.evaluations[0].kind)
	assert.Equal(t, "invalid", recorder.evaluations[0].mode)
	assert.False(t, recorder.evaluations[0].success)
}

func TestPlannerMiddleware_RecordsBudgetSearch(t *testing.T) {
	recorder := &fakeRecorder{}
	mw := metrics.PlannerMiddleware(recorder)

	result := &planning.BudgetResult{Target: "Burning Powder", Mode: recipe.YieldModeSafe, Quantity: 75, Evaluations: 12}
	_, err := mw(context.Background(), &planningQueries.MaxCraftableQuery{Target: "Burning Powder", Budget: 100},
		respondWith(&planningQueries.MaxCraftableResponse{Result: result}, nil))

	require.NoError(t, err)
	assert.Equal(t, 1, recorder.searches)
	assert.Empty(t, recorder.evaluations)
}

func TestPlannerMiddleware_IgnoresOtherRequests(t *testing.T) {
	recorder := &fakeRecorder{}
	mw := metrics.PlannerMiddleware(recorder)

	_, err := mw(context.Background(), &planningQueries.ListPlanRunsQuery{}, respondWith(nil, nil))

	require.NoError(t, err)
	assert.Empty(t, recorder.evaluations)
	assert.Zero(t, recorder.searches)
}

func TestPlannerMetricsCollector_CountsEvaluationsByStatus(t *testing.T) {
	metrics.InitRegistry()
	defer func() { metrics.Registry = nil }()

	collector := metrics.NewPlannerMetricsCollector(nil)
	require.NoError(t, collector.Register())

	collector.RecordEvaluation("evaluate", "SAFE", 20, 3, true)
	collector.RecordEvaluation("evaluate", "SAFE", 0, 0, false)
	collector.RecordReload(4, true)

	families, err := metrics.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(t, names["focusplanner_planner_evaluations_total"])
	assert.True(t, names["focusplanner_planner_plan_focus"])
	assert.True(t, names["focusplanner_planner_recipes_total"])

	count, err := testutil.GatherAndCount(metrics.Registry, "focusplanner_planner_evaluations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per status")
}

func TestPlannerMetricsCollector_StartPublishesBookSize(t *testing.T) {
	metrics.InitRegistry()
	defer func() { metrics.Registry = nil }()

	collector := metrics.NewPlannerMetricsCollector(func() int { return 7 })
	require.NoError(t, collector.Register())

	collector.Start(context.Background(), time.Hour)
	defer collector.Stop()

	expected := `
# HELP focusplanner_planner_recipes_total Number of recipes in the served recipe book
# TYPE focusplanner_planner_recipes_total gauge
focusplanner_planner_recipes_total 7
`
	assert.NoError(t, testutil.GatherAndCompare(metrics.Registry, strings.NewReader(expected),
		"focusplanner_planner_recipes_total"))
}

func TestCommandMetrics_MiddlewareRecordsRequestName(t *testing.T) {
	metrics.InitRegistry()
	defer func() { metrics.Registry = nil }()

	collector := metrics.NewCommandMetricsCollector()
	require.NoError(t, collector.Register())

	mw := metrics.PrometheusMiddleware(collector)
	_, err := mw(context.Background(), &planningQueries.EvaluatePlanQuery{}, respondWith(nil, nil))
	require.NoError(t, err)

	expected := `
# HELP focusplanner_planner_commands_total Total number of commands and queries executed by type and status
# TYPE focusplanner_planner_commands_total counter
focusplanner_planner_commands_total{command="EvaluatePlanQuery",status="success"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(metrics.Registry, strings.NewReader(expected),
		"focusplanner_planner_commands_total"))
}

func TestHandler_ServesRegistry(t *testing.T) {
	metrics.InitRegistry()
	defer func() { metrics.Registry = nil }()

	collector := metrics.NewPlannerMetricsCollector(nil)
	require.NoError(t, collector.Register())
	collector.RecordRateLimited("Evaluate")

	recorder := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(recorder.Result().Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, string(body), `focusplanner_planner_rate_limited_total{method="Evaluate"} 1`)
}
