package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PlannerMetricsCollector handles engine and recipe book metrics
type PlannerMetricsCollector struct {
	// Dependencies
	bookSize func() int // Current number of recipes in the served book

	// Engine metrics
	evaluationsTotal   *prometheus.CounterVec
	planFocus          *prometheus.HistogramVec
	planLines          *prometheus.HistogramVec
	budgetSearches     *prometheus.CounterVec
	budgetSearchProbes *prometheus.HistogramVec

	// Book and daemon metrics
	recipesTotal     prometheus.Gauge
	reloadsTotal     *prometheus.CounterVec
	rateLimitedTotal *prometheus.CounterVec

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewPlannerMetricsCollector creates a new planner metrics collector.
// bookSize may be nil; the recipe gauge is then only updated on reload.
func NewPlannerMetricsCollector(bookSize func() int) *PlannerMetricsCollector {
	return &PlannerMetricsCollector{
		bookSize: bookSize,

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of plan evaluations by kind, yield mode and status",
			},
			[]string{"kind", "mode", "status"},
		),

		planFocus: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_focus",
				Help:      "Total Focus of successful evaluations",
				Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"mode"},
		),

		planLines: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_lines",
				Help:      "Number of focus lines per successful evaluation",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 250},
			},
			[]string{"mode"},
		),

		budgetSearches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "budget_searches_total",
				Help:      "Total number of max-craftable searches by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),

		budgetSearchProbes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "budget_search_evaluations",
				Help:      "Number of engine evaluations one max-craftable search needed",
				Buckets:   []float64{1, 5, 10, 20, 30, 40, 60, 80},
			},
			[]string{"mode"},
		),

		recipesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "recipes_total",
				Help:      "Number of recipes in the served recipe book",
			},
		),

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reloads_total",
				Help:      "Total number of recipe book reloads by status",
			},
			[]string{"status"},
		),

		rateLimitedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rate_limited_total",
				Help:      "Total number of daemon requests rejected by the rate limiter",
			},
			[]string{"method"},
		),
	}
}

// Register registers all planner metrics with the Prometheus registry
func (c *PlannerMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.evaluationsTotal,
		c.planFocus,
		c.planLines,
		c.budgetSearches,
		c.budgetSearchProbes,
		c.recipesTotal,
		c.reloadsTotal,
		c.rateLimitedTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// Start begins polling the recipe book size
func (c *PlannerMetricsCollector) Start(ctx context.Context, interval time.Duration) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	if c.bookSize == nil {
		return
	}

	c.updateBookSize()

	c.wg.Add(1)
	go c.collectBookSize(interval)
}

// Stop gracefully stops the metrics collection
func (c *PlannerMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *PlannerMetricsCollector) collectBookSize(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.updateBookSize()
		}
	}
}

func (c *PlannerMetricsCollector) updateBookSize() {
	if c.bookSize == nil {
		return
	}
	c.recipesTotal.Set(float64(c.bookSize()))
}

// RecordEvaluation records one cost propagation
func (c *PlannerMetricsCollector) RecordEvaluation(kind, mode string, focus float64, lines int, success bool) {
	c.evaluationsTotal.WithLabelValues(kind, mode, statusLabel(success)).Inc()

	if !success {
		return
	}
	c.planFocus.WithLabelValues(mode).Observe(focus)
	c.planLines.WithLabelValues(mode).Observe(float64(lines))
}

// RecordBudgetSearch records one max-craftable search
func (c *PlannerMetricsCollector) RecordBudgetSearch(mode string, evaluations int, unbounded bool) {
	outcome := "bounded"
	if unbounded {
		outcome = "unbounded"
	}
	c.budgetSearches.WithLabelValues(mode, outcome).Inc()
	c.budgetSearchProbes.WithLabelValues(mode).Observe(float64(evaluations))
}

// RecordReload records a recipe book reload
func (c *PlannerMetricsCollector) RecordReload(recipes int, success bool) {
	c.reloadsTotal.WithLabelValues(statusLabel(success)).Inc()
	if success {
		c.recipesTotal.Set(float64(recipes))
	}
}

// RecordRateLimited records a throttled daemon request
func (c *PlannerMetricsCollector) RecordRateLimited(method string) {
	c.rateLimitedTotal.WithLabelValues(method).Inc()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
