package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "focusplanner"
	// Subsystem for planner metrics
	subsystem = "planner"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalPlannerCollector is the singleton planner metrics collector
	// Set by SetGlobalPlannerCollector() when metrics are enabled
	globalPlannerCollector PlannerMetricsRecorder
)

// PlannerMetricsRecorder defines the interface for recording planner events.
// Adapters record through it so they do not depend on a concrete collector.
type PlannerMetricsRecorder interface {
	RecordEvaluation(kind, mode string, focus float64, lines int, success bool)
	RecordBudgetSearch(mode string, evaluations int, unbounded bool)
	RecordReload(recipes int, success bool)
	RecordRateLimited(method string)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalPlannerCollector sets the global planner metrics collector
func SetGlobalPlannerCollector(collector PlannerMetricsRecorder) {
	globalPlannerCollector = collector
}

// RecordReload records a daemon recipe book reload globally
func RecordReload(recipes int, success bool) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordReload(recipes, success)
	}
}

// RecordRateLimited records a request rejected by the daemon throttle globally
func RecordRateLimited(method string) {
	if globalPlannerCollector != nil {
		globalPlannerCollector.RecordRateLimited(method)
	}
}
