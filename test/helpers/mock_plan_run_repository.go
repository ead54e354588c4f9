package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/focusplanner/internal/domain/planning"
)

// MockPlanRunRepository is a test double for the PlanRunRepository interface
type MockPlanRunRepository struct {
	mu   sync.RWMutex
	runs []*planning.PlanRun
	err  error
}

// NewMockPlanRunRepository creates a new mock plan run repository
func NewMockPlanRunRepository() *MockPlanRunRepository {
	return &MockPlanRunRepository{}
}

// FailWith makes every following call return err (nil clears it)
func (m *MockPlanRunRepository) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Add stores a run
func (m *MockPlanRunRepository) Add(ctx context.Context, run *planning.PlanRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

// FindRecent returns runs newest first, optionally filtered by target
func (m *MockPlanRunRepository) FindRecent(ctx context.Context, target string, limit int) ([]*planning.PlanRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}

	var out []*planning.PlanRun
	for _, run := range m.runs {
		if target == "" || run.Target == target {
			out = append(out, run)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Runs returns everything stored, oldest first
func (m *MockPlanRunRepository) Runs() []*planning.PlanRun {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*planning.PlanRun, len(m.runs))
	copy(out, m.runs)
	return out
}
