package grpc

import (
	"sync/atomic"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// GraphHolder serves one frozen recipe graph to concurrent requests and swaps it
// atomically on reload. A held graph is never written after Swap, so every
// evaluation shares it without copying.
type GraphHolder struct {
	current atomic.Pointer[recipe.Graph]
}

// NewGraphHolder holds a snapshot of graph
func NewGraphHolder(graph *recipe.Graph) *GraphHolder {
	h := &GraphHolder{}
	h.Swap(graph)
	return h
}

// Snapshot returns the currently served graph
func (h *GraphHolder) Snapshot() *recipe.Graph {
	return h.current.Load()
}

// Swap replaces the served graph with a snapshot of graph
func (h *GraphHolder) Swap(graph *recipe.Graph) {
	if graph == nil {
		graph = recipe.NewGraph()
	}
	h.current.Store(graph.Snapshot())
}

// Len returns the number of recipes being served
func (h *GraphHolder) Len() int {
	return h.Snapshot().Len()
}
