package recipe

import (
	"fmt"
	"strings"
)

// Domain errors for recipe graph evaluation

// ErrUnknownMaterial indicates a material is referenced but has no recipe in the graph
type ErrUnknownMaterial struct {
	Name string
}

func (e *ErrUnknownMaterial) Error() string {
	return fmt.Sprintf("unknown material: %s (no recipe in graph)", e.Name)
}

// ErrCycleDetected indicates a material depends, directly or transitively, on itself.
// Path holds the in-progress stack from the evaluation target down to the repeated material.
type ErrCycleDetected struct {
	Material string
	Path     []string
}

func (e *ErrCycleDetected) Error() string {
	return fmt.Sprintf("cycle detected at %s: %s", e.Material, strings.Join(e.Path, " -> "))
}

// ErrZeroEffectiveYield indicates a recipe produces nothing under the selected mode
// while positive demand still has to be satisfied
type ErrZeroEffectiveYield struct {
	Material string
	Mode     YieldMode
}

func (e *ErrZeroEffectiveYield) Error() string {
	return fmt.Sprintf("recipe %s has zero effective yield in %s mode", e.Material, e.Mode)
}

// ErrInvalidRecipe indicates a recipe was rejected by normalization or upsert
type ErrInvalidRecipe struct {
	Name   string
	Reason string
}

func (e *ErrInvalidRecipe) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid recipe: %s", e.Reason)
	}
	return fmt.Sprintf("invalid recipe %s: %s", e.Name, e.Reason)
}
