// Package engine implements the flow synthesis engine: it turns a
// topology skeleton, confidence-scored content artifacts, and a
// user-intent component list into a single internally consistent
// directed flow graph ready for rendering.
package engine

import (
	"github.com/agenthands/flowforge/internal/core/model"
)

// SynthesizeFlow runs the in-memory synthesis pipeline over an
// already-validated component list: plan the generation order,
// allocate instance names, partition router branches, and assemble
// the edge set. Soft failures accumulate in the returned diagnostics;
// nothing here aborts.
func SynthesizeFlow(components []model.Component) (model.FlowGraph, model.Diagnostics) {
	var diag model.Diagnostics

	steps := PlanIntent(components)
	alloc := NewAllocationContext()
	exp := Expand(steps, alloc)
	graph := Assemble(exp, &diag)

	return graph, diag
}
