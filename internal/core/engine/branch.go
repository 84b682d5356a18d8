package engine

import (
	"fmt"
	"strings"

	"github.com/agenthands/flowforge/internal/core/model"
)

// routingValues maps common routing criteria to per-branch condition
// values, indexed by branch number.
var routingValues = map[string][]string{
	"priority": {"high", "medium", "low"},
	"status":   {"active", "inactive", "pending"},
	"severity": {"critical", "major", "minor"},
	"category": {"standard", "express", "bulk"},
	"region":   {"emea", "amer", "apac"},
}

// PlanBranches partitions the downstream instances of a router into
// branchCount branches and attaches a routing condition to each.
//
// When branch targets are declared and match the branch count, each
// branch receives exactly one matching-kind instance pulled from the
// pool in target order; an unmatched target yields an empty branch
// (warned, not fatal). Otherwise the pool is distributed round-robin.
// Instances left unassigned after target matching are appended to the
// last branch so the flow stays connected.
//
// The last branch's condition is always the literal "default".
func PlanBranches(downstream []model.ComponentInstance, branchCount int, branchTargets []string, routingCriteria string, diag *model.Diagnostics) ([]model.Branch, [][]model.ComponentInstance) {
	if branchCount < 1 {
		branchCount = 1
	}

	assigned := make([][]model.ComponentInstance, branchCount)
	for i := range assigned {
		assigned[i] = []model.ComponentInstance{}
	}

	pool := make([]model.ComponentInstance, len(downstream))
	copy(pool, downstream)

	if len(branchTargets) == branchCount {
		for i, target := range branchTargets {
			kind, _ := model.ParseKind(target)
			idx := -1
			for j, inst := range pool {
				if inst.Kind == kind {
					idx = j
					break
				}
			}
			if idx < 0 {
				diag.Warnf("branch %d: no %s instance available for target %q, emitting empty branch", i+1, kind, target)
				continue
			}
			assigned[i] = append(assigned[i], pool[idx])
			pool = append(pool[:idx], pool[idx+1:]...)
		}
		if len(pool) > 0 {
			diag.Warnf("%d downstream instance(s) not claimed by branch targets, appending to default branch", len(pool))
			assigned[branchCount-1] = append(assigned[branchCount-1], pool...)
		}
	} else {
		if len(branchTargets) > 0 {
			diag.Warnf("branch target count %d does not match branch count %d, falling back to round-robin", len(branchTargets), branchCount)
		}
		for i, inst := range pool {
			b := i % branchCount
			assigned[b] = append(assigned[b], inst)
		}
	}

	branches := make([]model.Branch, branchCount)
	for i := range assigned {
		number := i + 1
		ids := make([]string, 0, len(assigned[i]))
		for j := range assigned[i] {
			assigned[i][j].BranchNumber = number
			ids = append(ids, assigned[i][j].ID)
		}
		branches[i] = model.Branch{
			BranchNumber: number,
			Condition:    branchCondition(number, branchCount, routingCriteria),
			InstanceIDs:  ids,
		}
	}

	return branches, assigned
}

// branchCondition builds the routing condition for one branch. Every
// branch except the last tests a property value; the last branch is
// always the literal "default".
func branchCondition(number, count int, criteria string) string {
	if number == count {
		return "default"
	}
	property := criteria
	if property == "" {
		property = "condition"
	}
	value := fmt.Sprintf("value%d", number)
	if values, ok := routingValues[strings.ToLower(property)]; ok && number <= len(values) {
		value = values[number-1]
	}
	return fmt.Sprintf("${property.%s} = '%s'", property, value)
}
