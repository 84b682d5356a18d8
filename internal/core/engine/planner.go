package engine

import (
	"github.com/agenthands/flowforge/internal/core/model"
)

// PlanStep is one entry of the generation order. Component carries
// the declaring component's metadata (adapter, branch settings) into
// expansion and branching.
type PlanStep struct {
	Kind      model.ComponentKind
	TypeName  string
	Component model.Component
}

// PlanIntent normalizes a validated component list into an explicit
// generation order.
//
// Declared relative order is preserved. Quantities expand to repeated
// entries. A Router with branch targets has the target entries
// inserted immediately after it, and later declarations of the same
// types are consumed against those targets instead of duplicated.
// RequestReply expands atomically into a
// (ServiceCall, MessageFlow, ExternalReceiver) triple. Exactly one
// StartEvent is prepended and one EndEvent appended; declared
// start/end entries are folded into those.
func PlanIntent(components []model.Component) []PlanStep {
	steps := make([]PlanStep, 0, len(components)+2)
	steps = append(steps, PlanStep{Kind: model.KindStartEvent, TypeName: string(model.KindStartEvent)})

	// Target entries already emitted under a router, consumed against
	// later declarations of the same kind.
	consumed := make(map[model.ComponentKind]int)

	for _, c := range components {
		kind := c.Kind
		if kind == "" {
			kind, _ = model.ParseKind(c.Type)
		}
		// Downstream stages key on Component.Kind (request-reply
		// companion attachment), so the parsed kind is written back.
		c.Kind = kind

		// Start/end are owned by the planner; declared occurrences fold
		// into the single prepended/appended pair.
		if kind == model.KindStartEvent || kind == model.KindEndEvent {
			continue
		}

		quantity := c.Quantity
		if quantity < 1 {
			quantity = 1
		}
		if consumed[kind] > 0 {
			take := consumed[kind]
			if take > quantity {
				take = quantity
			}
			quantity -= take
			consumed[kind] -= take
		}

		for i := 0; i < quantity; i++ {
			steps = append(steps, expandStep(kind, c)...)

			if kind == model.KindRouter && len(c.BranchTargets) > 0 {
				for _, target := range c.BranchTargets {
					tk, _ := model.ParseKind(target)
					steps = append(steps, expandStep(tk, model.Component{Type: target, Kind: tk, Quantity: 1})...)
					consumed[tk]++
				}
			}
		}
	}

	steps = append(steps, PlanStep{Kind: model.KindEndEvent, TypeName: string(model.KindEndEvent)})
	return steps
}

// expandStep emits the plan entries for a single component instance.
// RequestReply is an atomic triple whose parts are never reordered.
func expandStep(kind model.ComponentKind, c model.Component) []PlanStep {
	typeName := c.Type
	if typeName == "" {
		typeName = string(kind)
	}
	if kind == model.KindRequestReply {
		return []PlanStep{
			{Kind: model.KindServiceCall, TypeName: string(model.KindServiceCall), Component: c},
			{Kind: model.KindMessageFlow, TypeName: string(model.KindMessageFlow), Component: c},
			{Kind: model.KindExternalReceiver, TypeName: string(model.KindExternalReceiver), Component: c},
		}
	}
	return []PlanStep{{Kind: kind, TypeName: typeName, Component: c}}
}
