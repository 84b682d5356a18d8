package engine

import (
	"github.com/agenthands/flowforge/internal/core/model"
)

const (
	edgeSequence = "sequence"
	edgeMessage  = "message"
)

// Expansion is the fully named instance list for one request, before
// edges exist.
type Expansion struct {
	Instances []model.ComponentInstance

	// attached maps a service-call instance id to the ids of its
	// message-flow and external-receiver companions from a
	// RequestReply triple.
	attached map[string][]string

	routerIdx int
	router    model.Component
}

// Expand turns a generation order into uniquely named component
// instances using the request's allocation context.
func Expand(steps []PlanStep, alloc *AllocationContext) Expansion {
	exp := Expansion{
		Instances: make([]model.ComponentInstance, 0, len(steps)),
		attached:  make(map[string][]string),
		routerIdx: -1,
	}

	lastServiceCall := ""
	for _, step := range steps {
		name, id := alloc.Allocate(step.Kind, step.TypeName)
		inst := model.ComponentInstance{
			Kind:        step.Kind,
			Type:        step.TypeName,
			Name:        name,
			ID:          id,
			AdapterType: step.Component.AdapterType,
		}
		exp.Instances = append(exp.Instances, inst)

		switch step.Kind {
		case model.KindServiceCall:
			lastServiceCall = id
		case model.KindMessageFlow, model.KindExternalReceiver:
			if step.Component.Kind == model.KindRequestReply && lastServiceCall != "" {
				exp.attached[lastServiceCall] = append(exp.attached[lastServiceCall], id)
			}
		case model.KindRouter:
			if exp.routerIdx == -1 {
				exp.routerIdx = len(exp.Instances) - 1
				exp.router = step.Component
			}
		}
	}

	return exp
}

// Assemble walks the expanded instance list and emits the directed
// edge set connecting every component exactly once per declared
// connection.
//
// Without a router the chain is a straight trunk from the start
// instance to the end instance. With a router the trunk runs
// Start -> ... -> Router, the router fans out to each branch's first
// instance, and every branch's last instance converges on the shared
// end instance. No join node is synthesized. Message flows connect
// service calls to their request-reply companions, senders into the
// start instance, and the end instance out to receiver participants.
func Assemble(exp Expansion, diag *model.Diagnostics) model.FlowGraph {
	graph := model.FlowGraph{
		OrderedInstances: exp.Instances,
		SequenceFlows:    []model.FlowEdge{},
		Branches:         []model.Branch{},
	}
	if len(exp.Instances) == 0 {
		return graph
	}

	seen := make(map[model.FlowEdge]bool)
	connect := func(fromID, toID, kind string) {
		e := model.FlowEdge{FromID: fromID, ToID: toID, Kind: kind}
		if fromID == "" || toID == "" || seen[e] {
			return
		}
		seen[e] = true
		graph.SequenceFlows = append(graph.SequenceFlows, e)
	}

	// Sequence chain excludes participants and message-flow steps;
	// those connect via message edges only.
	var chain []model.ComponentInstance
	routerChainIdx := -1
	for _, inst := range exp.Instances {
		if inst.Kind.IsParticipant() || inst.Kind == model.KindMessageFlow {
			continue
		}
		if inst.Kind == model.KindRouter && routerChainIdx == -1 {
			routerChainIdx = len(chain)
		}
		chain = append(chain, inst)
	}
	if len(chain) == 0 {
		return graph
	}

	start := chain[0]
	end := chain[len(chain)-1]

	branchOf := make(map[string]int)
	if routerChainIdx == -1 {
		for i := 0; i+1 < len(chain); i++ {
			connect(chain[i].ID, chain[i+1].ID, edgeSequence)
		}
	} else {
		router := chain[routerChainIdx]
		trunk := chain[:routerChainIdx+1]
		downstream := chain[routerChainIdx+1 : len(chain)-1]

		branchCount := exp.router.BranchCount
		if branchCount < 2 {
			branchCount = 2
		}

		branches, assigned := PlanBranches(downstream, branchCount, exp.router.BranchTargets, exp.router.RoutingCriteria, diag)
		graph.Branches = branches

		for i := 0; i+1 < len(trunk); i++ {
			connect(trunk[i].ID, trunk[i+1].ID, edgeSequence)
		}
		for i, arm := range assigned {
			if len(arm) == 0 {
				// Empty branch degenerates to a direct router->end flow.
				connect(router.ID, end.ID, edgeSequence)
				continue
			}
			connect(router.ID, arm[0].ID, edgeSequence)
			for j := 0; j+1 < len(arm); j++ {
				connect(arm[j].ID, arm[j+1].ID, edgeSequence)
			}
			connect(arm[len(arm)-1].ID, end.ID, edgeSequence)
			for _, inst := range arm {
				branchOf[inst.ID] = i + 1
			}
		}
	}

	// Message flows: senders feed the start instance, receivers hang
	// off the end instance, request-reply companions chain off their
	// service call.
	companion := make(map[string]bool)
	for _, ids := range exp.attached {
		for _, id := range ids {
			companion[id] = true
		}
	}
	for i := range graph.OrderedInstances {
		inst := &graph.OrderedInstances[i]
		if n, ok := branchOf[inst.ID]; ok {
			inst.BranchNumber = n
		}
		switch inst.Kind {
		case model.KindSender:
			connect(inst.ID, start.ID, edgeMessage)
		case model.KindReceiver:
			connect(end.ID, inst.ID, edgeMessage)
		case model.KindExternalReceiver:
			// Standalone external receivers hang off the end instance
			// like receivers; request-reply companions are reached
			// through their service call instead.
			if !companion[inst.ID] {
				connect(end.ID, inst.ID, edgeMessage)
			}
		}
	}
	for i := range graph.OrderedInstances {
		inst := graph.OrderedInstances[i]
		companions, ok := exp.attached[inst.ID]
		if !ok {
			continue
		}
		prev := inst.ID
		for _, id := range companions {
			connect(prev, id, edgeMessage)
			prev = id
			// Companions follow their service call's branch.
			if n, ok := branchOf[inst.ID]; ok {
				setBranch(graph.OrderedInstances, id, n)
			}
		}
	}

	return graph
}

func setBranch(instances []model.ComponentInstance, id string, branch int) {
	for i := range instances {
		if instances[i].ID == id {
			instances[i].BranchNumber = branch
			return
		}
	}
}
