package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/flowforge/internal/core/model"
)

func TestSynthesizeFlow_LinearTrunk(t *testing.T) {
	graph, diag := SynthesizeFlow([]model.Component{
		{Type: "ContentModifier", Kind: model.KindContentModifier, Quantity: 1},
		{Type: "MessageMapping", Kind: model.KindMessageMapping, Quantity: 1},
	})

	assert.Empty(t, diag.Warnings)
	assert.Len(t, graph.OrderedInstances, 4)
	assert.Equal(t, "Start 1", graph.OrderedInstances[0].Name)
	assert.Equal(t, "End 1", graph.OrderedInstances[3].Name)

	assert.Equal(t, []model.FlowEdge{
		{FromID: "Start_1", ToID: "ContentModifier_1", Kind: "sequence"},
		{FromID: "ContentModifier_1", ToID: "MessageMapping_1", Kind: "sequence"},
		{FromID: "MessageMapping_1", ToID: "End_1", Kind: "sequence"},
	}, graph.SequenceFlows)
	assert.Empty(t, graph.Branches)
}

func TestSynthesizeFlow_RouterScenario(t *testing.T) {
	// Two content modifiers, a two-way router targeting two groovy
	// scripts. The scripts land on branches 1 and 2, branch 2 is the
	// default.
	graph, _ := SynthesizeFlow([]model.Component{
		{Type: "ContentModifier", Kind: model.KindContentModifier, Quantity: 2},
		{Type: "Router", Kind: model.KindRouter, Quantity: 1, BranchCount: 2, BranchTargets: []string{"GroovyScript", "GroovyScript"}},
		{Type: "GroovyScript", Kind: model.KindGroovyScript, Quantity: 2},
	})

	names := make([]string, len(graph.OrderedInstances))
	for i, inst := range graph.OrderedInstances {
		names[i] = inst.Name
	}
	assert.Equal(t, []string{
		"Start 1",
		"Content Modifier 1",
		"Content Modifier 2",
		"Router 1",
		"Groovy Script 1",
		"Groovy Script 2",
		"End 1",
	}, names)

	byName := make(map[string]model.ComponentInstance)
	for _, inst := range graph.OrderedInstances {
		byName[inst.Name] = inst
	}
	assert.Equal(t, 1, byName["Groovy Script 1"].BranchNumber)
	assert.Equal(t, 2, byName["Groovy Script 2"].BranchNumber)

	assert.Len(t, graph.Branches, 2)
	assert.Equal(t, "default", graph.Branches[1].Condition)

	assert.ElementsMatch(t, []model.FlowEdge{
		{FromID: "Start_1", ToID: "ContentModifier_1", Kind: "sequence"},
		{FromID: "ContentModifier_1", ToID: "ContentModifier_2", Kind: "sequence"},
		{FromID: "ContentModifier_2", ToID: "Router_1", Kind: "sequence"},
		{FromID: "Router_1", ToID: "GroovyScript_1", Kind: "sequence"},
		{FromID: "Router_1", ToID: "GroovyScript_2", Kind: "sequence"},
		{FromID: "GroovyScript_1", ToID: "End_1", Kind: "sequence"},
		{FromID: "GroovyScript_2", ToID: "End_1", Kind: "sequence"},
	}, graph.SequenceFlows)
}

func TestSynthesizeFlow_RequestReplyMessageFlows(t *testing.T) {
	graph, _ := SynthesizeFlow([]model.Component{
		{Type: "RequestReply", Kind: model.KindRequestReply, Quantity: 1},
	})

	// Trunk: Start -> Service Call -> End. The message flow and
	// external receiver hang off the service call via message edges.
	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "Start_1", ToID: "ServiceCall_1", Kind: "sequence"})
	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "ServiceCall_1", ToID: "End_1", Kind: "sequence"})
	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "ServiceCall_1", ToID: "MessageFlow_1", Kind: "message"})
	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "MessageFlow_1", ToID: "Receiver_1", Kind: "message"})
}

func TestSynthesizeFlow_RequestReplyDeclaredByTypeOnly(t *testing.T) {
	// Kind left unset: the planner parses it from the raw type, and the
	// companion attachment must still fire so the message-flow and
	// external-receiver instances are not orphaned.
	graph, _ := SynthesizeFlow([]model.Component{
		{Type: "RequestReply", Quantity: 1},
	})

	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "ServiceCall_1", ToID: "MessageFlow_1", Kind: "message"})
	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "MessageFlow_1", ToID: "Receiver_1", Kind: "message"})

	degree := make(map[string]int)
	for _, e := range graph.SequenceFlows {
		degree[e.FromID]++
		degree[e.ToID]++
	}
	for _, inst := range graph.OrderedInstances {
		assert.Positive(t, degree[inst.ID], "instance %s (%s) has no edges", inst.Name, inst.Kind)
	}
}

func TestSynthesizeFlow_StandaloneExternalReceiver(t *testing.T) {
	// An external receiver declared on its own behaves like a receiver
	// participant and message-links off the end instance.
	graph, _ := SynthesizeFlow([]model.Component{
		{Type: "ContentModifier", Quantity: 1},
		{Type: "ExternalReceiver", Quantity: 1},
	})

	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "End_1", ToID: "Receiver_1", Kind: "message"})
}

func TestSynthesizeFlow_ParticipantsMessageLinked(t *testing.T) {
	graph, _ := SynthesizeFlow([]model.Component{
		{Type: "Sender", Kind: model.KindSender, Quantity: 1},
		{Type: "ContentModifier", Kind: model.KindContentModifier, Quantity: 1},
		{Type: "Receiver", Kind: model.KindReceiver, Quantity: 1},
	})

	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "Sender_1", ToID: "Start_1", Kind: "message"})
	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "End_1", ToID: "Receiver_1", Kind: "message"})
	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "Start_1", ToID: "ContentModifier_1", Kind: "sequence"})
	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "ContentModifier_1", ToID: "End_1", Kind: "sequence"})
}

func TestSynthesizeFlow_DegreeGuarantees(t *testing.T) {
	graph, _ := SynthesizeFlow([]model.Component{
		{Type: "ContentModifier", Kind: model.KindContentModifier, Quantity: 2},
		{Type: "Router", Kind: model.KindRouter, Quantity: 1, BranchCount: 3, RoutingCriteria: "priority"},
		{Type: "GroovyScript", Kind: model.KindGroovyScript, Quantity: 3},
	})

	inDegree := make(map[string]int)
	outDegree := make(map[string]int)
	seen := make(map[model.FlowEdge]int)
	for _, e := range graph.SequenceFlows {
		seen[e]++
		assert.Equal(t, 1, seen[e], "duplicate edge %+v", e)
		inDegree[e.ToID]++
		outDegree[e.FromID]++
	}

	for _, inst := range graph.OrderedInstances {
		if inst.Kind == model.KindStartEvent {
			assert.Positive(t, outDegree[inst.ID])
			continue
		}
		if inst.Kind == model.KindEndEvent {
			assert.Positive(t, inDegree[inst.ID])
			continue
		}
		assert.Positive(t, inDegree[inst.ID], "instance %s has no inbound edge", inst.Name)
		assert.Positive(t, outDegree[inst.ID], "instance %s has no outbound edge", inst.Name)
	}
}

func TestAssemble_EmptyBranchConnectsRouterToEnd(t *testing.T) {
	// Hand-built plan: the second branch target has no matching
	// downstream instance, so the branch is empty and the router
	// connects straight to the end instance.
	router := model.Component{
		Type: "Router", Kind: model.KindRouter,
		BranchCount: 2, BranchTargets: []string{"GroovyScript", "MessageMapping"},
	}
	steps := []PlanStep{
		{Kind: model.KindStartEvent, TypeName: "StartEvent"},
		{Kind: model.KindRouter, TypeName: "Router", Component: router},
		{Kind: model.KindGroovyScript, TypeName: "GroovyScript"},
		{Kind: model.KindEndEvent, TypeName: "EndEvent"},
	}

	exp := Expand(steps, NewAllocationContext())
	var diag model.Diagnostics
	graph := Assemble(exp, &diag)

	assert.NotEmpty(t, diag.Warnings)
	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "Router_1", ToID: "GroovyScript_1", Kind: "sequence"})
	assert.Contains(t, graph.SequenceFlows, model.FlowEdge{FromID: "Router_1", ToID: "End_1", Kind: "sequence"})
	assert.Len(t, graph.Branches, 2)
	assert.Empty(t, graph.Branches[1].InstanceIDs)
}
