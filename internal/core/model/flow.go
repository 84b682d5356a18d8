package model

import "fmt"

// FlowEdge is one directed connection in the assembled flow.
// Kind is "sequence" for sequence flows and "message" for message
// flows between a service call and an external receiver.
type FlowEdge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
	Kind   string `json:"kind"`
}

// Branch is one arm of a router fan-out. The last branch of a router
// always carries the condition "default".
type Branch struct {
	BranchNumber int      `json:"branch_number"`
	Condition    string   `json:"condition"`
	InstanceIDs  []string `json:"instance_ids"`
}

// FlowGraph is the engine's final output: a single weakly connected
// DAG from one start instance to one or more terminal instances.
// Handed off immutable to the renderer.
type FlowGraph struct {
	OrderedInstances []ComponentInstance `json:"ordered_instances"`
	SequenceFlows    []FlowEdge          `json:"sequence_flows"`
	Branches         []Branch            `json:"branches"`
}

// Diagnostics accumulates soft failures across one generation
// request. Soft failures never abort generation.
type Diagnostics struct {
	Warnings []string `json:"warnings,omitempty"`
}

func (d *Diagnostics) Warnf(format string, args ...interface{}) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// Merge appends another diagnostics set onto this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Warnings = append(d.Warnings, other.Warnings...)
}
