package engine

import (
	"github.com/agenthands/flowforge/internal/core/model"
)

// OrderSkeleton linearizes a topology graph into a deterministic
// processing order using Kahn's algorithm with a FIFO queue of
// zero-in-degree nodes.
//
// Edge endpoints absent from the node set are synthesized as stub
// nodes {id, name=id, type="unknown"}. Nodes trapped in cycles are
// appended in insertion order after the acyclic prefix, so a fully
// cyclic graph degrades to the original insertion order rather than
// failing. Cyclic skeletons are a soft condition, not an error.
func OrderSkeleton(nodes []model.Node, edges []model.Edge) []model.Node {
	if len(nodes) == 0 && len(edges) == 0 {
		return []model.Node{}
	}

	// Node set in insertion order, stubs appended for unknown endpoints.
	all := make([]model.Node, 0, len(nodes))
	byID := make(map[string]int, len(nodes))
	add := func(n model.Node) {
		if _, ok := byID[n.ID]; ok {
			return
		}
		byID[n.ID] = len(all)
		all = append(all, n)
	}
	for _, n := range nodes {
		add(n)
	}
	for _, e := range edges {
		if _, ok := byID[e.FromID]; !ok {
			add(model.Node{ID: e.FromID, Name: e.FromID, Type: "unknown"})
		}
		if _, ok := byID[e.ToID]; !ok {
			add(model.Node{ID: e.ToID, Name: e.ToID, Type: "unknown"})
		}
	}

	inDegree := make(map[string]int, len(all))
	adjacency := make(map[string][]string, len(all))
	for _, n := range all {
		inDegree[n.ID] = 0
	}
	for _, e := range edges {
		adjacency[e.FromID] = append(adjacency[e.FromID], e.ToID)
		inDegree[e.ToID]++
	}

	// FIFO queue seeded in insertion order for determinism.
	var queue []string
	for _, n := range all {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	ordered := make([]model.Node, 0, len(all))
	visited := make(map[string]bool, len(all))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		ordered = append(ordered, all[byID[id]])
		for _, next := range adjacency[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	// Cycle members never reach in-degree zero; append them in
	// insertion order so the result stays a permutation of the input.
	for _, n := range all {
		if !visited[n.ID] {
			ordered = append(ordered, n)
		}
	}

	return ordered
}
