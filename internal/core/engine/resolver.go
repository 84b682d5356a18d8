package engine

import (
	"sort"
	"strings"

	"github.com/agenthands/flowforge/internal/core/common"
	"github.com/agenthands/flowforge/internal/core/model"
)

// DefaultResolveThreshold is the minimum artifact confidence accepted
// when binding an artifact to a node.
const DefaultResolveThreshold = 0.65

const maxMissingCandidates = 2

// ResolveArtifacts matches each ordered node to the best available
// content artifact.
//
// Per node: a case-insensitive exact name match wins (highest
// confidence among exact matches); otherwise the artifact with the
// largest token overlap against the node name is chosen, ties broken
// by first-seen order. The chosen artifact is accepted only when its
// confidence meets the threshold; below-threshold nodes are reported
// missing with up to two exact-match candidates for diagnostics.
//
// Artifacts are sorted by (document name, artifact name) before
// scoring so the first-max tie-break is stable regardless of
// retrieval order.
func ResolveArtifacts(ordered []model.Node, artifacts []model.Artifact, threshold float64) ([]model.ResolvedBinding, []model.MissingNode) {
	resolved := make([]model.ResolvedBinding, 0, len(ordered))
	missing := make([]model.MissingNode, 0)

	pool := make([]model.Artifact, len(artifacts))
	copy(pool, artifacts)
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].DocumentName != pool[j].DocumentName {
			return pool[i].DocumentName < pool[j].DocumentName
		}
		return pool[i].Name < pool[j].Name
	})

	for _, node := range ordered {
		if len(pool) == 0 {
			missing = append(missing, model.MissingNode{Node: node, Candidates: []model.Artifact{}})
			continue
		}

		exact := exactMatches(node.Name, pool)

		var chosen *model.Artifact
		if len(exact) > 0 {
			best := exact[0]
			for _, a := range exact[1:] {
				if a.Confidence > best.Confidence {
					best = a
				}
			}
			chosen = &best
		} else {
			bestScore := 0
			for i := range pool {
				score := common.TokenOverlap(node.Name, pool[i].Name)
				if score > bestScore {
					bestScore = score
					chosen = &pool[i]
				}
			}
		}

		if chosen != nil && chosen.Confidence >= threshold {
			resolved = append(resolved, model.ResolvedBinding{Node: node, Artifact: *chosen})
			continue
		}

		candidates := exact
		if len(candidates) > maxMissingCandidates {
			candidates = candidates[:maxMissingCandidates]
		}
		if candidates == nil {
			candidates = []model.Artifact{}
		}
		missing = append(missing, model.MissingNode{Node: node, Candidates: candidates})
	}

	return resolved, missing
}

func exactMatches(name string, pool []model.Artifact) []model.Artifact {
	var out []model.Artifact
	for _, a := range pool {
		if strings.EqualFold(a.Name, name) {
			out = append(out, a)
		}
	}
	return out
}
