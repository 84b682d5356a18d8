package engine

import (
	"fmt"

	"github.com/agenthands/flowforge/internal/core/model"
)

// Stitch combines the ordered skeleton with the resolver output into
// a coverage report. Pure aggregation.
func Stitch(ordered []model.Node, resolved []model.ResolvedBinding, missing []model.MissingNode) model.Coverage {
	names := make([]string, 0, len(missing))
	for _, m := range missing {
		names = append(names, m.Node.Name)
	}
	return model.Coverage{
		NodesTotal:    len(ordered),
		NodesResolved: len(resolved),
		Missing:       names,
	}
}

// CheckCoverage verifies the stitching invariant
// nodes_resolved + len(missing) == nodes_total.
func CheckCoverage(c model.Coverage) error {
	if c.NodesResolved+len(c.Missing) != c.NodesTotal {
		return fmt.Errorf("coverage invariant violated: resolved=%d missing=%d total=%d",
			c.NodesResolved, len(c.Missing), c.NodesTotal)
	}
	return nil
}
