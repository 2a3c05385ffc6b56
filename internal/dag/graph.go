// Package dag builds the dependency graph for a cell set and linearizes
// it into an execution order.
package dag

import (
	"fmt"
	"sort"

	"github.com/abhishekshiv/litpro/internal/cell"
	"github.com/abhishekshiv/litpro/internal/diag"
)

// Graph is the adjacency/in-degree view of a cell set. It is derived
// data: rebuilt fresh from the set on every resolution, never cached.
type Graph struct {
	dependents map[string][]string // dependency id → ids that depend on it
	inDegree   map[string]int
}

// Build constructs the graph for set. Every cell id becomes a node. For
// each declared dependency naming a known cell, an edge is added from
// the dependency to the dependent and the dependent's in-degree is
// incremented; repeated dependency ids are not deduplicated, so each
// repetition adds an edge and an in-degree unit. A dependency naming an
// unknown id produces a diagnostic and no edge.
func Build(set cell.Set) (*Graph, []diag.Diagnostic) {
	g := &Graph{
		dependents: make(map[string][]string, len(set)),
		inDegree:   make(map[string]int, len(set)),
	}
	var diags []diag.Diagnostic

	for id := range set {
		g.dependents[id] = nil
		g.inDegree[id] = 0
	}

	// Sorted iteration keeps the diagnostic stream deterministic.
	ids := set.IDs()
	sort.Strings(ids)
	for _, id := range ids {
		for _, dep := range set[id].Dependencies {
			if _, ok := set[dep]; !ok {
				diags = append(diags, diag.Diagnostic{
					Kind:   diag.KindUnknownDependency,
					CellID: id,
					Detail: fmt.Sprintf("dependency %q not found; edge dropped", dep),
				})
				continue
			}
			g.dependents[dep] = append(g.dependents[dep], id)
			g.inDegree[id]++
		}
	}

	return g, diags
}

// Len returns the node count.
func (g *Graph) Len() int {
	return len(g.inDegree)
}

// Dependents returns the ids that directly depend on id, in edge
// insertion order, duplicates included.
func (g *Graph) Dependents(id string) []string {
	return g.dependents[id]
}
