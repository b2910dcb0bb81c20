package sequential

import (
	"slices"

	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/graph"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/unionfind"
)

// Kruskal computes the MST of m by materializing the upper-triangular
// edge list, sorting it by the canonical edge order, and running it
// through unionfind.KruskalSelect — the same reduction kernel distributed
// Kruskal uses at every round.
func Kruskal(m graph.Matrix) ([]edge.Edge, int) {
	edges := m.Edges()
	slices.SortFunc(edges, edge.Compare)

	tree := unionfind.KruskalSelect(edges, m.N, m.N-1)

	sum := 0
	for _, e := range tree {
		sum += e.Weight
	}
	return tree, sum
}
