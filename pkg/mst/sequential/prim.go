// Package sequential implements single-process Prim and Kruskal over a
// graph.Matrix. They double as correctness oracles for the distributed
// variants, which must agree with them on the final tree (weight sum
// always, vertex/edge sequence under the canonical tie-break rules).
package sequential

import (
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/graph"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/heap"
)

// Prim computes the MST of m starting from vertex 0 using a binary heap.
// Edges whose both endpoints are already visited are popped and discarded
// rather than removed from the heap up front; the heap is allowed to hold
// stale entries, trading a log factor for simplicity.
func Prim(m graph.Matrix) ([]edge.Edge, int) {
	n := m.N
	if n <= 1 {
		return nil, 0
	}

	visited := make([]bool, n)
	visited[0] = true

	h := heap.NewWithCapacity(2 * n * n)
	for _, v := range m.Neighbors(0) {
		h.PushEdge(edge.New(0, v, m.Weight(0, v)))
	}

	tree := make([]edge.Edge, 0, n-1)
	sum := 0

	for h.Len() > 0 && len(tree) < n-1 {
		e := h.PopEdge()

		var next int
		switch {
		case !visited[e.I] && visited[e.J]:
			next = e.I
		case visited[e.I] && !visited[e.J]:
			next = e.J
		default:
			// both endpoints visited (or, impossibly, neither): stale entry.
			continue
		}

		visited[next] = true
		tree = append(tree, e)
		sum += e.Weight

		for _, v := range m.Neighbors(next) {
			if !visited[v] {
				h.PushEdge(edge.New(next, v, m.Weight(next, v)))
			}
		}
	}

	return tree, sum
}
