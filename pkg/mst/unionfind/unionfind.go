// Package unionfind implements a disjoint-set forest over dense integer
// vertex ids. Find uses iterative two-pass path compression rather than
// recursion, so pathological parent chains cannot grow the stack.
package unionfind

import "github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"

// Set is a union-find forest over vertex ids in [0, N). Parent[x] == x
// for a root. Not safe for concurrent use: each peer in the cohort owns
// its forest exclusively, so no internal locking is needed.
type Set struct {
	parent []int
	rank   []int
}

// New builds a forest of n singleton sets, one per vertex id.
func New(n int) *Set {
	s := &Set{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range s.parent {
		s.parent[i] = i
		s.rank[i] = 1
	}
	return s
}

// Find returns the representative of x's set, compressing the path from
// x to the root so later finds are O(1).
func (s *Set) Find(x int) int {
	root := x
	for s.parent[root] != root {
		root = s.parent[root]
	}
	for s.parent[x] != root {
		s.parent[x], x = root, s.parent[x]
	}
	return root
}

// Union merges the sets containing a and b, linking the lower-rank root
// under the higher-rank root and incrementing rank only on a tie.
// Returns true if a and b were in different sets (i.e. a merge happened).
func (s *Set) Union(a, b int) bool {
	rootA, rootB := s.Find(a), s.Find(b)
	if rootA == rootB {
		return false
	}
	switch {
	case s.rank[rootA] < s.rank[rootB]:
		s.parent[rootA] = rootB
	case s.rank[rootA] > s.rank[rootB]:
		s.parent[rootB] = rootA
	default:
		s.parent[rootB] = rootA
		s.rank[rootA]++
	}
	return true
}

// Connected reports whether a and b are in the same set.
func (s *Set) Connected(a, b int) bool {
	return s.Find(a) == s.Find(b)
}

// KruskalSelect is the shared MST-extraction kernel used by sequential
// Kruskal and by every reduction step of distributed Kruskal. sorted must
// already be in canonical edge order. It scans in order, admits an edge
// iff its endpoints have distinct roots, unions them, and stops once
// maxEdges edges are accepted or the list is exhausted.
//
// totalVertices sizes the backing union-find array and must be large
// enough to cover every vertex id that appears in sorted (in this module,
// callers always pass the graph's full N, since edges carry global vertex
// ids even when only a sub-range of vertices participates in a given
// round). maxEdges is the number of vertices in the induced subgraph
// minus one, which callers compute from whatever vertex range they are
// reducing.
func KruskalSelect(sorted []edge.Edge, totalVertices, maxEdges int) []edge.Edge {
	if maxEdges < 0 {
		maxEdges = 0
	}
	result := make([]edge.Edge, 0, maxEdges)
	if maxEdges == 0 {
		return result
	}

	ds := New(totalVertices)
	for _, e := range sorted {
		if len(result) == maxEdges {
			break
		}
		if ds.Union(e.I, e.J) {
			result = append(result, e)
		}
	}
	return result
}
