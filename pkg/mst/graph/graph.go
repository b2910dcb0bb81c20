// Package graph holds the dense adjacency matrix representation shared by
// every algorithm in this module and the validation/extraction helpers
// built on top of it.
package graph

import "github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"

// Matrix is an N*N row-major adjacency matrix of non-negative integer
// weights. It must be symmetric (Weight(i,j) == Weight(j,i)) with zeros
// on the diagonal; a zero entry anywhere else means "no edge". All peers
// in a distributed run hold the full matrix — it is not streamed or
// partitioned in memory, only in which rows each peer actively works on.
type Matrix struct {
	N    int
	Data []int
}

// New wraps data as an N*N matrix. Does not copy; callers that need to
// mutate the source afterwards should copy first.
func New(n int, data []int) Matrix {
	return Matrix{N: n, Data: data}
}

// Weight returns the weight of the edge between i and j, 0 if absent.
func (m Matrix) Weight(i, j int) int {
	return m.Data[i*m.N+j]
}

// Validate checks the structural invariants every algorithm here assumes
// of its input: a square matrix, non-negative weights, zero diagonal, and
// symmetry.
func (m Matrix) Validate() error {
	n := m.N
	if n < 1 {
		return &ValidationError{Reason: "vertex count must be >= 1"}
	}
	if len(m.Data) != n*n {
		return &ValidationError{Reason: "matrix data length does not match N*N"}
	}
	for i := 0; i < n; i++ {
		if m.Weight(i, i) != 0 {
			return &ValidationError{Reason: "diagonal entry must be zero"}
		}
		for j := i + 1; j < n; j++ {
			wij := m.Weight(i, j)
			if wij < 0 {
				return &ValidationError{Reason: "negative weights are not supported"}
			}
			if wij != m.Weight(j, i) {
				return &ValidationError{Reason: "matrix is not symmetric"}
			}
		}
	}
	return nil
}

// ValidationError reports why a Matrix failed Validate.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "graph: " + e.Reason }

// Edges materializes the upper-triangular non-zero entries of m as a
// canonical edge list. Callers that need the graph's edge count M can
// take len(Edges(m)) instead of pre-counting it themselves.
func (m Matrix) Edges() []edge.Edge {
	edges := make([]edge.Edge, 0, m.N)
	for i := 0; i < m.N; i++ {
		for j := i + 1; j < m.N; j++ {
			if w := m.Weight(i, j); w != 0 {
				edges = append(edges, edge.New(i, j, w))
			}
		}
	}
	return edges
}

// EdgesBetween extracts the canonical edge list of the induced subgraph
// between two disjoint vertex ranges [loA,hiA) and [loB,hiB), or, when the
// two ranges are identical, the induced subgraph on that single range. The
// distributed algorithms use this both to carve out a peer's own row block
// (EdgesBetween(lo,hi,lo,hi)) and to compute a bipartite cross-block edge
// set between a sender's rows and a receiver half's columns.
func (m Matrix) EdgesBetween(loA, hiA, loB, hiB int) []edge.Edge {
	var edges []edge.Edge
	if loA == loB && hiA == hiB {
		for i := loA; i < hiA; i++ {
			for j := i + 1; j < hiA; j++ {
				if w := m.Weight(i, j); w != 0 {
					edges = append(edges, edge.New(i, j, w))
				}
			}
		}
		return edges
	}
	for i := loA; i < hiA; i++ {
		for j := loB; j < hiB; j++ {
			if w := m.Weight(i, j); w != 0 {
				edges = append(edges, edge.New(i, j, w))
			}
		}
	}
	return edges
}

// Neighbors returns every vertex adjacent to v with a non-zero edge.
func (m Matrix) Neighbors(v int) []int {
	out := make([]int, 0, m.N-1)
	for u := 0; u < m.N; u++ {
		if u != v && m.Weight(v, u) != 0 {
			out = append(out, u)
		}
	}
	return out
}
