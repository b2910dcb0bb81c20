// Package heap is a binary min-heap of edges keyed by the canonical edge
// total order, used by sequential Prim. It wraps container/heap around a
// slice rather than hand-rolling the sift-up/sift-down loops.
package heap

import (
	"container/heap"

	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"
)

// Heap is a binary min-heap of edges ordered by edge.Compare. The zero
// value is an empty heap; New returns one and NewWithCapacity returns one
// with preallocated storage.
type Heap struct {
	data []edge.Edge
}

// New creates an empty heap.
func New() *Heap {
	return &Heap{}
}

// NewWithCapacity creates an empty heap preallocated for capacity
// elements. Each edge of a graph can be pushed at most twice (once from
// each endpoint as it becomes visited), so a Prim run over M edges never
// exceeds capacity 2*M; passing that bound up front avoids reallocation
// during the run.
func NewWithCapacity(capacity int) *Heap {
	return &Heap{data: make([]edge.Edge, 0, capacity)}
}

// Len implements container/heap.Interface.
func (h *Heap) Len() int { return len(h.data) }

// Less implements container/heap.Interface using the canonical edge order.
func (h *Heap) Less(i, j int) bool { return edge.Less(h.data[i], h.data[j]) }

// Swap implements container/heap.Interface.
func (h *Heap) Swap(i, j int) { h.data[i], h.data[j] = h.data[j], h.data[i] }

// Push implements container/heap.Interface. Use PushEdge, not this
// directly; it exists only to satisfy the interface.
func (h *Heap) Push(x any) {
	h.data = append(h.data, x.(edge.Edge))
}

// Pop implements container/heap.Interface. Use PopEdge, not this
// directly; it exists only to satisfy the interface.
func (h *Heap) Pop() any {
	old := h.data
	n := len(old)
	e := old[n-1]
	h.data = old[:n-1]
	return e
}

// PushEdge pushes e onto the heap, restoring heap order.
func (h *Heap) PushEdge(e edge.Edge) {
	heap.Push(h, e)
}

// PopEdge removes and returns the minimum edge. Panics if the heap is
// empty; callers must check Len first.
func (h *Heap) PopEdge() edge.Edge {
	return heap.Pop(h).(edge.Edge)
}
