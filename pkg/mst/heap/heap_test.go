package heap_test

import (
	"testing"

	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/heap"
)

func TestHeapOrdersByWeight(t *testing.T) {
	h := heap.New()
	h.PushEdge(edge.New(0, 1, 5))
	h.PushEdge(edge.New(0, 2, 3))
	h.PushEdge(edge.New(0, 3, 7))

	if got := h.PopEdge().Weight; got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := h.PopEdge().Weight; got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if got := h.PopEdge().Weight; got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
	if h.Len() != 0 {
		t.Errorf("expected empty heap, got len %d", h.Len())
	}
}

func TestHeapBreaksTiesByLexOrder(t *testing.T) {
	h := heap.NewWithCapacity(4)
	h.PushEdge(edge.New(2, 3, 1))
	h.PushEdge(edge.New(0, 1, 1))
	h.PushEdge(edge.New(0, 2, 1))

	first := h.PopEdge()
	if first.I != 0 || first.J != 1 {
		t.Errorf("expected (0,1) first on tie, got (%d,%d)", first.I, first.J)
	}
	second := h.PopEdge()
	if second.I != 0 || second.J != 2 {
		t.Errorf("expected (0,2) second on tie, got (%d,%d)", second.I, second.J)
	}
}
