package sequential_test

import (
	"testing"

	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/graph"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/sequential"
)

// triangleMatrix: 0-1 weight 1, 1-2 weight 2, 0-2 weight 3.
func triangleMatrix() graph.Matrix {
	return graph.New(3, []int{
		0, 1, 3,
		1, 0, 2,
		3, 2, 0,
	})
}

// tieBreakMatrix has two weight ties the canonical order must resolve.
func tieBreakMatrix() graph.Matrix {
	// (0,1,1) (0,2,1) (1,3,2) (2,3,2)
	return graph.New(4, []int{
		0, 1, 1, 0,
		1, 0, 0, 2,
		1, 0, 0, 2,
		0, 2, 2, 0,
	})
}

// starMatrix: vertex 0 connected to 1..4 with weights 4,3,2,1.
func starMatrix() graph.Matrix {
	return graph.New(5, []int{
		0, 4, 3, 2, 1,
		4, 0, 0, 0, 0,
		3, 0, 0, 0, 0,
		2, 0, 0, 0, 0,
		1, 0, 0, 0, 0,
	})
}

func TestKruskalTriangle(t *testing.T) {
	tree, sum := sequential.Kruskal(triangleMatrix())
	if sum != 3 {
		t.Fatalf("expected sum 3, got %d", sum)
	}
	want := []edge.Edge{edge.New(0, 1, 1), edge.New(1, 2, 2)}
	if len(tree) != 2 || tree[0] != want[0] || tree[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, tree)
	}
}

func TestPrimTriangle(t *testing.T) {
	tree, sum := sequential.Prim(triangleMatrix())
	if sum != 3 {
		t.Fatalf("expected sum 3, got %d", sum)
	}
	if len(tree) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(tree))
	}
}

func TestKruskalTieBreak(t *testing.T) {
	tree, sum := sequential.Kruskal(tieBreakMatrix())
	if sum != 4 {
		t.Fatalf("expected sum 4, got %d", sum)
	}
	want := []edge.Edge{edge.New(0, 1, 1), edge.New(0, 2, 1), edge.New(1, 3, 2)}
	for i, e := range want {
		if tree[i] != e {
			t.Errorf("edge %d: expected %+v, got %+v", i, e, tree[i])
		}
	}
}

func TestPrimStarAdmitsInDecreasingEdgeWeight(t *testing.T) {
	tree, sum := sequential.Prim(starMatrix())
	if sum != 10 {
		t.Fatalf("expected sum 10, got %d", sum)
	}
	wantOrder := []int{4, 3, 2, 1}
	for i, v := range wantOrder {
		if tree[i].Other(0) != v {
			t.Errorf("admission %d: expected vertex %d to join, got %d", i, v, tree[i].Other(0))
		}
	}
}

func TestKruskalAndPrimAgreeOnWeightSum(t *testing.T) {
	m := starMatrix()
	_, kSum := sequential.Kruskal(m)
	_, pSum := sequential.Prim(m)
	if kSum != pSum {
		t.Errorf("Kruskal sum %d != Prim sum %d", kSum, pSum)
	}
}

func TestSingleVertexProducesNoOutput(t *testing.T) {
	m := graph.New(1, []int{0})
	tree, sum := sequential.Prim(m)
	if len(tree) != 0 || sum != 0 {
		t.Errorf("expected empty tree for N=1, got %v sum %d", tree, sum)
	}
	tree, sum = sequential.Kruskal(m)
	if len(tree) != 0 || sum != 0 {
		t.Errorf("expected empty tree for N=1, got %v sum %d", tree, sum)
	}
}

func TestTwoVertexSingleEdge(t *testing.T) {
	m := graph.New(2, []int{0, 7, 7, 0})
	tree, sum := sequential.Prim(m)
	if len(tree) != 1 || sum != 7 {
		t.Fatalf("expected single edge weight 7, got %v sum %d", tree, sum)
	}
}
