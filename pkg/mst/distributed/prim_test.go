package distributed_test

import (
	"context"
	"sync"
	"testing"

	"github.com/chris-alexander-pop/mst-cohort/pkg/cohort/memory"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/distributed"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/graph"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/sequential"
)

// starMatrix is a star: vertex 0 connected to 1..4 with weights
// 4,3,2,1; no other edges.
func starMatrix() graph.Matrix {
	return graph.New(5, []int{
		0, 4, 3, 2, 1,
		4, 0, 0, 0, 0,
		3, 0, 0, 0, 0,
		2, 0, 0, 0, 0,
		1, 0, 0, 0, 0,
	})
}

func runPrim(t *testing.T, m graph.Matrix, p int) ([]edge.Edge, int) {
	t.Helper()
	hub, ctx := memory.NewHub(context.Background(), p)

	var wg sync.WaitGroup
	results := make([][]edge.Edge, p)
	sums := make([]int, p)
	errs := make([]error, p)

	for r := 0; r < p; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			results[r], sums[r], errs[r] = distributed.Prim(ctx, hub.Peer(r), m)
		}(r)
	}
	wg.Wait()

	for r, err := range errs {
		if err != nil {
			t.Fatalf("rank %d: %v", r, err)
		}
	}
	return results[0], sums[0]
}

func TestDistributedPrimStarAdmitsInDecreasingEdgeWeight(t *testing.T) {
	tree, sum := runPrim(t, starMatrix(), 2)
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

func TestDistributedPrimMatchesSequential(t *testing.T) {
	m := starMatrix()
	_, wantSum := sequential.Prim(m)
	_, sum := runPrim(t, m, 3)
	if sum != wantSum {
		t.Fatalf("sum = %d, want %d", sum, wantSum)
	}
}

func TestDistributedPrimSinglePeer(t *testing.T) {
	m := starMatrix()
	wantTree, wantSum := sequential.Prim(m)
	tree, sum := runPrim(t, m, 1)
	if sum != wantSum || len(tree) != len(wantTree) {
		t.Fatalf("got tree %v sum %d, want len %d sum %d", tree, sum, len(wantTree), wantSum)
	}
}

func TestDistributedPrimMorePeersThanVertices(t *testing.T) {
	m := starMatrix()
	wantTree, wantSum := sequential.Prim(m)

	tree, sum := runPrim(t, m, 16)

	if sum != wantSum {
		t.Fatalf("sum = %d, want %d", sum, wantSum)
	}
	if len(tree) != len(wantTree) {
		t.Fatalf("tree length = %d, want %d", len(tree), len(wantTree))
	}
}

func TestDistributedPrimExecutesExactlyNMinus1Iterations(t *testing.T) {
	// Rank 0 broadcasts N-1 distinct vertex indices, none of which is
	// vertex 0.
	tree, _ := runPrim(t, starMatrix(), 2)
	if len(tree) != 4 {
		t.Fatalf("expected 4 edges (N-1), got %d", len(tree))
	}
	seen := map[int]bool{}
	for _, e := range tree {
		winner := e.Other(0)
		if winner == 0 {
			t.Error("winner must never be vertex 0")
		}
		if seen[winner] {
			t.Errorf("vertex %d joined the tree more than once", winner)
		}
		seen[winner] = true
	}
}
