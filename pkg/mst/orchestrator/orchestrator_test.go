package orchestrator_test

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/chris-alexander-pop/mst-cohort/pkg/cohort/memory"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/orchestrator"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/unionfind"
)

func triangle() ([]int, int) {
	return []int{
		0, 1, 3,
		1, 0, 2,
		3, 2, 0,
	}, 3
}

func TestComputeMSTPrimSeq(t *testing.T) {
	adj, n := triangle()
	hub, ctx := memory.NewHub(context.Background(), 1)
	tree, sum, err := orchestrator.ComputeMST(ctx, n, adj, orchestrator.PrimSeq, hub.Peer(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 3 || len(tree) != 2 {
		t.Fatalf("got tree %v sum %d, want 2 edges summing to 3", tree, sum)
	}
}

func TestComputeMSTKruskalSeqRejectsMultiPeerCohort(t *testing.T) {
	adj, n := triangle()
	hub, ctx := memory.NewHub(context.Background(), 2)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for r := 0; r < 2; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			_, _, errs[r] = orchestrator.ComputeMST(ctx, n, adj, orchestrator.KruskalSeq, hub.Peer(r))
		}(r)
	}
	wg.Wait()

	for r, err := range errs {
		if err == nil {
			t.Errorf("rank %d: expected error for kruskal-seq on a 2-peer cohort", r)
		}
	}
}

func TestComputeMSTUnknownAlgorithm(t *testing.T) {
	adj, n := triangle()
	hub, ctx := memory.NewHub(context.Background(), 1)
	_, _, err := orchestrator.ComputeMST(ctx, n, adj, "bogus-algorithm", hub.Peer(0))
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestComputeMSTRejectsMalformedMatrix(t *testing.T) {
	hub, ctx := memory.NewHub(context.Background(), 1)
	badAdj := []int{0, 1, 2, 0} // asymmetric
	_, _, err := orchestrator.ComputeMST(ctx, 2, badAdj, orchestrator.PrimSeq, hub.Peer(0))
	if err == nil {
		t.Fatal("expected validation error for asymmetric matrix")
	}
}

// runAlgorithm executes one algorithm over a p-peer in-memory cohort and
// returns rank 0's tree and sum.
func runAlgorithm(t *testing.T, n int, adj []int, algorithm string, p int) ([]edge.Edge, int) {
	t.Helper()
	hub, ctx := memory.NewHub(context.Background(), p)

	var wg sync.WaitGroup
	trees := make([][]edge.Edge, p)
	sums := make([]int, p)
	errs := make([]error, p)
	for r := 0; r < p; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			trees[r], sums[r], errs[r] = orchestrator.ComputeMST(ctx, n, adj, algorithm, hub.Peer(r))
		}(r)
	}
	wg.Wait()

	for r, err := range errs {
		if err != nil {
			t.Fatalf("%s rank %d: %v", algorithm, r, err)
		}
	}
	return trees[0], sums[0]
}

func TestAllAlgorithmsAgreeOnEdgeMultiset(t *testing.T) {
	// Two weight-1 and two weight-2 edges tie pairwise; the canonical
	// (w, i, j) order must make every algorithm resolve them identically.
	n := 6
	adj := make([]int, n*n)
	set := func(i, j, w int) {
		adj[i*n+j] = w
		adj[j*n+i] = w
	}
	set(0, 1, 1)
	set(0, 2, 1)
	set(1, 3, 2)
	set(2, 3, 2)
	set(3, 4, 5)
	set(4, 5, 3)
	set(0, 5, 9)

	want, wantSum := runAlgorithm(t, n, adj, orchestrator.KruskalSeq, 1)
	slices.SortFunc(want, edge.Compare)

	runs := []struct {
		algorithm string
		peers     int
	}{
		{orchestrator.PrimSeq, 1},
		{orchestrator.PrimPar, 3},
		{orchestrator.KruskalPar, 4},
	}
	for _, run := range runs {
		tree, sum := runAlgorithm(t, n, adj, run.algorithm, run.peers)
		if sum != wantSum {
			t.Errorf("%s: sum = %d, want %d", run.algorithm, sum, wantSum)
		}
		sorted := slices.Clone(tree)
		slices.SortFunc(sorted, edge.Compare)
		if !slices.Equal(sorted, want) {
			t.Errorf("%s: edge multiset %v, want %v", run.algorithm, sorted, want)
		}

		ds := unionfind.New(n)
		for _, e := range tree {
			ds.Union(e.I, e.J)
		}
		for v := 1; v < n; v++ {
			if !ds.Connected(0, v) {
				t.Errorf("%s: output does not span vertex %d", run.algorithm, v)
			}
		}
	}
}

func TestComputeMSTDistributedKruskalAcrossPeers(t *testing.T) {
	adj, n := triangle()
	p := 2
	hub, ctx := memory.NewHub(context.Background(), p)

	var wg sync.WaitGroup
	sums := make([]int, p)
	errs := make([]error, p)
	for r := 0; r < p; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			_, sums[r], errs[r] = orchestrator.ComputeMST(ctx, n, adj, orchestrator.KruskalPar, hub.Peer(r))
		}(r)
	}
	wg.Wait()

	for r, err := range errs {
		if err != nil {
			t.Fatalf("rank %d: %v", r, err)
		}
	}
	if sums[0] != 3 {
		t.Fatalf("rank 0 sum = %d, want 3", sums[0])
	}
}
