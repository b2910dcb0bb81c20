// Package distributed implements the two peer-cohort MST algorithms:
// Kruskal by binary tournament of local forests, and Prim by per-iteration
// global-minimum reduction. Both are written against cohort.Transport so
// the same code runs over pkg/cohort/memory (tests, single-binary mode)
// or pkg/cohort/natscohort (real distributed mode) unmodified.
package distributed

import (
	"context"
	"fmt"
	"slices"

	"github.com/chris-alexander-pop/mst-cohort/pkg/cohort"
	"github.com/chris-alexander-pop/mst-cohort/pkg/logger"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/graph"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/unionfind"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/wire"
)

// ownedRange returns the [lo, hi) vertex range peer rank owns under a
// row-block partition of rowBlock rows per peer over n total vertices.
// Peers whose block falls entirely past n own an empty range and act as
// no-ops in every round, which is what lets P > N behave correctly.
func ownedRange(rank, rowBlock, n int) (lo, hi int) {
	lo = rank * rowBlock
	hi = lo + rowBlock
	if lo > n {
		lo = n
	}
	if hi > n {
		hi = n
	}
	return lo, hi
}

// maxEdgesFor caps kruskal_select at one less than the number of vertices
// in an induced subgraph; a non-positive vertex count yields no edges.
func maxEdgesFor(vertexCount int) int {
	if vertexCount <= 0 {
		return 0
	}
	return vertexCount - 1
}

// Two tags per round, keyed by stepSize (a power of two), so no two
// rounds' messages ever collide on the same (source, tag) pair.
func tagBipartite(stepSize int) int { return stepSize * 2 }
func tagForest(stepSize int) int    { return stepSize*2 + 1 }

// Kruskal computes the MST of m over the given cohort by partitioning
// vertices into row blocks, reducing each block to a local forest, and
// merging forests pairwise in a binary tournament across log2(P) rounds.
// Only rank 0's return value carries the tree; every other peer returns a
// nil tree and a zero sum, per the orchestrator's "only rank 0 emits"
// contract.
func Kruskal(ctx context.Context, t cohort.Transport, m graph.Matrix) ([]edge.Edge, int, error) {
	n := m.N
	p := t.Size()
	rank := t.Rank()
	rowBlock := (n + p - 1) / p

	lo, hi := ownedRange(rank, rowBlock, n)

	local := m.EdgesBetween(lo, hi, lo, hi)
	slices.SortFunc(local, edge.Compare)
	forest := unionfind.KruskalSelect(local, n, maxEdgesFor(hi-lo))

	for stepSize := 1; stepSize*rowBlock < n; stepSize *= 2 {
		blockStart := (rank / (2 * stepSize)) * (2 * stepSize)
		offset := rank - blockStart

		switch {
		case offset < stepSize:
			// Receiver half. Only the block's lowest rank is the active
			// representative; the rest sit this round out, their state
			// already folded into forest 2*stepSize-many vertices ago.
			if offset != 0 {
				continue
			}
			senderRep := blockStart + stepSize
			if senderRep >= p {
				// No sender partner exists this round (P not a power of
				// two, or a tail block short of peers); forest is
				// unchanged.
				continue
			}

			forestMsg, err := t.Recv(ctx, senderRep, tagForest(stepSize))
			if err != nil {
				return nil, 0, fmt.Errorf("distributed kruskal: recv forest from rank %d: %w", senderRep, err)
			}
			senderForest, err := wire.Decode(forestMsg)
			if err != nil {
				return nil, 0, fmt.Errorf("distributed kruskal: decode forest from rank %d: %w", senderRep, err)
			}

			combined := append(append([]edge.Edge{}, forest...), senderForest...)

			for s := 0; s < stepSize && blockStart+stepSize+s < p; s++ {
				senderRank := blockStart + stepSize + s
				biMsg, err := t.Recv(ctx, senderRank, tagBipartite(stepSize))
				if err != nil {
					return nil, 0, fmt.Errorf("distributed kruskal: recv bipartite from rank %d: %w", senderRank, err)
				}
				bi, err := wire.Decode(biMsg)
				if err != nil {
					return nil, 0, fmt.Errorf("distributed kruskal: decode bipartite from rank %d: %w", senderRank, err)
				}
				combined = append(combined, bi...)
			}

			slices.SortFunc(combined, edge.Compare)

			recvLo, _ := ownedRange(blockStart, rowBlock, n)
			_, blockHi := ownedRange(blockStart+2*stepSize-1, rowBlock, n)
			forest = unionfind.KruskalSelect(combined, n, maxEdgesFor(blockHi-recvLo))

			logger.L().DebugContext(ctx, "distributed kruskal: merged round",
				"step_size", stepSize, "role", "receiver", "merged_edges", len(forest))

		default:
			// Sender half. Every sender computes and sends a bipartite
			// forest between its own rows and the entire receiver
			// half's columns; only the sender half's lowest rank also
			// forwards its aggregate local forest, and it sends that
			// forest first because the receiver reads it before any
			// bipartite forest.
			if offset == stepSize {
				if err := t.Send(ctx, blockStart, tagForest(stepSize), wire.Encode(forest)); err != nil {
					return nil, 0, fmt.Errorf("distributed kruskal: send forest to rank %d: %w", blockStart, err)
				}
			}

			recvLo, _ := ownedRange(blockStart, rowBlock, n)
			_, recvRangeHi := ownedRange(blockStart+stepSize-1, rowBlock, n)

			bipartite := m.EdgesBetween(lo, hi, recvLo, recvRangeHi)
			slices.SortFunc(bipartite, edge.Compare)
			bipartiteForest := unionfind.KruskalSelect(bipartite, n, maxEdgesFor((hi-lo)+(recvRangeHi-recvLo)))

			if err := t.Send(ctx, blockStart, tagBipartite(stepSize), wire.Encode(bipartiteForest)); err != nil {
				return nil, 0, fmt.Errorf("distributed kruskal: send bipartite to rank %d: %w", blockStart, err)
			}

			logger.L().DebugContext(ctx, "distributed kruskal: sent round",
				"step_size", stepSize, "role", "sender", "bipartite_edges", len(bipartiteForest))
		}
	}

	if rank != 0 {
		return nil, 0, nil
	}

	sum := 0
	for _, e := range forest {
		sum += e.Weight
	}
	return forest, sum, nil
}
