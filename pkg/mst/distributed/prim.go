package distributed

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/chris-alexander-pop/mst-cohort/pkg/cohort"
	appErrors "github.com/chris-alexander-pop/mst-cohort/pkg/errors"
	"github.com/chris-alexander-pop/mst-cohort/pkg/logger"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/graph"
)

const (
	tagPrimCandidate = 1
	tagPrimWinner    = 2
)

// borderEntry is one local vertex's cheapest tree-side neighbor.
// weight == 0 means "no candidate yet".
type borderEntry struct {
	weight   int
	neighbor int
}

// candidate is what a peer contributes to the per-iteration gather: the
// owned vertex with the cheapest crossing edge, or the sentinel
// (vertex == -1) if this peer has no unvisited candidate left.
type candidate struct {
	vertex   int
	neighbor int
	weight   int
}

func encodeCandidate(c candidate) []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(int32(c.vertex)))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(int32(c.neighbor)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(int32(c.weight)))
	return buf
}

func decodeCandidate(buf []byte) (candidate, error) {
	if len(buf) != 12 {
		return candidate{}, fmt.Errorf("distributed prim: malformed candidate payload (%d bytes)", len(buf))
	}
	return candidate{
		vertex:   int(int32(binary.LittleEndian.Uint32(buf[0:4]))),
		neighbor: int(int32(binary.LittleEndian.Uint32(buf[4:8]))),
		weight:   int(int32(binary.LittleEndian.Uint32(buf[8:12]))),
	}, nil
}

func encodeWinner(v int) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(int32(v)))
	return buf
}

func decodeWinner(buf []byte) (int, error) {
	if len(buf) != 4 {
		return 0, fmt.Errorf("distributed prim: malformed winner payload (%d bytes)", len(buf))
	}
	return int(int32(binary.LittleEndian.Uint32(buf))), nil
}

// candidateLess applies the canonical edge order to the crossing edges two
// candidates represent.
func candidateLess(a, b candidate) bool {
	return edge.Less(edge.New(a.neighbor, a.vertex, a.weight), edge.New(b.neighbor, b.vertex, b.weight))
}

// Prim computes the MST of m by growing a single tree from vertex 0,
// replicating the visited set to every peer by broadcast and reducing each
// iteration's candidate crossing edge by gather-to-root. Only rank 0's
// return value carries the tree.
func Prim(ctx context.Context, t cohort.Transport, m graph.Matrix) ([]edge.Edge, int, error) {
	n := m.N
	p := t.Size()
	rank := t.Rank()
	rowBlock := (n + p - 1) / p
	lo, hi := ownedRange(rank, rowBlock, n)

	visited := make([]bool, n)
	visited[0] = true

	border := make([]borderEntry, hi-lo)
	for y := lo; y < hi; y++ {
		if y == 0 {
			continue
		}
		if w := m.Weight(y, 0); w != 0 {
			border[y-lo] = borderEntry{weight: w, neighbor: 0}
		}
	}

	var tree []edge.Edge
	sum := 0

	for iter := 0; iter < n-1; iter++ {
		best := candidate{vertex: -1}
		for y := lo; y < hi; y++ {
			if visited[y] {
				continue
			}
			b := border[y-lo]
			if b.weight == 0 {
				continue
			}
			c := candidate{vertex: y, neighbor: b.neighbor, weight: b.weight}
			if best.vertex == -1 || candidateLess(c, best) {
				best = c
			}
		}

		gathered, err := t.Gather(ctx, tagPrimCandidate, encodeCandidate(best))
		if err != nil {
			return nil, 0, fmt.Errorf("distributed prim: gather iteration %d: %w", iter, err)
		}

		var winner int
		if rank == 0 {
			globalBest := candidate{vertex: -1}
			for r, payload := range gathered {
				c, err := decodeCandidate(payload)
				if err != nil {
					return nil, 0, fmt.Errorf("distributed prim: decode candidate from rank %d: %w", r, err)
				}
				if c.vertex == -1 {
					continue
				}
				if globalBest.vertex == -1 || candidateLess(c, globalBest) {
					globalBest = c
				}
			}
			if globalBest.vertex == -1 {
				err := appErrors.Precondition(
					fmt.Sprintf("no candidate found at iteration %d, graph is disconnected", iter), nil)
				t.Abort(ctx, err)
				return nil, 0, err
			}
			winner = globalBest.vertex
			tree = append(tree, edge.New(globalBest.neighbor, globalBest.vertex, globalBest.weight))
			sum += globalBest.weight

			logger.L().DebugContext(ctx, "distributed prim: iteration winner",
				"iteration", iter, "winner", winner, "via", globalBest.neighbor, "weight", globalBest.weight)
		}

		winnerMsg, err := t.Broadcast(ctx, tagPrimWinner, encodeWinner(winner))
		if err != nil {
			return nil, 0, fmt.Errorf("distributed prim: broadcast winner iteration %d: %w", iter, err)
		}
		winner, err = decodeWinner(winnerMsg)
		if err != nil {
			return nil, 0, err
		}

		visited[winner] = true
		for y := lo; y < hi; y++ {
			if visited[y] {
				continue
			}
			w := m.Weight(y, winner)
			if w == 0 {
				continue
			}
			cur := border[y-lo]
			if cur.weight == 0 || candidateLess(candidate{vertex: y, neighbor: winner, weight: w}, candidate{vertex: y, neighbor: cur.neighbor, weight: cur.weight}) {
				border[y-lo] = borderEntry{weight: w, neighbor: winner}
			}
		}
	}

	if rank != 0 {
		return nil, 0, nil
	}
	return tree, sum, nil
}
