// Package orchestrator dispatches an algorithm name onto one of the four
// MST implementations, validating peer-count preconditions first: one
// exported entry point, one switch on algorithm, errors escalated through
// pkg/errors and the cohort's collective abort rather than returned raw.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/chris-alexander-pop/mst-cohort/pkg/cohort"
	appErrors "github.com/chris-alexander-pop/mst-cohort/pkg/errors"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/distributed"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/graph"
	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/sequential"
)

// Algorithm names accepted by ComputeMST.
const (
	PrimSeq    = "prim-seq"
	KruskalSeq = "kruskal-seq"
	PrimPar    = "prim-par"
	KruskalPar = "kruskal-par"
)

// ComputeMST validates (n, adj) as a well-formed adjacency matrix,
// dispatches to the algorithm named, and returns rank 0's resulting tree
// and weight sum. Every other peer gets a nil tree and a zero sum. Any
// fatal precondition violation is reported as an *errors.AppError and also
// escalated to the cohort's collective abort, so every peer blocked in a
// Transport call unblocks with an error rather than hanging.
func ComputeMST(ctx context.Context, n int, adj []int, algorithm string, transport cohort.Transport) ([]edge.Edge, int, error) {
	m := graph.New(n, adj)
	if err := m.Validate(); err != nil {
		appErr := appErrors.InvalidArgument("invalid adjacency matrix", err)
		transport.Abort(ctx, appErr)
		return nil, 0, appErr
	}

	isSequential := algorithm == PrimSeq || algorithm == KruskalSeq
	if isSequential && transport.Size() != 1 {
		appErr := appErrors.InvalidArgument(
			fmt.Sprintf("algorithm %q requires exactly one peer, got %d", algorithm, transport.Size()), nil)
		transport.Abort(ctx, appErr)
		return nil, 0, appErr
	}

	switch algorithm {
	case PrimSeq:
		tree, sum := sequential.Prim(m)
		return tree, sum, nil
	case KruskalSeq:
		tree, sum := sequential.Kruskal(m)
		return tree, sum, nil
	case PrimPar:
		return distributed.Prim(ctx, transport, m)
	case KruskalPar:
		return distributed.Kruskal(ctx, transport, m)
	default:
		appErr := appErrors.InvalidArgument(fmt.Sprintf("unknown algorithm %q", algorithm), nil)
		transport.Abort(ctx, appErr)
		return nil, 0, appErr
	}
}
