// Package cohort specifies the messaging substrate contract the
// distributed MST algorithms are written against: rank-of-self,
// size-of-cohort, point-to-point send/recv tagged by destination/source
// and tag, gather-to-root, broadcast-from-root, and collective abort.
// The contract is an interface precisely so the algorithms in
// pkg/mst/distributed can run unmodified over either of this repo's two
// implementations — pkg/cohort/memory (in-process, for tests and
// single-binary runs) or pkg/cohort/natscohort (real cross-process, over
// a NATS server).
package cohort

import "context"

// Transport is the messaging substrate every distributed MST algorithm is
// written against. A Transport instance is peer-local: it knows its own
// rank and the cohort size, and every method call is scoped to that one
// peer's participation in the collective operation.
type Transport interface {
	// Rank returns this peer's rank in [0, Size()).
	Rank() int

	// Size returns the fixed cohort size P.
	Size() int

	// Send delivers payload to the peer at dest, tagged tag. Over
	// pkg/cohort/memory it blocks until the destination has received it
	// (or ctx is done, or the cohort is aborted). Over
	// pkg/cohort/natscohort it returns once the message is flushed to the
	// NATS server and does not wait for the destination to receive it.
	Send(ctx context.Context, dest int, tag int, payload []byte) error

	// Recv blocks until a message tagged tag arrives from source, and
	// returns its payload.
	Recv(ctx context.Context, source int, tag int) ([]byte, error)

	// Gather contributes payload from every peer to rank 0. Every peer in
	// the cohort must call Gather with the same tag for the collective to
	// complete. Only rank 0's return value is meaningful: a slice of
	// length Size(), indexed by rank. Non-root peers get a nil slice.
	Gather(ctx context.Context, tag int, payload []byte) ([][]byte, error)

	// Broadcast fans a value out from rank 0 to every peer. Rank 0 must
	// call Broadcast with the value to send; every other peer must call
	// it with a nil payload (ignored). Every peer's return value is
	// rank 0's payload.
	Broadcast(ctx context.Context, tag int, payload []byte) ([]byte, error)

	// Abort tears down the whole cohort with err as the reason. Every
	// peer blocked in Send/Recv/Gather/Broadcast returns err (or a
	// wrapping of it) once Abort has been observed.
	Abort(ctx context.Context, err error)
}
