// Package memory is an in-process cohort.Transport backed by unbuffered
// Go channels, one per (operation, source, destination, tag) tuple.
// Unlike a pub/sub broker that fans a published message out to its
// subscribers asynchronously, this hub is a rendezvous: Send blocks until
// the matching Recv (or Gather/Broadcast participant) is ready, so every
// message operation is a synchronization point between the involved
// peers. This is the transport the tests use, and cmd/mstrun uses it
// unless MST_TRANSPORT is set to nats.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/chris-alexander-pop/mst-cohort/pkg/cohort"
)

type operation int

const (
	opPointToPoint operation = iota
	opGather
	opBroadcast
)

type chanKey struct {
	op     operation
	source int
	dest   int
	tag    int
}

// Hub is the shared rendezvous point for one cohort run. Construct one
// Hub per ComputeMST invocation and hand each peer its own *Peer view via
// Peer(rank).
type Hub struct {
	id   string
	size int

	mu       sync.Mutex
	channels map[chanKey]chan []byte

	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewHub creates a Hub for a cohort of size peers. The returned context
// is done once any peer calls Abort on a Transport derived from this hub;
// callers should derive their own per-peer contexts from it.
func NewHub(parent context.Context, size int) (*Hub, context.Context) {
	ctx, cancel := context.WithCancelCause(parent)
	return &Hub{
		id:       uuid.NewString(),
		size:     size,
		channels: make(map[chanKey]chan []byte),
		ctx:      ctx,
		cancel:   cancel,
	}, ctx
}

// Peer returns a cohort.Transport bound to the given rank.
func (h *Hub) Peer(rank int) cohort.Transport {
	return &peer{hub: h, rank: rank}
}

func (h *Hub) getOrCreate(key chanKey) chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[key]
	if !ok {
		ch = make(chan []byte)
		h.channels[key] = ch
	}
	return ch
}

func (h *Hub) abort(err error) {
	h.cancel(err)
}

type peer struct {
	hub  *Hub
	rank int
}

func (p *peer) Rank() int { return p.rank }
func (p *peer) Size() int { return p.hub.size }

func (p *peer) Send(ctx context.Context, dest int, tag int, payload []byte) error {
	return p.send(ctx, opPointToPoint, p.rank, dest, tag, payload)
}

func (p *peer) Recv(ctx context.Context, source int, tag int) ([]byte, error) {
	return p.recv(ctx, opPointToPoint, source, p.rank, tag)
}

func (p *peer) send(ctx context.Context, op operation, source, dest, tag int, payload []byte) error {
	ch := p.hub.getOrCreate(chanKey{op: op, source: source, dest: dest, tag: tag})
	select {
	case ch <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.hub.ctx.Done():
		return context.Cause(p.hub.ctx)
	}
}

func (p *peer) recv(ctx context.Context, op operation, source, dest, tag int) ([]byte, error) {
	ch := p.hub.getOrCreate(chanKey{op: op, source: source, dest: dest, tag: tag})
	select {
	case payload := <-ch:
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.hub.ctx.Done():
		return nil, context.Cause(p.hub.ctx)
	}
}

func (p *peer) Gather(ctx context.Context, tag int, payload []byte) ([][]byte, error) {
	if p.rank != 0 {
		if err := p.send(ctx, opGather, p.rank, 0, tag, payload); err != nil {
			return nil, err
		}
		return nil, nil
	}

	result := make([][]byte, p.hub.size)
	result[0] = payload
	for r := 1; r < p.hub.size; r++ {
		got, err := p.recv(ctx, opGather, r, 0, tag)
		if err != nil {
			return nil, fmt.Errorf("gather: waiting on rank %d: %w", r, err)
		}
		result[r] = got
	}
	return result, nil
}

func (p *peer) Broadcast(ctx context.Context, tag int, payload []byte) ([]byte, error) {
	if p.rank == 0 {
		for r := 1; r < p.hub.size; r++ {
			if err := p.send(ctx, opBroadcast, 0, r, tag, payload); err != nil {
				return nil, fmt.Errorf("broadcast: delivering to rank %d: %w", r, err)
			}
		}
		return payload, nil
	}
	return p.recv(ctx, opBroadcast, 0, p.rank, tag)
}

func (p *peer) Abort(ctx context.Context, err error) {
	p.hub.abort(fmt.Errorf("cohort aborted by rank %d: %w", p.rank, err))
}
