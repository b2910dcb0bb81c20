// Package natscohort is a real, cross-process cohort.Transport over NATS
// core pub/sub. Unlike pkg/cohort/memory's in-process rendezvous
// channels, this is fire-and-forget pub/sub underneath: each peer
// maintains one long-lived subscription per message class (point-to-point
// inbox, gather inbox, broadcast inbox, abort) and demultiplexes incoming
// messages into per-(source, tag) buffered channels.
//
// Bootstrapping — how P OS processes agree on a runID, rank, and NATS
// URL — is the launcher's job, not this package's; New assumes that has
// already happened. Every peer must subscribe (via New) before any peer
// sends, the way an MPI launcher brings up all ranks before the
// computation begins.
package natscohort

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/chris-alexander-pop/mst-cohort/pkg/cohort"
)

// Config configures a NATS-backed cohort transport.
type Config struct {
	URL        string `env:"NATS_URL" env-default:"nats://localhost:4222"`
	InboxDepth int    `env:"NATS_COHORT_INBOX_DEPTH" env-default:"64"`
}

type inboxKey struct {
	source int
	tag    int
}

// Transport is one peer's view of a NATS-backed cohort. The zero value
// is not usable; construct with New.
type Transport struct {
	nc    *nats.Conn
	runID string
	rank  int
	size  int
	depth int

	mu      sync.Mutex
	inboxes map[inboxKey]chan []byte
	bcasts  map[int]chan []byte

	subs []*nats.Subscription

	ctx    context.Context
	cancel context.CancelCauseFunc
}

// New connects to NATS and subscribes this peer to every message class it
// may receive for the given run. runID scopes subjects to one cohort run
// so concurrent ComputeMST calls against the same NATS server don't
// cross-talk.
func New(ctx context.Context, cfg Config, runID string, rank, size int) (*Transport, error) {
	if cfg.InboxDepth <= 0 {
		cfg.InboxDepth = 64
	}

	// NoEcho: rank 0 both publishes and subscribes to the broadcast
	// subject. Without it rank 0 receives its own message back and
	// handleBroadcast's buffered channel fills and blocks once a later
	// round reuses the same tag.
	nc, err := nats.Connect(cfg.URL, nats.Name(fmt.Sprintf("mst-cohort-rank-%d", rank)), nats.NoEcho())
	if err != nil {
		return nil, fmt.Errorf("natscohort: connect: %w", err)
	}

	runCtx, cancel := context.WithCancelCause(ctx)
	t := &Transport{
		nc:      nc,
		runID:   runID,
		rank:    rank,
		size:    size,
		depth:   cfg.InboxDepth,
		inboxes: make(map[inboxKey]chan []byte),
		bcasts:  make(map[int]chan []byte),
		ctx:     runCtx,
		cancel:  cancel,
	}

	p2pSub, err := nc.Subscribe(t.subject("p2p", "*", rank, "*"), t.handleP2P)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("natscohort: subscribe p2p: %w", err)
	}
	bcastSub, err := nc.Subscribe(t.subjectNoField("bcast", "*"), t.handleBroadcast)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("natscohort: subscribe bcast: %w", err)
	}
	abortSub, err := nc.Subscribe(t.subjectNoField("abort", ""), t.handleAbort)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("natscohort: subscribe abort: %w", err)
	}
	t.subs = append(t.subs, p2pSub, bcastSub, abortSub)

	if rank == 0 {
		gatherSub, err := nc.Subscribe(t.subject("gather", "*", 0, "*"), t.handleGather)
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("natscohort: subscribe gather: %w", err)
		}
		t.subs = append(t.subs, gatherSub)
	}

	return t, nil
}

// Close unsubscribes and closes the underlying NATS connection.
func (t *Transport) Close() {
	for _, s := range t.subs {
		_ = s.Unsubscribe()
	}
	t.nc.Close()
}

func (t *Transport) subject(class string, source any, dest int, tag any) string {
	return fmt.Sprintf("cohort.%s.%s.%v.%d.%v", t.runID, class, source, dest, tag)
}

func (t *Transport) subjectNoField(class string, field any) string {
	return fmt.Sprintf("cohort.%s.%s.%v", t.runID, class, field)
}

func (t *Transport) Rank() int { return t.rank }
func (t *Transport) Size() int { return t.size }

func (t *Transport) handleP2P(msg *nats.Msg) {
	var source, dest, tag int
	if _, err := fmt.Sscanf(msg.Subject, "cohort."+t.runID+".p2p.%d.%d.%d", &source, &dest, &tag); err != nil {
		return
	}
	t.deliver(t.inboxKey(source, tag), msg.Data)
}

func (t *Transport) handleGather(msg *nats.Msg) {
	var source, dest, tag int
	if _, err := fmt.Sscanf(msg.Subject, "cohort."+t.runID+".gather.%d.%d.%d", &source, &dest, &tag); err != nil {
		return
	}
	t.deliver(t.inboxKey(source, tag), msg.Data)
}

func (t *Transport) handleBroadcast(msg *nats.Msg) {
	var tag int
	if _, err := fmt.Sscanf(msg.Subject, "cohort."+t.runID+".bcast.%d", &tag); err != nil {
		return
	}
	t.mu.Lock()
	ch, ok := t.bcasts[tag]
	if !ok {
		ch = make(chan []byte, 1)
		t.bcasts[tag] = ch
	}
	t.mu.Unlock()
	ch <- msg.Data
}

func (t *Transport) handleAbort(msg *nats.Msg) {
	t.cancel(fmt.Errorf("natscohort: remote abort: %s", string(msg.Data)))
}

func (t *Transport) inboxKey(source, tag int) inboxKey { return inboxKey{source: source, tag: tag} }

func (t *Transport) deliver(key inboxKey, data []byte) {
	t.mu.Lock()
	ch, ok := t.inboxes[key]
	if !ok {
		ch = make(chan []byte, t.depth)
		t.inboxes[key] = ch
	}
	t.mu.Unlock()
	ch <- data
}

func (t *Transport) getInbox(key inboxKey) chan []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.inboxes[key]
	if !ok {
		ch = make(chan []byte, t.depth)
		t.inboxes[key] = ch
	}
	return ch
}

func (t *Transport) Send(ctx context.Context, dest int, tag int, payload []byte) error {
	if err := t.nc.Publish(t.subject("p2p", t.rank, dest, tag), payload); err != nil {
		return fmt.Errorf("natscohort: publish p2p: %w", err)
	}
	return t.nc.FlushWithContext(ctx)
}

func (t *Transport) Recv(ctx context.Context, source int, tag int) ([]byte, error) {
	ch := t.getInbox(t.inboxKey(source, tag))
	select {
	case data := <-ch:
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.ctx.Done():
		return nil, context.Cause(t.ctx)
	}
}

func (t *Transport) Gather(ctx context.Context, tag int, payload []byte) ([][]byte, error) {
	if t.rank != 0 {
		subject := t.subject("gather", t.rank, 0, tag)
		if err := t.nc.Publish(subject, payload); err != nil {
			return nil, fmt.Errorf("natscohort: publish gather: %w", err)
		}
		return nil, t.nc.FlushWithContext(ctx)
	}

	result := make([][]byte, t.size)
	result[0] = payload
	for r := 1; r < t.size; r++ {
		ch := t.getInbox(t.inboxKey(r, tag))
		select {
		case data := <-ch:
			result[r] = data
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.ctx.Done():
			return nil, context.Cause(t.ctx)
		}
	}
	return result, nil
}

func (t *Transport) Broadcast(ctx context.Context, tag int, payload []byte) ([]byte, error) {
	if t.rank == 0 {
		subject := t.subjectNoField("bcast", tag)
		if err := t.nc.Publish(subject, payload); err != nil {
			return nil, fmt.Errorf("natscohort: publish bcast: %w", err)
		}
		return payload, t.nc.FlushWithContext(ctx)
	}

	t.mu.Lock()
	ch, ok := t.bcasts[tag]
	if !ok {
		ch = make(chan []byte, 1)
		t.bcasts[tag] = ch
	}
	t.mu.Unlock()

	select {
	case data := <-ch:
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.ctx.Done():
		return nil, context.Cause(t.ctx)
	}
}

func (t *Transport) Abort(ctx context.Context, err error) {
	_ = t.nc.Publish(t.subjectNoField("abort", ""), []byte(err.Error()))
	_ = t.nc.FlushWithContext(ctx)
	t.cancel(err)
}

var _ cohort.Transport = (*Transport)(nil)
