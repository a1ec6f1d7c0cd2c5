package mvcc

import (
	"sync"

	"github.com/ledgerwatch/rdfstore/term"
)

// DeltaKind distinguishes an ADD delta from a REMOVE delta.
type DeltaKind int

const (
	DeltaAdd DeltaKind = iota
	DeltaRemove
)

// Delta is a single (kind, triple) record appended at commit, tagged
// with the generation it belongs to so replay onto the stale graph is
// idempotent ("if the stale graph is already at or past
// that generation, the delta is skipped").
type Delta struct {
	Kind       DeltaKind
	Triple     term.Triple
	Generation uint64
}

// batch is one commit's ordered delta list, the atomic unit a
// deltaQueue enqueues and a propagator cycle drains.
type batch struct {
	generation uint64
	deltas     []Delta
}

// deltaQueue is a FIFO of commit batches: multiple-producer
// (currently only the writer), single-consumer (the background worker),
// atomic enqueue/dequeue. It queues whole commit batches rather than
// individual deltas so a consumer applies (or discards) one commit's
// worth of work atomically.
type deltaQueue struct {
	mu      sync.Mutex
	batches []batch
}

func (q *deltaQueue) push(b batch) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.batches = append(q.batches, b)
}

// drain removes and returns every currently-queued batch, in commit
// (FIFO) order.
func (q *deltaQueue) drain() []batch {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.batches) == 0 {
		return nil
	}
	out := q.batches
	q.batches = nil
	return out
}

// queueLength reports the number of pending commit batches.
func (q *deltaQueue) queueLength() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.batches)
}

// chainLength reports the total number of individual deltas across
// every pending batch — finer-grained than queueLength, which counts
// commits rather than the deltas those commits contain.
func (q *deltaQueue) chainLength() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, b := range q.batches {
		n += len(b.deltas)
	}
	return n
}
