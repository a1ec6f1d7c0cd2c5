// Package mvcc layers snapshot-isolated transactions on top of package
// store's building blocks: persistable FastHash generations, a delta
// queue and background propagator replaying commits onto a lagging
// stale mirror, and a transaction coordinator enforcing single-writer
// exclusion and transaction deadlines.
package mvcc

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/semaphore"

	"github.com/ledgerwatch/rdfstore/rdfstorelog"
	"github.com/ledgerwatch/rdfstore/storeconfig"
	"github.com/ledgerwatch/rdfstore/storeerr"
)

// Coordinator is the transaction coordinator: it tracks
// the current active generation, enforces that at most one WRITE
// transaction exists at a time, and owns the delta queues the
// propagator drains.
type Coordinator struct {
	cfg storeconfig.Config
	log *rdfstorelog.Logger

	mu      sync.Mutex
	active  *graph
	nextSeq uint64

	writerSem *semaphore.Weighted

	staleMu sync.Mutex
	stale   *graph

	activeQueue *deltaQueue
	staleQueue  *deltaQueue

	txMu sync.Mutex
	txs  map[*Transaction]struct{}
}

// NewCoordinator creates a coordinator managing an initially empty
// store, configured by cfg.
func NewCoordinator(cfg storeconfig.Config) *Coordinator {
	g0 := emptyGraph(cfg)
	return &Coordinator{
		cfg:         cfg,
		log:         rdfstorelog.New("coordinator"),
		active:      g0,
		nextSeq:     1,
		writerSem:   semaphore.NewWeighted(1),
		stale:       g0,
		activeQueue: &deltaQueue{},
		staleQueue:  &deltaQueue{},
		txs:         make(map[*Transaction]struct{}),
	}
}

func (c *Coordinator) register(tx *Transaction) {
	c.txMu.Lock()
	c.txs[tx] = struct{}{}
	c.txMu.Unlock()
}

func (c *Coordinator) unregister(tx *Transaction) {
	c.txMu.Lock()
	delete(c.txs, tx)
	c.txMu.Unlock()
}

func (c *Coordinator) currentActive() *graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// BeginRead pins the current active generation (begin(READ)).
func (c *Coordinator) BeginRead() *Transaction {
	tx := &Transaction{
		coord:    c,
		mode:     Read,
		pinned:   c.currentActive(),
		deadline: time.Now().Add(c.cfg.ReadTimeout),
	}
	c.register(tx)
	return tx
}

// BeginWrite acquires the writer slot, blocking until it is free or ctx
// is done, then forks a working copy of the active generation. This is
// the only operation that may block.
func (c *Coordinator) BeginWrite(ctx context.Context) (*Transaction, error) {
	if err := c.writerSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return c.newWriteTransaction(), nil
}

// TryBeginWrite acquires the writer slot without blocking, returning
// storeerr.WriterBusy if another WRITE transaction is already active
// (WriterBusy).
func (c *Coordinator) TryBeginWrite() (*Transaction, error) {
	if !c.writerSem.TryAcquire(1) {
		return nil, storeerr.WriterBusy()
	}
	return c.newWriteTransaction(), nil
}

// RetryBeginWrite retries TryBeginWrite with backoff until it succeeds
// or ctx is done, for callers that would rather poll than block on the
// writer semaphore directly.
func (c *Coordinator) RetryBeginWrite(ctx context.Context) (*Transaction, error) {
	var tx *Transaction
	op := func() error {
		t, err := c.TryBeginWrite()
		if err != nil {
			return err
		}
		tx = t
		return nil
	}
	b := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return tx, nil
}

func (c *Coordinator) newWriteTransaction() *Transaction {
	base := c.currentActive()
	tx := &Transaction{
		coord:    c,
		mode:     Write,
		working:  newWorkingGraph(base),
		baseSeq:  base.seq,
		deadline: time.Now().Add(c.cfg.WriteTimeout),
	}
	c.register(tx)
	return tx
}

// commitWrite publishes tx's working copy as the new active generation
// and enqueues its deltas, releasing the writer slot afterward.
func (c *Coordinator) commitWrite(tx *Transaction) {
	defer c.writerSem.Release(1)

	c.mu.Lock()
	seq := c.nextSeq
	c.nextSeq++
	c.active = tx.working.publish(seq)
	size := c.active.size
	c.mu.Unlock()

	c.log.Debug("committed generation", "generation", seq, "size", size, "estimatedFootprint", storeconfig.EstimatedFootprint(size).HumanReadable())

	if len(tx.working.deltas) == 0 {
		return
	}
	deltas := make([]Delta, len(tx.working.deltas))
	for i, d := range tx.working.deltas {
		d.Generation = seq
		deltas[i] = d
	}
	b := batch{generation: seq, deltas: deltas}
	c.activeQueue.push(b)
	c.staleQueue.push(b)
}

// abortWrite discards tx's working copy, releasing the writer slot
// without changing the active generation or enqueueing any delta.
func (c *Coordinator) abortWrite(tx *Transaction) {
	c.writerSem.Release(1)
}

// ActiveGraphDeltaQueueLength is the number of committed batches not yet
// consumed by the propagator (property 7).
func (c *Coordinator) ActiveGraphDeltaQueueLength() int { return c.activeQueue.queueLength() }

// StaleGraphDeltaQueueLength is the number of committed batches the
// propagator has not yet replayed onto the stale graph.
func (c *Coordinator) StaleGraphDeltaQueueLength() int { return c.staleQueue.queueLength() }

// ActiveGraphDeltaChainLength is the total individual-delta count across
// every batch still pending in the active-graph queue.
func (c *Coordinator) ActiveGraphDeltaChainLength() int { return c.activeQueue.chainLength() }

// StaleGraphDeltaChainLength is the total individual-delta count across
// every batch still pending in the stale-graph queue.
func (c *Coordinator) StaleGraphDeltaChainLength() int { return c.staleQueue.chainLength() }

// StaleSize reports the stale graph's current triple count, for tests
// asserting eventual convergence (property 7).
func (c *Coordinator) StaleSize() int {
	c.staleMu.Lock()
	defer c.staleMu.Unlock()
	return c.stale.size
}
