package mvcc

// propagateOnce drains every currently-queued commit batch from the
// stale-graph queue and replays it onto the stale graph in commit
// order, publishing one new stale generation per cycle. The worker
// holds the stale graph's write lock for the duration of one whole
// drained cycle.
//
// The active-graph queue is drained in lockstep in the same cycle.
// This module does not implement an optional replica-catch-up
// consumer: a freshly-forked background replica could in principle
// catch up by replaying a suffix of deltas from the active-graph
// queue, but absent such a consumer its queue is pure bookkeeping, so
// it is safe to retire alongside the stale queue rather than
// accumulate forever. A real second consumer would instead drain it
// independently, at its own pace.
func (c *Coordinator) propagateOnce() {
	batches := c.staleQueue.drain()
	c.activeQueue.drain()
	if len(batches) == 0 {
		return
	}

	c.staleMu.Lock()
	defer c.staleMu.Unlock()

	baseSeq := c.stale.seq
	working := newWorkingGraph(c.stale)
	lastSeq := baseSeq
	for _, b := range batches {
		if b.generation <= baseSeq {
			continue // idempotent: already at or past this generation
		}
		for _, d := range b.deltas {
			switch d.Kind {
			case DeltaAdd:
				working.Add(d.Triple)
			case DeltaRemove:
				working.Remove(d.Triple)
			}
		}
		lastSeq = b.generation
	}
	c.stale = working.publish(lastSeq)
}
