package mvcc

import (
	"iter"
	"sync"
	"time"

	"github.com/ledgerwatch/rdfstore/storeerr"
	"github.com/ledgerwatch/rdfstore/term"
)

// Mode is a transaction's access mode.
type Mode int

const (
	Read Mode = iota
	Write
)

func (m Mode) String() string {
	if m == Write {
		return "WRITE"
	}
	return "READ"
}

// Transaction is a single READ or WRITE transaction handle.
type Transaction struct {
	coord    *Coordinator
	mode     Mode
	deadline time.Time

	pinned  *graph        // READ: the generation this transaction sees
	working *workingGraph // WRITE: the isolated copy this transaction mutates
	baseSeq uint64        // WRITE: the generation working was forked from

	mu       sync.Mutex
	timedOut bool
	finished bool
}

// Mode reports whether this is a READ or WRITE transaction.
func (tx *Transaction) Mode() Mode { return tx.mode }

// checkAlive fails the calling operation if the coordinator's scheduler
// has already timed this transaction out, or if it was already
// committed, aborted, or ended.
func (tx *Transaction) checkAlive() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.timedOut {
		return storeerr.TimedOut()
	}
	if tx.finished {
		return storeerr.TransactionState("transaction already committed, aborted, or ended")
	}
	return nil
}

// markTimedOut is called only by the coordinator's scheduler.
func (tx *Transaction) markTimedOut() {
	tx.mu.Lock()
	tx.timedOut = true
	tx.mu.Unlock()
}

func (tx *Transaction) isFinished() bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.finished
}

// Add inserts t. Valid only on a WRITE transaction.
func (tx *Transaction) Add(t term.Triple) (bool, error) {
	if tx.mode != Write {
		return false, storeerr.TransactionState("add requires a WRITE transaction")
	}
	if err := tx.checkAlive(); err != nil {
		return false, err
	}
	return tx.working.Add(t), nil
}

// Remove deletes t. Valid only on a WRITE transaction.
func (tx *Transaction) Remove(t term.Triple) (bool, error) {
	if tx.mode != Write {
		return false, storeerr.TransactionState("remove requires a WRITE transaction")
	}
	if err := tx.checkAlive(); err != nil {
		return false, err
	}
	return tx.working.Remove(t), nil
}

// Contains reports whether any triple visible to this transaction
// satisfies m: the pinned generation for READ, or the in-progress
// working copy (including this transaction's own uncommitted writes)
// for WRITE.
func (tx *Transaction) Contains(m term.Match) (bool, error) {
	if err := tx.checkAlive(); err != nil {
		return false, err
	}
	if tx.mode == Write {
		return tx.working.Contains(m), nil
	}
	return tx.pinned.Contains(m), nil
}

// Size reports the triple count visible to this transaction.
func (tx *Transaction) Size() (int, error) {
	if err := tx.checkAlive(); err != nil {
		return 0, err
	}
	if tx.mode == Write {
		return tx.working.Size(), nil
	}
	return tx.pinned.Size(), nil
}

// Stream returns a lazy sequence over every visible triple matching m.
func (tx *Transaction) Stream(m term.Match) (iter.Seq[term.Triple], error) {
	if err := tx.checkAlive(); err != nil {
		return nil, err
	}
	if tx.mode == Write {
		return tx.working.Stream(m), nil
	}
	return tx.pinned.Stream(m), nil
}

// Commit publishes a WRITE transaction's working copy as the new active
// generation and enqueues its deltas for propagation to the stale graph
// (commit). Invalid on a READ transaction.
func (tx *Transaction) Commit() error {
	if tx.mode != Write {
		return storeerr.TransactionState("commit requires a WRITE transaction")
	}
	if err := tx.checkAlive(); err != nil {
		return err
	}
	tx.coord.commitWrite(tx)
	tx.mu.Lock()
	tx.finished = true
	tx.mu.Unlock()
	return nil
}

// Abort discards a WRITE transaction's working copy; the active
// generation is left unchanged and no deltas are enqueued.
func (tx *Transaction) Abort() error {
	if tx.mode != Write {
		return storeerr.TransactionState("abort requires a WRITE transaction")
	}
	tx.mu.Lock()
	if tx.finished {
		tx.mu.Unlock()
		return nil
	}
	tx.finished = true
	tx.mu.Unlock()
	tx.coord.abortWrite(tx)
	return nil
}

// End releases a READ transaction's generation pin. Calling End on a
// WRITE transaction that was never committed or aborted is a contract
// violation.
func (tx *Transaction) End() error {
	if tx.mode == Write {
		if !tx.isFinished() {
			return storeerr.ContractViolation("End called on a WRITE transaction that was never committed or aborted")
		}
		tx.coord.unregister(tx)
		return nil
	}
	tx.mu.Lock()
	tx.finished = true
	tx.mu.Unlock()
	tx.coord.unregister(tx)
	return nil
}
