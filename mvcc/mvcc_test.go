package mvcc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ledgerwatch/rdfstore/storeconfig"
	"github.com/ledgerwatch/rdfstore/storeerr"
	"github.com/ledgerwatch/rdfstore/term"
)

func triple(s, p, o string) term.Triple {
	return term.New(term.IRI(s), term.IRI(p), term.IRI(o))
}

func testConfig() storeconfig.Config {
	cfg := storeconfig.Default()
	cfg.WriteTimeout = 200 * time.Millisecond
	cfg.ReadTimeout = 200 * time.Millisecond
	return cfg
}

// TestReaderNeverSeesWritesCommittedAfterItBegan checks the ordering
// guarantee that a READ transaction pinned before a WRITE commits must
// never observe that write, even if the write finishes mid-read.
func TestReaderNeverSeesWritesCommittedAfterItBegan(t *testing.T) {
	coord := NewCoordinator(testConfig())
	reader := coord.BeginRead()
	defer reader.End()

	writer, err := coord.BeginWrite(context.Background())
	if err != nil {
		t.Fatalf("BeginWrite: %v", err)
	}
	tr := triple("urn:s", "urn:p", "urn:o")
	if _, err := writer.Add(tr); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := writer.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	seen, err := reader.Contains(term.Match{Subject: term.ANY, Predicate: term.ANY, Object: term.ANY})
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if seen {
		t.Fatalf("expected a reader pinned before commit not to observe the new triple")
	}

	fresh := coord.BeginRead()
	defer fresh.End()
	seen, err = fresh.Contains(term.Match{Subject: term.ANY, Predicate: term.ANY, Object: term.ANY})
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !seen {
		t.Fatalf("expected a reader begun after commit to observe the new triple")
	}
}

func TestWriteTransactionSeesItsOwnUncommittedWrites(t *testing.T) {
	coord := NewCoordinator(testConfig())
	writer, err := coord.BeginWrite(context.Background())
	if err != nil {
		t.Fatalf("BeginWrite: %v", err)
	}
	tr := triple("urn:s", "urn:p", "urn:o")
	if _, err := writer.Add(tr); err != nil {
		t.Fatalf("Add: %v", err)
	}
	seen, err := writer.Contains(term.Match{Subject: term.ANY, Predicate: term.ANY, Object: term.ANY})
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !seen {
		t.Fatalf("expected a write transaction to see its own uncommitted write")
	}
	if err := writer.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
}

func TestSecondWriterBlockedUntilFirstCommits(t *testing.T) {
	coord := NewCoordinator(testConfig())
	first, err := coord.BeginWrite(context.Background())
	if err != nil {
		t.Fatalf("BeginWrite: %v", err)
	}
	if _, err := coord.TryBeginWrite(); !errors.Is(err, storeerr.ErrWriterBusy) {
		t.Fatalf("expected WriterBusy, got %v", err)
	}
	if err := first.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	second, err := coord.TryBeginWrite()
	if err != nil {
		t.Fatalf("expected writer slot free after commit, got %v", err)
	}
	if err := second.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
}

// TestEndUnfinishedWriteIsContractViolation checks that ending a
// WRITE transaction that was never committed or aborted is a fatal
// programmer error.
func TestEndUnfinishedWriteIsContractViolation(t *testing.T) {
	coord := NewCoordinator(testConfig())
	writer, err := coord.BeginWrite(context.Background())
	if err != nil {
		t.Fatalf("BeginWrite: %v", err)
	}
	if err := writer.End(); !errors.Is(err, storeerr.ErrContractViolation) {
		t.Fatalf("expected ContractViolation, got %v", err)
	}
	_ = writer.Abort()
}

func TestAbortIsIdempotent(t *testing.T) {
	coord := NewCoordinator(testConfig())
	writer, err := coord.BeginWrite(context.Background())
	if err != nil {
		t.Fatalf("BeginWrite: %v", err)
	}
	if err := writer.Abort(); err != nil {
		t.Fatalf("first Abort: %v", err)
	}
	if err := writer.Abort(); err != nil {
		t.Fatalf("second Abort should be a no-op, got: %v", err)
	}
	// the writer slot must have been released exactly once
	tx, err := coord.TryBeginWrite()
	if err != nil {
		t.Fatalf("expected writer slot to be free, got %v", err)
	}
	_ = tx.Abort()
}

// TestExpiredWriteCannotCommit checks that a WRITE transaction whose
// deadline the scheduler has passed fails on its next operation.
func TestExpiredWriteCannotCommit(t *testing.T) {
	coord := NewCoordinator(testConfig())
	sched := NewScheduler(coord, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Start(ctx)
	defer sched.Stop()

	writer, err := coord.BeginWrite(context.Background())
	if err != nil {
		t.Fatalf("BeginWrite: %v", err)
	}
	time.Sleep(testConfig().WriteTimeout + 100*time.Millisecond)

	_, err = writer.Add(triple("urn:s", "urn:p", "urn:o"))
	if !errors.Is(err, storeerr.ErrTransactionTimedOut) {
		t.Fatalf("expected TransactionTimedOut, got %v", err)
	}
	if err := writer.Commit(); !errors.Is(err, storeerr.ErrTransactionTimedOut) {
		t.Fatalf("expected Commit to fail with TransactionTimedOut, got %v", err)
	}

	// the writer slot must have been released by expiry so a new writer
	// can proceed
	second, err := coord.TryBeginWrite()
	if err != nil {
		t.Fatalf("expected writer slot to be free after expiry, got %v", err)
	}
	_ = second.Abort()
}

// TestPropagatorConvergesStaleGraph is property 7: after a
// commit and enough propagator cycles, the stale graph's content
// matches the active graph's.
func TestPropagatorConvergesStaleGraph(t *testing.T) {
	coord := NewCoordinator(testConfig())
	writer, err := coord.BeginWrite(context.Background())
	if err != nil {
		t.Fatalf("BeginWrite: %v", err)
	}
	tr := triple("urn:s", "urn:p", "urn:o")
	if _, err := writer.Add(tr); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := writer.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if coord.ActiveGraphDeltaQueueLength() != 1 {
		t.Fatalf("expected one pending batch in the active queue, got %d", coord.ActiveGraphDeltaQueueLength())
	}
	if coord.StaleGraphDeltaChainLength() != 1 {
		t.Fatalf("expected one pending delta in the stale queue, got %d", coord.StaleGraphDeltaChainLength())
	}

	coord.propagateOnce()

	if coord.StaleSize() != 1 {
		t.Fatalf("expected stale graph to converge to size 1, got %d", coord.StaleSize())
	}
	if coord.ActiveGraphDeltaQueueLength() != 0 {
		t.Fatalf("expected active queue to drain to 0, got %d", coord.ActiveGraphDeltaQueueLength())
	}
	if coord.StaleGraphDeltaQueueLength() != 0 {
		t.Fatalf("expected stale queue to drain to 0, got %d", coord.StaleGraphDeltaQueueLength())
	}
}

func TestWriteOperationsRejectedOnReadTransaction(t *testing.T) {
	coord := NewCoordinator(testConfig())
	reader := coord.BeginRead()
	defer reader.End()
	if _, err := reader.Add(triple("urn:s", "urn:p", "urn:o")); !errors.Is(err, storeerr.ErrTransactionState) {
		t.Fatalf("expected TransactionState error on Add against a READ transaction, got %v", err)
	}
}
