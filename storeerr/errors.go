// Package storeerr defines the error kinds exchanged across the
// store, mvcc, and cmd package boundaries.
package storeerr

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel kinds. Use errors.Is to test for a specific kind after a
// wrapped error crosses a function boundary.
var (
	// ErrContractViolation marks a fatal programmer error. It is returned
	// by End() called on a WRITE transaction that was never committed or
	// aborted. Other contract breaches are not reported through it:
	// AddUnchecked on a key already present and RemoveUnchecked on a key
	// not present are not detected at runtime, and snapshots expose no
	// mutating methods at all. These indicate a bug in the caller; there
	// is no recovery.
	ErrContractViolation = errors.New("contract violation")

	// ErrTransactionState marks an operation invalid for the calling
	// transaction's current state: add/remove/size outside a
	// transaction in MVCC mode, or Commit on a READ transaction. Store
	// state is left unchanged.
	ErrTransactionState = errors.New("invalid transaction state")

	// ErrTransactionTimedOut marks a transaction the coordinator force-
	// terminated after its deadline passed.
	ErrTransactionTimedOut = errors.New("transaction timed out")

	// ErrWriterBusy marks a non-blocking BeginWrite call that found
	// another WRITE transaction already active. Transient; the caller
	// may retry.
	ErrWriterBusy = errors.New("writer busy")
)

// ContractViolation wraps ErrContractViolation with a stack trace (via
// github.com/pkg/errors), since by definition it "should never happen"
// and the stack is the only postmortem aid available once it has.
// Other kinds use plain fmt.Errorf wrapping elsewhere in this module;
// this is the one place a stack trace earns its cost.
func ContractViolation(msg string) error {
	return pkgerrors.WithStack(fmt.Errorf("%w: %s", ErrContractViolation, msg))
}

// TransactionState reports a TransactionStateError for msg.
func TransactionState(msg string) error {
	return fmt.Errorf("%w: %s", ErrTransactionState, msg)
}

// TimedOut reports a TransactionTimedOut error.
func TimedOut() error {
	return ErrTransactionTimedOut
}

// WriterBusy reports a WriterBusy error.
func WriterBusy() error {
	return ErrWriterBusy
}
