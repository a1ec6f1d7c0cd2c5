package mvcc

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerwatch/rdfstore/rdfstorelog"
)

// Scheduler is an owned background subsystem (explicit Start/Stop,
// never a process-wide singleton) that, on a fixed tick period, expires
// overdue transactions and drives the delta propagator.
type Scheduler struct {
	coord *Coordinator
	tick  time.Duration
	log   *rdfstorelog.Logger

	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewScheduler creates a scheduler for coord with the given tick period
// (e.g. 50ms). It does not start ticking until Start.
func NewScheduler(coord *Coordinator, tick time.Duration) *Scheduler {
	return &Scheduler{coord: coord, tick: tick, log: rdfstorelog.New("scheduler", "tick", tick)}
}

// Start launches the scheduler's tick loop in a background goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	g, gctx := errgroup.WithContext(ctx)
	s.group = g
	g.Go(func() error {
		return s.run(gctx)
	})
}

// Stop cancels the tick loop and waits for it to exit.
func (s *Scheduler) Stop() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	return s.group.Wait()
}

func (s *Scheduler) run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.tickOnce()
		}
	}
}

func (s *Scheduler) tickOnce() {
	now := time.Now()
	s.coord.txMu.Lock()
	var expired []*Transaction
	for tx := range s.coord.txs {
		if tx.isFinished() {
			continue
		}
		if now.After(tx.deadline) {
			expired = append(expired, tx)
		}
	}
	s.coord.txMu.Unlock()

	for _, tx := range expired {
		s.expire(tx)
	}

	s.coord.propagateOnce()
}

// expire force-terminates an overdue transaction (// Timeouts): a READ transaction's generation pin is released and it
// receives TransactionTimedOut on its next operation; a WRITE
// transaction's working copy is discarded and the writer slot released,
// so commit (if ever called) fails with TransactionTimedOut.
func (s *Scheduler) expire(tx *Transaction) {
	tx.markTimedOut()
	if tx.mode == Write {
		tx.mu.Lock()
		alreadyDone := tx.finished
		tx.mu.Unlock()
		if !alreadyDone {
			s.coord.writerSem.Release(1)
			tx.mu.Lock()
			tx.finished = true
			tx.mu.Unlock()
		}
	}
}
