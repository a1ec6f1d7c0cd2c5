package store

import (
	"iter"

	"github.com/ledgerwatch/rdfstore/term"
)

// Stream returns a lazy sequence of every triple matching m, suitable
// for a range-over-func loop:
//
//	for t := range store.Stream(m) { ... }
func (s *Store) Stream(m term.Match) iter.Seq[term.Triple] {
	return func(yield func(term.Triple) bool) {
		s.each(m, yield)
	}
}

// Find returns a restartable, remove-capable cursor over every triple
// matching m. Each call to Find produces an independent cursor starting
// from the store's current contents.
func (s *Store) Find(m term.Match) *Cursor {
	next, stop := iter.Pull(s.Stream(m))
	return &Cursor{store: s, next: next, stop: stop}
}

// Cursor walks the results of a Find call and optionally deletes the
// triple it is currently positioned on.
//
// Removing through a Cursor is supported by materializing every
// remaining (not yet visited) match into a snapshot slice the first
// time Remove is called, then delegating all further iteration to that
// snapshot — this is what lets Remove safely mutate the store's bunches
// mid-walk without corrupting the in-flight traversal still reading
// from them.
type Cursor struct {
	store *Store
	match term.Match

	next func() (term.Triple, bool)
	stop func()

	snapshot     []term.Triple
	pos          int
	snapshotting bool

	cur  term.Triple
	have bool
}

// Advance moves the cursor to the next matching triple, returning false
// once exhausted.
func (c *Cursor) Advance() bool {
	if c.snapshotting {
		if c.pos >= len(c.snapshot) {
			c.have = false
			return false
		}
		c.cur = c.snapshot[c.pos]
		c.pos++
		c.have = true
		return true
	}
	t, ok := c.next()
	if !ok {
		c.have = false
		return false
	}
	c.cur = t
	c.have = true
	return true
}

// Triple returns the triple the cursor is currently positioned on. It
// must only be called after Advance returned true.
func (c *Cursor) Triple() term.Triple { return c.cur }

// Remove deletes the triple the cursor is currently positioned on. On
// its first call it drains and materializes every not-yet-visited match
// so the live traversal this cursor was driving is safely finished
// before any store mutation happens.
func (c *Cursor) Remove() bool {
	if !c.have {
		return false
	}
	victim := c.cur
	if !c.snapshotting {
		var rest []term.Triple
		for {
			t, ok := c.next()
			if !ok {
				break
			}
			rest = append(rest, t)
		}
		c.stop()
		c.snapshot = rest
		c.pos = 0
		c.snapshotting = true
	}
	ok := c.store.Remove(victim)
	c.have = false
	return ok
}

// Close releases resources held by the cursor. Safe to call multiple
// times and after exhaustion; not needed if the cursor is driven to
// exhaustion via Advance.
func (c *Cursor) Close() {
	if !c.snapshotting && c.stop != nil {
		c.stop()
	}
}
