// Package store implements an in-memory indexed triple store: three
// bunch maps keyed by subject, predicate, and object respectively, a
// pattern-driven query planner (internal/classify), and a
// remove-capable restartable iterator.
//
// Store itself is not safe for concurrent use; callers needing
// snapshot isolation and concurrent readers/writers should go through
// package mvcc instead, which layers that on top of the same bunch and
// classify building blocks.
package store

import (
	"github.com/ledgerwatch/rdfstore/internal/bunch"
	"github.com/ledgerwatch/rdfstore/internal/classify"
	"github.com/ledgerwatch/rdfstore/rdfstorelog"
	"github.com/ledgerwatch/rdfstore/storeconfig"
	"github.com/ledgerwatch/rdfstore/term"
)

// Store is the indexed triple store.
type Store struct {
	cfg         storeconfig.Config
	bySubject   *bunchMap
	byPredicate *bunchMap
	byObject    *bunchMap
	size        int
	log         *rdfstorelog.Logger
}

// New creates an empty store configured by cfg.
func New(cfg storeconfig.Config) *Store {
	return &Store{
		cfg:         cfg,
		bySubject:   newBunchMap(bunch.PinnedSubject, cfg.SubjectBunchThreshold),
		byPredicate: newBunchMap(bunch.PinnedPredicate, cfg.PredicateOrObjectBunchThreshold),
		byObject:    newBunchMap(bunch.PinnedObject, cfg.PredicateOrObjectBunchThreshold),
		log:         rdfstorelog.New("store"),
	}
}

// Add inserts t, returning false if it was already present. The subject
// index is the source of truth for the duplicate check; the predicate
// and object indices are updated unconditionally once the subject index
// has confirmed t is new (Add).
func (s *Store) Add(t term.Triple) bool {
	if !s.bySubject.add(t.Subject, t) {
		return false
	}
	s.byPredicate.addUnchecked(t.Predicate, t)
	s.byObject.addUnchecked(t.Object, t)
	s.size++
	return true
}

// Remove deletes t, returning false if it was not present.
func (s *Store) Remove(t term.Triple) bool {
	if !s.bySubject.tryRemove(t.Subject, t) {
		return false
	}
	s.byPredicate.removeUnchecked(t.Predicate, t)
	s.byObject.removeUnchecked(t.Object, t)
	s.size--
	return true
}

// Contains reports whether any stored triple satisfies m.
func (s *Store) Contains(m term.Match) bool {
	return classify.ContainsMatch[*bunchMap](s.bySubject, s.byPredicate, s.byObject, s.cfg.PivotThreshold, m)
}

func (s *Store) Size() int     { return s.size }
func (s *Store) IsEmpty() bool { return s.size == 0 }

// Clear empties the store.
func (s *Store) Clear() {
	s.bySubject.clear()
	s.byPredicate.clear()
	s.byObject.clear()
	s.size = 0
}

// each walks every triple matching m via the pattern classifier,
// calling fn until it returns false or the match is exhausted.
func (s *Store) each(m term.Match, fn func(term.Triple) bool) {
	classify.Dispatch[*bunchMap](s.bySubject, s.byPredicate, s.byObject, s.cfg.PivotThreshold, m, fn)
}
