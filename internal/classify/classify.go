// Package classify holds the pattern classifier and query planner:
// given a Match, decide which of the eight SPO pattern classes it
// falls into and walk the cheapest available
// bunch index for it. It is generic over the bunch-index type so the
// exact same dispatch logic serves both the plain, in-place-mutating
// store (package store) and the frozen, read-only generations the mvcc
// package hands out — there is only one query planner, not one per
// storage shape.
package classify

import (
	"github.com/ledgerwatch/rdfstore/internal/bunch"
	"github.com/ledgerwatch/rdfstore/term"
)

// Index is a read-only view onto one of the three bunch maps (by
// subject, by predicate, or by object).
type Index interface {
	Get(key term.Node) (*bunch.Holder, bool)
	Each(fn func(key term.Node, h *bunch.Holder) bool)
}

// ContainsExact reports whether t is a member of the store, via an O(1)
// lookup in the subject index followed by a bunch membership test — the
// fully-concrete SPO class never needs the classifier's branching.
func ContainsExact[I Index](subjectIndex I, t term.Triple) bool {
	h, ok := subjectIndex.Get(t.Subject)
	return ok && h.Contains(t)
}

// ContainsMatch reports whether any stored triple satisfies m. For a
// fully-concrete m this is the O(1) SPO lookup; for a partial pattern it
// walks the cheapest index and stops at the first match.
func ContainsMatch[I Index](subjectIndex, predicateIndex, objectIndex I, pivotThreshold int, m term.Match) bool {
	found := false
	Dispatch[I](subjectIndex, predicateIndex, objectIndex, pivotThreshold, m, func(term.Triple) bool {
		found = true
		return false
	})
	return found
}

// Dispatch walks every triple matching m, calling fn for each until fn
// returns false or the match is exhausted. pivotThreshold is
// storeconfig.Config.PivotThreshold (THRESHOLD_FOR_SECONDARY_LOOKUP).
func Dispatch[I Index](subjectIndex, predicateIndex, objectIndex I, pivotThreshold int, m term.Match, fn func(term.Triple) bool) {
	sc, pc, oc := m.Subject.IsConcrete(), m.Predicate.IsConcrete(), m.Object.IsConcrete()

	switch {
	case sc && pc && oc: // SPO
		t := m.AsTriple()
		if ContainsExact(subjectIndex, t) {
			fn(t)
		}

	case sc && pc && !oc: // SP?
		h, ok := subjectIndex.Get(m.Subject)
		if !ok {
			return
		}
		h.Each(func(t term.Triple) bool {
			if !t.Predicate.Equals(m.Predicate) {
				return true
			}
			return fn(t)
		})

	case sc && !pc && oc: // S?O
		h, ok := subjectIndex.Get(m.Subject)
		if !ok {
			return
		}
		h.Each(func(t term.Triple) bool {
			if !t.Object.Equals(m.Object) {
				return true
			}
			return fn(t)
		})

	case sc && !pc && !oc: // S??
		h, ok := subjectIndex.Get(m.Subject)
		if !ok {
			return
		}
		h.Each(fn)

	case !sc && pc && oc: // ?PO, pivots onto the predicate index above threshold
		dispatchPivot(predicateIndex, objectIndex, pivotThreshold, m, fn)

	case !sc && pc && !oc: // ?P?
		h, ok := predicateIndex.Get(m.Predicate)
		if !ok {
			return
		}
		h.Each(fn)

	case !sc && !pc && oc: // ??O
		h, ok := objectIndex.Get(m.Object)
		if !ok {
			return
		}
		h.Each(fn)

	default: // ???
		cont := true
		subjectIndex.Each(func(_ term.Node, h *bunch.Holder) bool {
			h.Each(func(t term.Triple) bool {
				cont = fn(t)
				return cont
			})
			return cont
		})
	}
}

// dispatchPivot implements the ?PO strategy: when the object
// bunch is large, check whether the predicate bunch is no larger before
// committing to it, since iterating the smaller of the two (then
// filtering by the other position) does less work. Ties favor the
// predicate bunch: a tie in size still takes the predicate branch.
func dispatchPivot(predicateIndex, objectIndex Index, pivotThreshold int, m term.Match, fn func(term.Triple) bool) {
	ob, ok := objectIndex.Get(m.Object)
	if !ok {
		return
	}
	if ob.Size() > pivotThreshold {
		if pb, ok := predicateIndex.Get(m.Predicate); ok && pb.Size() <= ob.Size() {
			pb.Each(func(t term.Triple) bool {
				if !t.Object.Equals(m.Object) {
					return true
				}
				return fn(t)
			})
			return
		}
	}
	ob.Each(func(t term.Triple) bool {
		if !t.Predicate.Equals(m.Predicate) {
			return true
		}
		return fn(t)
	})
}
