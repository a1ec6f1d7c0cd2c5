// Package bunch implements the adaptive triple-bunch abstraction: a
// set of triples sharing one pinned node position, starting as a
// packed array and promoting in place to a FastHash-backed set once
// it exceeds its size threshold.
package bunch

import (
	"github.com/ledgerwatch/rdfstore/internal/fasthash"
	"github.com/ledgerwatch/rdfstore/term"
)

// Pinned identifies which position of every triple in a bunch is held
// fixed (the key the bunch is stored under in its bunch map).
type Pinned int

const (
	PinnedSubject Pinned = iota
	PinnedPredicate
	PinnedObject
)

// equalOther compares the two non-pinned positions of a and b: the
// pinned position itself is never compared, since the caller already
// knows both triples share it. The per-pinned check order below is
// deliberate: for a subject-pinned bunch, predicate is compared before
// object, because predicate cardinality is typically far lower than
// object cardinality in RDF data, so a predicate mismatch short-circuits
// before ever touching the (usually more expensive, e.g. literal)
// object comparison.
func equalOther(pinned Pinned, a, b term.Triple) bool {
	switch pinned {
	case PinnedSubject:
		return a.Predicate.Equals(b.Predicate) && a.Object.Equals(b.Object)
	case PinnedPredicate:
		return a.Object.Equals(b.Object) && a.Subject.Equals(b.Subject)
	default: // PinnedObject
		return a.Predicate.Equals(b.Predicate) && a.Subject.Equals(b.Subject)
	}
}

// pinnedHasher is the Hasher the hashed bunch variant's fasthash.Set uses. Its
// Hash function uses the full structural triple hash (cheap, and every
// member shares the same pinned-position contribution so distribution
// among non-pinned positions is unaffected); its Equal narrows to the
// two non-pinned positions, which is cheaper than full triple equality
// and is bit-identical in result since the pinned position is, by
// construction, the same node for every member of the bunch.
type pinnedHasher struct {
	pinned Pinned
}

func (h pinnedHasher) Hash(t term.Triple) uint64     { return t.HashCode() }
func (h pinnedHasher) Equal(a, b term.Triple) bool   { return equalOther(h.pinned, a, b) }

var _ fasthash.Hasher[term.Triple] = pinnedHasher{}
