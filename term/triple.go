package term

// Triple is an immutable (subject, predicate, object) of Nodes.
type Triple struct {
	Subject   Node
	Predicate Node
	Object    Node
}

// New builds a Triple. It does not validate that Subject/Object are legal
// RDF subject/object positions (e.g. that Subject is not a Literal) — that
// is the term model's job upstream of this package, not the store's.
func New(s, p, o Node) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// Equals is strict-equality of the three nodes, position by position.
func (t Triple) Equals(other Triple) bool {
	return t.Subject.Equals(other.Subject) &&
		t.Predicate.Equals(other.Predicate) &&
		t.Object.Equals(other.Object)
}

// IsConcrete reports whether all three positions are concrete nodes.
func (t Triple) IsConcrete() bool {
	return t.Subject.IsConcrete() && t.Predicate.IsConcrete() && t.Object.IsConcrete()
}

// HashCode combines the three node hashes with a fixed, non-commutative
// mix so that e.g. (a,b,c) and (b,a,c) hash differently. Each node hash
// is multiplied by a distinct odd constant per position and xored into
// the accumulator, which is then rotated and put through one
// multiply-xorshift step (the multiplier from MurmurHash3's 64-bit
// finalizer); the per-position constants keep the combination
// non-commutative.
func (t Triple) HashCode() uint64 {
	h := uint64(0xcbf29ce484222325)
	h = mix(h, t.Subject.HashCode(), 0x9E3779B97F4A7C15)
	h = mix(h, t.Predicate.HashCode(), 0xC2B2AE3D27D4EB4F)
	h = mix(h, t.Object.HashCode(), 0x165667B19E3779F9)
	return h
}

func mix(acc, v, mul uint64) uint64 {
	acc ^= v * mul
	acc = (acc << 31) | (acc >> 33)
	acc *= 0xff51afd7ed558ccd
	acc ^= acc >> 33
	return acc
}

// Match is a query pattern: each position is either a concrete Node or
// ANY. It has the same shape as Triple but a distinct type so callers
// cannot accidentally pass a pattern where a concrete triple is required.
type Match struct {
	Subject   Node
	Predicate Node
	Object    Node
}

// AnyMatch is the pattern that matches every triple in the store.
var AnyMatch = Match{Subject: ANY, Predicate: ANY, Object: ANY}

// Matches reports whether t satisfies pattern m: every concrete position
// of m must Equal the corresponding position of t; ANY positions always
// pass.
func (m Match) Matches(t Triple) bool {
	if !IsAny(m.Subject) && !m.Subject.Equals(t.Subject) {
		return false
	}
	if !IsAny(m.Predicate) && !m.Predicate.Equals(t.Predicate) {
		return false
	}
	if !IsAny(m.Object) && !m.Object.Equals(t.Object) {
		return false
	}
	return true
}

// AsTriple converts a fully-concrete Match into a Triple. Callers must
// check IsConcrete first; this does not itself validate concreteness.
func (m Match) AsTriple() Triple {
	return Triple{Subject: m.Subject, Predicate: m.Predicate, Object: m.Object}
}
