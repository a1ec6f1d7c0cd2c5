// Package term supplies the minimal concrete RDF term model the core
// needs to be exercised and tested. It is deliberately small: no parsing,
// no serialization, no IRI validation, no prefix compaction. The store
// itself only ever depends on the Node interface below.
package term

import "github.com/cespare/xxhash/v2"

// Node is the contract the triple store core relies on.
// Implementations must guarantee a.Equals(b) => a.HashCode() == b.HashCode().
type Node interface {
	// Equals is strict equality: same kind, same lexical identity.
	Equals(other Node) bool
	// SameValueAs is value-equality, e.g. "1"^^xsd:integer == "1.0"^^xsd:double.
	SameValueAs(other Node) bool
	// HashCode must agree with Equals.
	HashCode() uint64
	// IndexingValue returns a value-normalized view of the node: for most
	// nodes it is the node itself, but a literal with a canonical numeric
	// form returns that canonical form instead, so that two literals
	// returning equal IndexingValues always have SameValueAs true (the
	// converse need not hold). Part of the Node contract for callers that
	// want to build a value-equality-aware index on top of this package;
	// the store's own bunch maps key on HashCode/Equals and do not
	// consume it.
	IndexingValue() Node
	// IsConcrete reports whether the node matches only itself, never a
	// wildcard or variable.
	IsConcrete() bool
}

// any is the wildcard sentinel. A query pattern wears this value in any
// position it does not want to constrain.
type any struct{}

func (any) Equals(other Node) bool      { _, ok := other.(any); return ok }
func (any) SameValueAs(other Node) bool { _, ok := other.(any); return ok }
func (any) HashCode() uint64            { return 0 }
func (any) IndexingValue() Node         { return ANY }
func (any) IsConcrete() bool            { return false }
func (any) String() string              { return "*" }

// ANY is the wildcard used in a TripleMatch position to mean "unconstrained".
var ANY Node = any{}

// IsAny reports whether n is the wildcard sentinel.
func IsAny(n Node) bool {
	_, ok := n.(any)
	return ok
}

func hashBytes(kind byte, parts ...string) uint64 {
	h := xxhash.New()
	h.Write([]byte{kind})
	for _, p := range parts {
		_, _ = h.WriteString(p)
		h.Write([]byte{0})
	}
	return h.Sum64()
}
