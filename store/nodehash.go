package store

import (
	"github.com/ledgerwatch/rdfstore/internal/fasthash"
	"github.com/ledgerwatch/rdfstore/term"
)

// nodeHasher hashes and compares Nodes by strict equality, matching the
// Node contract every bunch map keys on: a.Equals(b) implies
// a.HashCode() == b.HashCode() (Node). Node.IndexingValue is
// a separate, value-equality-aware view of a node that no component here
// consumes yet — see SPEC_FULL.md.
type nodeHasher struct{}

func (nodeHasher) Hash(n term.Node) uint64    { return n.HashCode() }
func (nodeHasher) Equal(a, b term.Node) bool  { return a.Equals(b) }

var _ fasthash.Hasher[term.Node] = nodeHasher{}
