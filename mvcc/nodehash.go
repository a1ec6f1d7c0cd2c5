package mvcc

import "github.com/ledgerwatch/rdfstore/term"

// nodeHasher hashes and compares Nodes by strict equality — the same
// contract package store's bunch maps key on (see store/nodehash.go).
type nodeHasher struct{}

func (nodeHasher) Hash(n term.Node) uint64   { return n.HashCode() }
func (nodeHasher) Equal(a, b term.Node) bool { return a.Equals(b) }
