package store

import (
	"fmt"
	"testing"

	"github.com/ledgerwatch/rdfstore/storeconfig"
	"github.com/ledgerwatch/rdfstore/term"
)

func triple(s, p, o string) term.Triple {
	return term.New(term.IRI(s), term.IRI(p), term.IRI(o))
}

func newTestStore() *Store {
	return New(storeconfig.Default())
}

// TestAddContainsSize inserts five distinct triples, then
// queries them across several pattern classes.
func TestAddContainsSize(t *testing.T) {
	s := newTestStore()
	triples := []term.Triple{
		triple("urn:s1", "urn:p1", "urn:o1"),
		triple("urn:s1", "urn:p1", "urn:o2"),
		triple("urn:s1", "urn:p2", "urn:o1"),
		triple("urn:s2", "urn:p1", "urn:o1"),
		triple("urn:s2", "urn:p2", "urn:o2"),
	}
	for _, tr := range triples {
		if !s.Add(tr) {
			t.Fatalf("expected %v to be newly inserted", tr)
		}
	}
	if s.Size() != 5 {
		t.Fatalf("expected size 5, got %d", s.Size())
	}
	if s.Add(triples[0]) {
		t.Fatalf("expected duplicate insert to be rejected")
	}
	if s.Size() != 5 {
		t.Fatalf("expected size to stay 5 after duplicate insert, got %d", s.Size())
	}

	s1 := term.IRI("urn:s1")
	p1 := term.IRI("urn:p1")
	o1 := term.IRI("urn:o1")
	if !s.Contains(term.Match{Subject: s1, Predicate: p1, Object: o1}) {
		t.Fatalf("expected SPO match")
	}
	if !s.Contains(term.Match{Subject: s1, Predicate: p1, Object: term.ANY}) {
		t.Fatalf("expected SP? match")
	}
	if !s.Contains(term.Match{Subject: term.ANY, Predicate: p1, Object: o1}) {
		t.Fatalf("expected ?PO match")
	}
	if s.Contains(term.Match{Subject: term.IRI("urn:missing"), Predicate: term.ANY, Object: term.ANY}) {
		t.Fatalf("expected no match for an absent subject")
	}
}

// TestRemoveThenRemoveAgainIsNoOp checks that removing an already-removed
// triple reports failure without changing the store.
func TestRemoveThenRemoveAgainIsNoOp(t *testing.T) {
	s := newTestStore()
	tr := triple("urn:s", "urn:p", "urn:o")
	s.Add(tr)
	if !s.Remove(tr) {
		t.Fatalf("expected first removal to succeed")
	}
	if s.Remove(tr) {
		t.Fatalf("expected second removal to be a no-op")
	}
	if s.Size() != 0 {
		t.Fatalf("expected empty store, got size %d", s.Size())
	}
	if s.Contains(term.Match{Subject: term.IRI("urn:s"), Predicate: term.ANY, Object: term.ANY}) {
		t.Fatalf("expected no match after removal")
	}
}

// TestIndicesStayConsistentAcrossAddRemove is property 4: the
// subject, predicate, and object indices never disagree about which
// triples are present.
func TestIndicesStayConsistentAcrossAddRemove(t *testing.T) {
	s := newTestStore()
	tr := triple("urn:s", "urn:p", "urn:o")
	s.Add(tr)

	subj := term.IRI("urn:s")
	pred := term.IRI("urn:p")
	obj := term.IRI("urn:o")
	bySubject := s.Contains(term.Match{Subject: subj, Predicate: term.ANY, Object: term.ANY})
	byPredicate := s.Contains(term.Match{Subject: term.ANY, Predicate: pred, Object: term.ANY})
	byObject := s.Contains(term.Match{Subject: term.ANY, Predicate: term.ANY, Object: obj})
	if !bySubject || !byPredicate || !byObject {
		t.Fatalf("expected all three indices to agree the triple is present: %v %v %v", bySubject, byPredicate, byObject)
	}

	s.Remove(tr)
	bySubject = s.Contains(term.Match{Subject: subj, Predicate: term.ANY, Object: term.ANY})
	byPredicate = s.Contains(term.Match{Subject: term.ANY, Predicate: pred, Object: term.ANY})
	byObject = s.Contains(term.Match{Subject: term.ANY, Predicate: term.ANY, Object: obj})
	if bySubject || byPredicate || byObject {
		t.Fatalf("expected all three indices to agree the triple is gone: %v %v %v", bySubject, byPredicate, byObject)
	}
}

// TestStreamEqualsFilteredMultiset is property 3: streaming a
// match yields exactly the set of stored triples satisfying it.
func TestStreamEqualsFilteredMultiset(t *testing.T) {
	s := newTestStore()
	all := []term.Triple{
		triple("urn:s1", "urn:p", "urn:o1"),
		triple("urn:s1", "urn:p", "urn:o2"),
		triple("urn:s2", "urn:p", "urn:o1"),
	}
	for _, tr := range all {
		s.Add(tr)
	}
	m := term.Match{Subject: term.IRI("urn:s1"), Predicate: term.ANY, Object: term.ANY}
	want := map[term.Triple]bool{all[0]: true, all[1]: true}
	got := map[term.Triple]bool{}
	for tr := range s.Stream(m) {
		got[tr] = true
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d streamed triples, got %d", len(want), len(got))
	}
	for tr := range want {
		if !got[tr] {
			t.Fatalf("expected %v in stream", tr)
		}
	}
}

// TestPivotQueryAtSizeTieReturnsAllMatches runs a ?PO query where the
// P-bunch and O-bunch are the same size above the pivot threshold (the
// case that takes the P-bunch branch) and checks that every match is
// returned. It does not observe which branch the planner took.
func TestPivotQueryAtSizeTieReturnsAllMatches(t *testing.T) {
	cfg := storeconfig.Default()
	cfg.PivotThreshold = 50
	s := New(cfg)

	p0 := term.IRI("urn:p0")
	o0 := term.IRI("urn:o0")
	// 60 triples sharing (p0, o0): both the p0-bunch and o0-bunch reach
	// size 60, well above the pivot threshold of 50.
	const n = 60
	for i := 0; i < n; i++ {
		s.Add(triple(fmt.Sprintf("urn:s%d", i), "urn:p0", "urn:o0"))
	}
	m := term.Match{Subject: term.ANY, Predicate: p0, Object: o0}
	count := 0
	for range s.Stream(m) {
		count++
	}
	if count != n {
		t.Fatalf("expected %d matches, got %d", n, count)
	}
	if !s.Contains(m) {
		t.Fatalf("expected ?PO match to report present")
	}
}

func TestFindCursorRemoveMidTraversal(t *testing.T) {
	s := newTestStore()
	subj := term.IRI("urn:s")
	a := triple("urn:s", "urn:p1", "urn:o1")
	b := triple("urn:s", "urn:p2", "urn:o2")
	c := triple("urn:s", "urn:p3", "urn:o3")
	s.Add(a)
	s.Add(b)
	s.Add(c)

	cur := s.Find(term.Match{Subject: subj, Predicate: term.ANY, Object: term.ANY})
	defer cur.Close()
	removed := 0
	for cur.Advance() {
		if cur.Triple() == b {
			if cur.Remove() {
				removed++
			}
		}
	}
	if removed != 1 {
		t.Fatalf("expected exactly one removal, got %d", removed)
	}
	if s.Size() != 2 {
		t.Fatalf("expected size 2 after mid-traversal removal, got %d", s.Size())
	}
	if s.Contains(term.Match{Subject: subj, Predicate: term.IRI("urn:p2"), Object: term.ANY}) {
		t.Fatalf("expected b to be gone")
	}
}

func TestClear(t *testing.T) {
	s := newTestStore()
	s.Add(triple("urn:s", "urn:p", "urn:o"))
	s.Clear()
	if !s.IsEmpty() {
		t.Fatalf("expected store to be empty after Clear")
	}
	if s.Contains(term.AnyMatch) {
		t.Fatalf("expected no matches after Clear")
	}
}
