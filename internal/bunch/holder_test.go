package bunch

import (
	"fmt"
	"testing"

	"github.com/ledgerwatch/rdfstore/term"
)

func triple(s, p, o string) term.Triple {
	return term.New(term.IRI(s), term.IRI(p), term.IRI(o))
}

func TestHolderTryAddRejectsDuplicate(t *testing.T) {
	tr := triple("urn:s", "urn:p", "urn:o")
	h := NewHolder(PinnedSubject, 16, tr)
	if h.TryAdd(tr) {
		t.Fatalf("expected duplicate insert to be rejected")
	}
	if h.Size() != 1 {
		t.Fatalf("expected size 1, got %d", h.Size())
	}
}

// TestHolderPromotesAtThreshold checks that a subject bunch promotes
// from an array to a hashed variant the instant its 17th distinct
// triple is inserted (threshold 16).
func TestHolderPromotesAtThreshold(t *testing.T) {
	first := triple("urn:s", "urn:p0", "urn:o0")
	h := NewHolder(PinnedSubject, 16, first)
	for i := 1; i < 16; i++ {
		tr := triple("urn:s", fmt.Sprintf("urn:p%d", i), fmt.Sprintf("urn:o%d", i))
		if !h.TryAdd(tr) {
			t.Fatalf("expected triple %d to be newly inserted", i)
		}
	}
	if h.IsHashed() {
		t.Fatalf("expected bunch to remain an array at exactly threshold size")
	}
	overflow := triple("urn:s", "urn:p16", "urn:o16")
	if !h.TryAdd(overflow) {
		t.Fatalf("expected the 17th distinct triple to be newly inserted")
	}
	if !h.IsHashed() {
		t.Fatalf("expected bunch to have promoted to hashed after exceeding threshold")
	}
	if h.Size() != 17 {
		t.Fatalf("expected size 17 after promotion, got %d", h.Size())
	}
	for i := 0; i < 17; i++ {
		tr := triple("urn:s", fmt.Sprintf("urn:p%d", i), fmt.Sprintf("urn:o%d", i))
		if !h.Contains(tr) {
			t.Fatalf("expected triple %d to survive promotion", i)
		}
	}
}

func TestHolderTryRemove(t *testing.T) {
	a := triple("urn:s", "urn:p1", "urn:o1")
	b := triple("urn:s", "urn:p2", "urn:o2")
	h := NewHolder(PinnedSubject, 16, a)
	h.TryAdd(b)
	if !h.TryRemove(a) {
		t.Fatalf("expected removal of present triple to succeed")
	}
	if h.TryRemove(a) {
		t.Fatalf("expected second removal to fail")
	}
	if h.Contains(a) {
		t.Fatalf("expected a to be absent")
	}
	if !h.Contains(b) {
		t.Fatalf("expected b to remain present")
	}
	if h.Size() != 1 {
		t.Fatalf("expected size 1, got %d", h.Size())
	}
}

// TestHolderRemoveUnchecked checks RemoveUnchecked against both the
// array and hashed bunch variants, mirroring how the MVCC write path
// removes from the predicate/object indices once the subject index has
// already proven a triple present.
func TestHolderRemoveUnchecked(t *testing.T) {
	a := triple("urn:s", "urn:p1", "urn:o1")
	b := triple("urn:s", "urn:p2", "urn:o2")
	h := NewHolder(PinnedSubject, 16, a)
	h.TryAdd(b)
	h.RemoveUnchecked(a)
	if h.Contains(a) {
		t.Fatalf("expected a to be absent after RemoveUnchecked")
	}
	if !h.Contains(b) {
		t.Fatalf("expected b to remain present")
	}
	if h.Size() != 1 {
		t.Fatalf("expected size 1, got %d", h.Size())
	}

	first := triple("urn:s", "urn:p0", "urn:o0")
	hashed := NewHolder(PinnedSubject, 16, first)
	for i := 1; i <= 16; i++ {
		hashed.TryAdd(triple("urn:s", fmt.Sprintf("urn:p%d", i), fmt.Sprintf("urn:o%d", i)))
	}
	if !hashed.IsHashed() {
		t.Fatalf("setup: expected holder to be hashed")
	}
	hashed.RemoveUnchecked(first)
	if hashed.Contains(first) {
		t.Fatalf("expected first triple to be absent after RemoveUnchecked on a hashed bunch")
	}
	if hashed.Size() != 16 {
		t.Fatalf("expected size 16, got %d", hashed.Size())
	}
}

// TestHolderCloneIsolatesMutation underlies the MVCC write path's
// clone-then-put discipline: mutating a clone must never affect the
// original holder a previously published generation still references.
func TestHolderCloneIsolatesMutation(t *testing.T) {
	a := triple("urn:s", "urn:p1", "urn:o1")
	b := triple("urn:s", "urn:p2", "urn:o2")
	h := NewHolder(PinnedSubject, 16, a)
	clone := h.Clone()
	clone.TryAdd(b)

	if h.Contains(b) {
		t.Fatalf("expected original holder not to observe the clone's insert")
	}
	if !clone.Contains(a) || !clone.Contains(b) {
		t.Fatalf("expected clone to contain both triples")
	}
	if h.Size() != 1 {
		t.Fatalf("expected original holder size to stay 1, got %d", h.Size())
	}
}

func TestHolderCloneIsolatesMutationAfterPromotion(t *testing.T) {
	first := triple("urn:s", "urn:p0", "urn:o0")
	h := NewHolder(PinnedSubject, 16, first)
	for i := 1; i <= 16; i++ {
		h.TryAdd(triple("urn:s", fmt.Sprintf("urn:p%d", i), fmt.Sprintf("urn:o%d", i)))
	}
	if !h.IsHashed() {
		t.Fatalf("setup: expected holder to be hashed")
	}
	clone := h.Clone()
	extra := triple("urn:s", "urn:pextra", "urn:oextra")
	clone.TryAdd(extra)

	if h.Contains(extra) {
		t.Fatalf("expected original hashed holder not to observe the clone's insert")
	}
	if !clone.Contains(extra) {
		t.Fatalf("expected clone to contain the new triple")
	}
}

func TestEqualOtherComparesNonPinnedPositions(t *testing.T) {
	a := triple("urn:s", "urn:p", "urn:o")
	b := triple("urn:other-subject", "urn:p", "urn:o")
	if !equalOther(PinnedSubject, a, b) {
		t.Fatalf("expected subject-pinned equality to ignore the subject position")
	}
	c := triple("urn:s", "urn:other-predicate", "urn:o")
	if equalOther(PinnedSubject, a, c) {
		t.Fatalf("expected subject-pinned equality to compare predicate")
	}
}
