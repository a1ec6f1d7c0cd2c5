package bunch

import "github.com/ledgerwatch/rdfstore/term"

// Bunch is the common read surface of both bunch variants.
type Bunch interface {
	Contains(t term.Triple) bool
	Size() int
	Each(fn func(term.Triple) bool)
	AnyMatch(pred func(term.Triple) bool) bool
}

// Holder owns one bunch map entry's value: the current bunch variant
// plus the pinned position and promotion threshold it was created with.
// Promotion replaces Holder.active in place, so the holder's identity
// (and hence its slot in the enclosing bunch map) never changes across
// a promotion — the replacement is complete before any caller observes
// the post-insert state, satisfying the ordering requirement.
type Holder struct {
	pinned    Pinned
	threshold int
	active    interface {
		Bunch
		tryAddRaw(t term.Triple) bool
		tryRemoveRaw(t term.Triple) bool
		removeUncheckedRaw(t term.Triple)
	}
}

// arrayVariant and hashedVariant adapt the two concrete bunch kinds to
// Holder's internal interface, which needs TryAdd/TryRemove/RemoveUnchecked
// in addition to the read-only Bunch surface.
type arrayVariant struct{ *arrayBunch }

func (a arrayVariant) tryAddRaw(t term.Triple) bool       { return a.arrayBunch.TryAdd(t) }
func (a arrayVariant) tryRemoveRaw(t term.Triple) bool    { return a.arrayBunch.TryRemove(t) }
func (a arrayVariant) removeUncheckedRaw(t term.Triple)   { a.arrayBunch.RemoveUnchecked(t) }

type hashedVariant struct{ *hashedBunch }

func (h hashedVariant) tryAddRaw(t term.Triple) bool      { return h.hashedBunch.TryAdd(t) }
func (h hashedVariant) tryRemoveRaw(t term.Triple) bool   { return h.hashedBunch.TryRemove(t) }
func (h hashedVariant) removeUncheckedRaw(t term.Triple)  { h.hashedBunch.RemoveUnchecked(t) }

// NewHolder creates a bunch holder seeded with a single triple, backed
// initially by an array bunch.
func NewHolder(pinned Pinned, threshold int, first term.Triple) *Holder {
	ab := newArrayBunch(pinned, threshold)
	ab.items = append(ab.items, first)
	return &Holder{pinned: pinned, threshold: threshold, active: arrayVariant{ab}}
}

// TryAdd inserts t, promoting the underlying array bunch to a hashed
// bunch first if t is distinct from every current member and the array
// is already at threshold (Promotion).
func (h *Holder) TryAdd(t term.Triple) bool {
	if av, ok := h.active.(arrayVariant); ok && av.Size() == h.threshold {
		if av.Contains(t) {
			return false
		}
		h.active = hashedVariant{av.promote()}
	}
	return h.active.tryAddRaw(t)
}

// AddUnchecked inserts t without checking for a duplicate, promoting
// first if the array bunch is already at threshold. The caller must have
// already proven t is not a current member (the subject
// bunch's tryAdd result gates unchecked inserts into the other two
// indices for the same triple).
func (h *Holder) AddUnchecked(t term.Triple) {
	if av, ok := h.active.(arrayVariant); ok {
		if av.Size() == h.threshold {
			h.active = hashedVariant{av.promote()}
		} else {
			av.arrayBunch.items = append(av.arrayBunch.items, t)
			return
		}
	}
	h.active.(hashedVariant).hashedBunch.set.AddUnchecked(t)
}

// Clone returns a holder with an independent copy of the current bunch
// variant; mutating the clone never affects h. The MVCC write path
// clones-then-replaces rather than mutating a holder in place, since a
// holder reached through an older, already-published generation must
// never change underneath a reader still pinned to it.
func (h *Holder) Clone() *Holder {
	clone := &Holder{pinned: h.pinned, threshold: h.threshold}
	switch v := h.active.(type) {
	case arrayVariant:
		clone.active = arrayVariant{v.arrayBunch.clone()}
	case hashedVariant:
		clone.active = hashedVariant{v.hashedBunch.clone()}
	}
	return clone
}

func (h *Holder) TryRemove(t term.Triple) bool { return h.active.tryRemoveRaw(t) }

// RemoveUnchecked removes t, which the caller MUST have already proven
// present via a sibling index's TryRemove; calling this for a triple
// not actually held corrupts nothing but silently does not shrink the
// bunch, since the underlying array/hashed removal is itself a no-op on
// a miss.
func (h *Holder) RemoveUnchecked(t term.Triple) { h.active.removeUncheckedRaw(t) }

func (h *Holder) Contains(t term.Triple) bool { return h.active.Contains(t) }
func (h *Holder) Size() int                    { return h.active.Size() }
func (h *Holder) IsEmpty() bool                { return h.active.Size() == 0 }

func (h *Holder) Each(fn func(term.Triple) bool) { h.active.Each(fn) }

func (h *Holder) AnyMatch(pred func(term.Triple) bool) bool {
	return h.active.AnyMatch(pred)
}

// IsHashed reports whether the holder has promoted to a hashed bunch.
// Exposed for tests verifying the promotion threshold.
func (h *Holder) IsHashed() bool {
	_, ok := h.active.(hashedVariant)
	return ok
}
