package bunch

import "github.com/ledgerwatch/rdfstore/term"

// arrayBunch is a packed array of up to `threshold` triples (T=16 for
// subject-pinned, T=32 for predicate/object-pinned bunches). It keeps
// insertion order until a removal, which moves the last element into the
// vacated position.
type arrayBunch struct {
	pinned Pinned
	items  []term.Triple
}

func newArrayBunch(pinned Pinned, capacityHint int) *arrayBunch {
	return &arrayBunch{pinned: pinned, items: make([]term.Triple, 0, capacityHint)}
}

func (b *arrayBunch) indexOf(t term.Triple) int {
	for i := range b.items {
		if equalOther(b.pinned, b.items[i], t) {
			return i
		}
	}
	return -1
}

func (b *arrayBunch) Contains(t term.Triple) bool {
	return b.indexOf(t) >= 0
}

func (b *arrayBunch) TryAdd(t term.Triple) bool {
	if b.Contains(t) {
		return false
	}
	b.items = append(b.items, t)
	return true
}

func (b *arrayBunch) TryRemove(t term.Triple) bool {
	i := b.indexOf(t)
	if i < 0 {
		return false
	}
	last := len(b.items) - 1
	b.items[i] = b.items[last]
	b.items = b.items[:last]
	return true
}

// RemoveUnchecked removes t, which the caller MUST already know is a
// member (a sibling index's TryRemove already found it there); behavior
// is undefined if t is actually absent.
func (b *arrayBunch) RemoveUnchecked(t term.Triple) {
	i := b.indexOf(t)
	if i < 0 {
		return
	}
	last := len(b.items) - 1
	b.items[i] = b.items[last]
	b.items = b.items[:last]
}

func (b *arrayBunch) Size() int { return len(b.items) }

func (b *arrayBunch) Each(fn func(term.Triple) bool) {
	for _, t := range b.items {
		if !fn(t) {
			return
		}
	}
}

func (b *arrayBunch) AnyMatch(pred func(term.Triple) bool) bool {
	for _, t := range b.items {
		if pred(t) {
			return true
		}
	}
	return false
}

// clone returns an independent copy of b; mutating the clone never
// affects b. Used by the MVCC write path, which must never mutate a
// bunch that a previously published generation still references.
func (b *arrayBunch) clone() *arrayBunch {
	items := make([]term.Triple, len(b.items))
	copy(items, b.items)
	return &arrayBunch{pinned: b.pinned, items: items}
}

// promote replaces an array bunch at its size threshold with a hashed
// bunch, bulk-loading the existing (known-distinct) entries via
// AddUnchecked ("bulk addUnchecked").
func (b *arrayBunch) promote() *hashedBunch {
	hb := newHashedBunch(b.pinned, len(b.items)+4)
	for _, t := range b.items {
		hb.set.AddUnchecked(t)
	}
	return hb
}
