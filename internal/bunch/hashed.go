package bunch

import (
	"github.com/ledgerwatch/rdfstore/internal/fasthash"
	"github.com/ledgerwatch/rdfstore/term"
)

// hashedBunch is the FastHash-backed bunch variant used once a bunch
// exceeds its array threshold. Demotion back to an array bunch is
// never performed.
type hashedBunch struct {
	pinned Pinned
	set    *fasthash.Set[term.Triple]
}

func newHashedBunch(pinned Pinned, capacityHint int) *hashedBunch {
	return &hashedBunch{
		pinned: pinned,
		set:    fasthash.NewSetWithCapacity[term.Triple](pinnedHasher{pinned}, capacityHint),
	}
}

func (b *hashedBunch) Contains(t term.Triple) bool          { return b.set.Contains(t) }
func (b *hashedBunch) TryAdd(t term.Triple) bool            { return b.set.TryAdd(t) }
func (b *hashedBunch) TryRemove(t term.Triple) bool         { return b.set.TryRemove(t) }
func (b *hashedBunch) RemoveUnchecked(t term.Triple)        { b.set.RemoveUnchecked(t) }
func (b *hashedBunch) Size() int                            { return b.set.Size() }
func (b *hashedBunch) Each(fn func(term.Triple) bool)       { b.set.Each(fn) }
func (b *hashedBunch) AnyMatch(pred func(term.Triple) bool) bool {
	return b.set.AnyMatch(pred)
}

func (b *hashedBunch) clone() *hashedBunch {
	return &hashedBunch{pinned: b.pinned, set: b.set.Clone()}
}
