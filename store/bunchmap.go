package store

import (
	"github.com/ledgerwatch/rdfstore/internal/bunch"
	"github.com/ledgerwatch/rdfstore/internal/fasthash"
	"github.com/ledgerwatch/rdfstore/term"
)

// bunchMap is a FastHash map from a pinned position's Node to the bunch
// holder collecting every triple sharing that node at that position.
// It satisfies classify.Index.
type bunchMap struct {
	pinned    bunch.Pinned
	threshold int
	m         *fasthash.Map[term.Node, *bunch.Holder]
}

func newBunchMap(pinned bunch.Pinned, threshold int) *bunchMap {
	return &bunchMap{pinned: pinned, threshold: threshold, m: fasthash.NewMap[term.Node, *bunch.Holder](nodeHasher{})}
}

func (bm *bunchMap) Get(key term.Node) (*bunch.Holder, bool) { return bm.m.Get(key) }

func (bm *bunchMap) Each(fn func(term.Node, *bunch.Holder) bool) { bm.m.Each(fn) }

func (bm *bunchMap) Size() int { return bm.m.Size() }

// add inserts t under key, checking for a duplicate first. Returns false
// if t was already present.
func (bm *bunchMap) add(key term.Node, t term.Triple) bool {
	if h, ok := bm.m.Get(key); ok {
		return h.TryAdd(t)
	}
	bm.m.Put(key, bunch.NewHolder(bm.pinned, bm.threshold, t))
	return true
}

// addUnchecked inserts t without a duplicate check. The caller must have
// already established via add() on a sibling index that t is new.
func (bm *bunchMap) addUnchecked(key term.Node, t term.Triple) {
	if h, ok := bm.m.Get(key); ok {
		h.AddUnchecked(t)
		return
	}
	bm.m.Put(key, bunch.NewHolder(bm.pinned, bm.threshold, t))
}

// tryRemove removes t from under key if present, dropping the map entry
// entirely once its bunch empties. Returns true iff t was removed.
func (bm *bunchMap) tryRemove(key term.Node, t term.Triple) bool {
	h, ok := bm.m.Get(key)
	if !ok {
		return false
	}
	if !h.TryRemove(t) {
		return false
	}
	if h.IsEmpty() {
		bm.m.TryRemove(key)
	}
	return true
}

// removeUnchecked removes t from under key, which the caller must have
// already proven present via a sibling index's tryRemove.
func (bm *bunchMap) removeUnchecked(key term.Node, t term.Triple) {
	h, ok := bm.m.Get(key)
	if !ok {
		return
	}
	h.RemoveUnchecked(t)
	if h.IsEmpty() {
		bm.m.TryRemove(key)
	}
}

func (bm *bunchMap) clear() {
	bm.m.Clear()
}
