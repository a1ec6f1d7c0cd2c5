package mvcc

import (
	"iter"

	"github.com/ledgerwatch/rdfstore/internal/bunch"
	"github.com/ledgerwatch/rdfstore/internal/classify"
	"github.com/ledgerwatch/rdfstore/internal/fasthash"
	"github.com/ledgerwatch/rdfstore/storeconfig"
	"github.com/ledgerwatch/rdfstore/term"
)

// workingGraph is the isolated, mutable copy a WRITE transaction mutates
// (begin(WRITE): "snapshots the store by forking the
// persistable FastHash structures of each bunch map"). It is built from
// the active generation at begin-time and is invisible to every reader
// until commit publishes it as the new active generation; concurrent
// readers keep querying the generation they pinned.
//
// A bunch map's own copy-on-write only protects its key→value slots; the
// *bunch.Holder values it stores are plain mutable objects reached by
// pointer. Mutating a holder in place would corrupt any previously
// published generation that still aliases the same pointer. So every
// mutation here clones the holder first (bunch.Holder.Clone) and writes
// the clone back under the same key — the clone-then-put is what the
// map-level copy-on-write actually guards.
type workingGraph struct {
	cfg  storeconfig.Config
	subj *fasthash.PersistableMap[term.Node, *bunch.Holder]
	pred *fasthash.PersistableMap[term.Node, *bunch.Holder]
	obj  *fasthash.PersistableMap[term.Node, *bunch.Holder]
	size int

	deltas []Delta
}

func newWorkingGraph(g *graph) *workingGraph {
	return &workingGraph{
		cfg:  g.cfg,
		subj: fasthash.NewPersistableMapFromSnapshot[term.Node, *bunch.Holder](g.subj),
		pred: fasthash.NewPersistableMapFromSnapshot[term.Node, *bunch.Holder](g.pred),
		obj:  fasthash.NewPersistableMapFromSnapshot[term.Node, *bunch.Holder](g.obj),
		size: g.size,
	}
}

func (wg *workingGraph) Contains(m term.Match) bool {
	return classify.ContainsMatch[*fasthash.PersistableMap[term.Node, *bunch.Holder]](wg.subj, wg.pred, wg.obj, wg.cfg.PivotThreshold, m)
}

func (wg *workingGraph) Size() int { return wg.size }

// Stream lets a WRITE transaction read its own uncommitted writes.
func (wg *workingGraph) Stream(m term.Match) iter.Seq[term.Triple] {
	return func(yield func(term.Triple) bool) {
		classify.Dispatch[*fasthash.PersistableMap[term.Node, *bunch.Holder]](wg.subj, wg.pred, wg.obj, wg.cfg.PivotThreshold, m, yield)
	}
}

// Add inserts t, following the same subject-is-source-of-truth
// discipline as store.Store.Add, but cloning every touched holder
// instead of mutating it in place.
func (wg *workingGraph) Add(t term.Triple) bool {
	if !cloneAdd(wg.subj, bunch.PinnedSubject, wg.cfg.SubjectBunchThreshold, t.Subject, t) {
		return false
	}
	cloneAddUnchecked(wg.pred, bunch.PinnedPredicate, wg.cfg.PredicateOrObjectBunchThreshold, t.Predicate, t)
	cloneAddUnchecked(wg.obj, bunch.PinnedObject, wg.cfg.PredicateOrObjectBunchThreshold, t.Object, t)
	wg.size++
	wg.deltas = append(wg.deltas, Delta{Kind: DeltaAdd, Triple: t})
	return true
}

// Remove deletes t, cloning every touched holder instead of mutating it
// in place.
func (wg *workingGraph) Remove(t term.Triple) bool {
	if !cloneRemove(wg.subj, t.Subject, t) {
		return false
	}
	cloneRemoveUnchecked(wg.pred, t.Predicate, t)
	cloneRemoveUnchecked(wg.obj, t.Object, t)
	wg.size--
	wg.deltas = append(wg.deltas, Delta{Kind: DeltaRemove, Triple: t})
	return true
}

func cloneAdd(pm *fasthash.PersistableMap[term.Node, *bunch.Holder], pinned bunch.Pinned, threshold int, key term.Node, t term.Triple) bool {
	h, ok := pm.Get(key)
	if !ok {
		pm.Put(key, bunch.NewHolder(pinned, threshold, t))
		return true
	}
	clone := h.Clone()
	if !clone.TryAdd(t) {
		return false
	}
	pm.Put(key, clone)
	return true
}

func cloneAddUnchecked(pm *fasthash.PersistableMap[term.Node, *bunch.Holder], pinned bunch.Pinned, threshold int, key term.Node, t term.Triple) {
	h, ok := pm.Get(key)
	if !ok {
		pm.Put(key, bunch.NewHolder(pinned, threshold, t))
		return
	}
	clone := h.Clone()
	clone.AddUnchecked(t)
	pm.Put(key, clone)
}

func cloneRemove(pm *fasthash.PersistableMap[term.Node, *bunch.Holder], key term.Node, t term.Triple) bool {
	h, ok := pm.Get(key)
	if !ok {
		return false
	}
	clone := h.Clone()
	if !clone.TryRemove(t) {
		return false
	}
	if clone.IsEmpty() {
		pm.TryRemove(key)
	} else {
		pm.Put(key, clone)
	}
	return true
}

// cloneRemoveUnchecked removes t from the pred/obj index after the
// subject index's cloneRemove has already proven t present, mirroring
// cloneAddUnchecked on the add path.
func cloneRemoveUnchecked(pm *fasthash.PersistableMap[term.Node, *bunch.Holder], key term.Node, t term.Triple) {
	h, ok := pm.Get(key)
	if !ok {
		return
	}
	clone := h.Clone()
	clone.RemoveUnchecked(t)
	if clone.IsEmpty() {
		pm.TryRemove(key)
	} else {
		pm.Put(key, clone)
	}
}

// publish forks each of the working copy's bunch maps into a frozen
// generation. This is the atomic step that publishes the new
// generation.
func (wg *workingGraph) publish(seq uint64) *graph {
	return &graph{
		seq:  seq,
		subj: wg.subj.Fork(),
		pred: wg.pred.Fork(),
		obj:  wg.obj.Fork(),
		size: wg.size,
		cfg:  wg.cfg,
	}
}
