package mvcc

import (
	"iter"

	"github.com/ledgerwatch/rdfstore/internal/bunch"
	"github.com/ledgerwatch/rdfstore/internal/classify"
	"github.com/ledgerwatch/rdfstore/internal/fasthash"
	"github.com/ledgerwatch/rdfstore/storeconfig"
	"github.com/ledgerwatch/rdfstore/term"
)

// nodeMapSnapshot is the frozen, forked form of one bunch map's
// underlying FastHash map (Persistable FastHash).
type nodeMapSnapshot = fasthash.MapSnapshot[term.Node, *bunch.Holder]

// snapshotIndex adapts a nodeMapSnapshot to classify.Index, letting the
// one pattern classifier in internal/classify serve both the live,
// mutable store (package store) and these frozen MVCC generations.
type snapshotIndex struct{ snap *nodeMapSnapshot }

func (si snapshotIndex) Get(k term.Node) (*bunch.Holder, bool) { return si.snap.Get(k) }
func (si snapshotIndex) Each(fn func(term.Node, *bunch.Holder) bool) { si.snap.Each(fn) }

// graph is one immutable, published generation of the store: the three
// bunch-map snapshots plus the generation number and triple count.
// Both the active line of generations and the stale mirror are built
// from this same type.
type graph struct {
	seq  uint64
	subj *nodeMapSnapshot
	pred *nodeMapSnapshot
	obj  *nodeMapSnapshot
	size int
	cfg  storeconfig.Config
}

// emptyGraph creates generation 0: an empty store.
func emptyGraph(cfg storeconfig.Config) *graph {
	subj := fasthash.NewPersistableMap[term.Node, *bunch.Holder](nodeHasher{}).Fork()
	pred := fasthash.NewPersistableMap[term.Node, *bunch.Holder](nodeHasher{}).Fork()
	obj := fasthash.NewPersistableMap[term.Node, *bunch.Holder](nodeHasher{}).Fork()
	return &graph{seq: 0, subj: subj, pred: pred, obj: obj, size: 0, cfg: cfg}
}

func (g *graph) Size() int     { return g.size }
func (g *graph) IsEmpty() bool { return g.size == 0 }

func (g *graph) Contains(m term.Match) bool {
	return classify.ContainsMatch[snapshotIndex](snapshotIndex{g.subj}, snapshotIndex{g.pred}, snapshotIndex{g.obj}, g.cfg.PivotThreshold, m)
}

func (g *graph) each(m term.Match, fn func(term.Triple) bool) {
	classify.Dispatch[snapshotIndex](snapshotIndex{g.subj}, snapshotIndex{g.pred}, snapshotIndex{g.obj}, g.cfg.PivotThreshold, m, fn)
}

// Stream returns a lazy sequence over every triple matching m, pinned to
// this generation — restartable, since a frozen snapshot backs it
// ("restartable only if backed by a snapshot").
func (g *graph) Stream(m term.Match) iter.Seq[term.Triple] {
	return func(yield func(term.Triple) bool) {
		g.each(m, yield)
	}
}
