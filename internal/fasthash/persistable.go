package fasthash

// PersistableSet is the copy-on-write variant of Set. A mutable
// PersistableSet can Fork() an
// immutable Snapshot that aliases the dense keys/hashCodes arrays until
// the parent's next structural mutation, at which point the parent
// transparently replaces those arrays with private copies (copy-on-write)
// while the snapshot's aliased references stay valid and frozen. The
// positions/deleted vectors are always copied eagerly at fork time,
// since they are cheap (sparse, power-of-two sized) and must diverge
// immediately once the parent mutates.
//
// The frozen view (Snapshot) simply does not expose mutating methods —
// Go's type system rejects mutation attempts at compile time instead of
// via a runtime contract-violation signal, which is a strictly stronger
// guarantee for this one case. The other ContractViolation cases
// (AddUnchecked on a duplicate, RemoveUnchecked on an absent key,
// ending an uncommitted write transaction) are unaffected and still
// apply where relevant.
type PersistableSet[K any] struct {
	Set[K]
	shared bool
}

func NewPersistableSet[K any](hasher Hasher[K]) *PersistableSet[K] {
	return &PersistableSet[K]{Set: *NewSet[K](hasher)}
}

func NewPersistableSetWithCapacity[K any](hasher Hasher[K], capacityHint int) *PersistableSet[K] {
	return &PersistableSet[K]{Set: *NewSetWithCapacity[K](hasher, capacityHint)}
}

// ensureOwned clones the dense keys/hashCodes arrays if they are still
// aliased by a live snapshot, so this write does not leak into it.
func (p *PersistableSet[K]) ensureOwned() {
	if !p.shared {
		return
	}
	keys := make([]K, len(p.c.keys))
	copy(keys, p.c.keys)
	hashCodes := make([]uint64, len(p.c.hashCodes))
	copy(hashCodes, p.c.hashCodes)
	p.c.keys, p.c.hashCodes = keys, hashCodes
	p.shared = false
}

func (p *PersistableSet[K]) TryAdd(k K) bool {
	p.ensureOwned()
	return p.Set.TryAdd(k)
}

func (p *PersistableSet[K]) AddAndGetIndex(k K) (int, bool) {
	p.ensureOwned()
	return p.Set.AddAndGetIndex(k)
}

func (p *PersistableSet[K]) AddUnchecked(k K) int {
	p.ensureOwned()
	return p.Set.AddUnchecked(k)
}

func (p *PersistableSet[K]) TryRemove(k K) bool {
	p.ensureOwned()
	return p.Set.TryRemove(k)
}

func (p *PersistableSet[K]) RemoveAndGetIndex(k K) (int, bool) {
	p.ensureOwned()
	return p.Set.RemoveAndGetIndex(k)
}

func (p *PersistableSet[K]) RemoveUnchecked(k K) {
	p.ensureOwned()
	p.Set.RemoveUnchecked(k)
}

func (p *PersistableSet[K]) Clear() {
	p.ensureOwned()
	p.Set.Clear()
}

// Fork produces an immutable snapshot of p at this instant. p remains
// mutable; its next structural write transparently clones its shared
// arrays first.
func (p *PersistableSet[K]) Fork() *Snapshot[K] {
	positions := make([]int32, len(p.c.positions))
	copy(positions, p.c.positions)
	deleted := make([]bool, len(p.c.deleted))
	copy(deleted, p.c.deleted)
	snap := &Snapshot[K]{
		c: core[K]{
			hasher:    p.c.hasher,
			positions: positions,
			keys:      p.c.keys,
			hashCodes: p.c.hashCodes,
			deleted:   deleted,
			keysPos:   p.c.keysPos,
			size:      p.c.size,
		},
		parent: p,
	}
	p.shared = true
	return snap
}

// Snapshot is an immutable, point-in-time view produced by
// PersistableSet.Fork. It holds a read-only handle back to its parent
// solely so callers can test lineage identity; it never mutates the
// parent and the parent never reaches back into it.
type Snapshot[K any] struct {
	c      core[K]
	parent *PersistableSet[K]
}

func (s *Snapshot[K]) Size() int     { return s.c.size }
func (s *Snapshot[K]) IsEmpty() bool { return s.c.size == 0 }

func (s *Snapshot[K]) Contains(k K) bool {
	_, _, found := s.c.findSlot(k, s.c.hasher.Hash(k))
	return found
}

func (s *Snapshot[K]) Each(fn func(K) bool) {
	for i := 0; i < s.c.keysPos; i++ {
		if s.c.deleted[i] {
			continue
		}
		if !fn(s.c.keys[i]) {
			return
		}
	}
}

func (s *Snapshot[K]) Iterator() *Iterator[K] {
	return &Iterator[K]{c: &s.c, startMod: s.c.mod, pos: 0}
}

// ForkedFrom reports whether s was produced by parent.Fork(), the
// identity query asks the child to support.
func (s *Snapshot[K]) ForkedFrom(parent *PersistableSet[K]) bool {
	return s.parent == parent
}
