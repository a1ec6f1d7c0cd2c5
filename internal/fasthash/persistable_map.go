package fasthash

// PersistableMap is the map counterpart to PersistableSet,
// additionally cloning the values vector on first write after a fork.
type PersistableMap[K any, V any] struct {
	Map[K, V]
	shared bool
}

func NewPersistableMap[K any, V any](hasher Hasher[K]) *PersistableMap[K, V] {
	return &PersistableMap[K, V]{Map: *NewMap[K, V](hasher)}
}

// NewPersistableMapFromSnapshot builds a fresh mutable map seeded from an
// immutable snapshot, at the same O(positions) cost as Fork — the inverse
// operation. It aliases the snapshot's keys/hashCodes/values vectors and
// marks itself shared, so the snapshot stays frozen until this map's first
// write triggers the usual copy-on-write. The MVCC write path uses this to
// give a write transaction its own working copy of the active generation
// without paying to duplicate unchanged data up front.
func NewPersistableMapFromSnapshot[K any, V any](s *MapSnapshot[K, V]) *PersistableMap[K, V] {
	positions := make([]int32, len(s.c.positions))
	copy(positions, s.c.positions)
	deleted := make([]bool, len(s.c.deleted))
	copy(deleted, s.c.deleted)
	return &PersistableMap[K, V]{
		Map: Map[K, V]{
			c: core[K]{
				hasher:    s.c.hasher,
				positions: positions,
				keys:      s.c.keys,
				hashCodes: s.c.hashCodes,
				deleted:   deleted,
				keysPos:   s.c.keysPos,
				size:      s.c.size,
			},
			values: s.values,
		},
		shared: true,
	}
}

func (p *PersistableMap[K, V]) ensureOwned() {
	if !p.shared {
		return
	}
	keys := make([]K, len(p.c.keys))
	copy(keys, p.c.keys)
	hashCodes := make([]uint64, len(p.c.hashCodes))
	copy(hashCodes, p.c.hashCodes)
	values := make([]V, len(p.values))
	copy(values, p.values)
	p.c.keys, p.c.hashCodes, p.values = keys, hashCodes, values
	p.shared = false
}

func (p *PersistableMap[K, V]) TryPut(k K, v V) bool {
	p.ensureOwned()
	return p.Map.TryPut(k, v)
}

func (p *PersistableMap[K, V]) Put(k K, v V) (V, bool) {
	p.ensureOwned()
	return p.Map.Put(k, v)
}

func (p *PersistableMap[K, V]) ComputeIfAbsent(k K, fn func() V) V {
	p.ensureOwned()
	return p.Map.ComputeIfAbsent(k, fn)
}

func (p *PersistableMap[K, V]) Compute(k K, fn func(V, bool) (V, bool)) {
	p.ensureOwned()
	p.Map.Compute(k, fn)
}

func (p *PersistableMap[K, V]) TryRemove(k K) bool {
	p.ensureOwned()
	return p.Map.TryRemove(k)
}

func (p *PersistableMap[K, V]) RemoveUnchecked(k K) {
	p.ensureOwned()
	p.Map.RemoveUnchecked(k)
}

func (p *PersistableMap[K, V]) Clear() {
	p.ensureOwned()
	p.Map.Clear()
	p.values = nil
}

// Fork produces an immutable snapshot of the map at this instant.
func (p *PersistableMap[K, V]) Fork() *MapSnapshot[K, V] {
	positions := make([]int32, len(p.c.positions))
	copy(positions, p.c.positions)
	deleted := make([]bool, len(p.c.deleted))
	copy(deleted, p.c.deleted)
	snap := &MapSnapshot[K, V]{
		c: core[K]{
			hasher:    p.c.hasher,
			positions: positions,
			keys:      p.c.keys,
			hashCodes: p.c.hashCodes,
			deleted:   deleted,
			keysPos:   p.c.keysPos,
			size:      p.c.size,
		},
		values: p.values,
		parent: p,
	}
	p.shared = true
	return snap
}

// MapSnapshot is the immutable, forked view of a PersistableMap.
type MapSnapshot[K any, V any] struct {
	c      core[K]
	values []V
	parent *PersistableMap[K, V]
}

func (s *MapSnapshot[K, V]) Size() int     { return s.c.size }
func (s *MapSnapshot[K, V]) IsEmpty() bool { return s.c.size == 0 }

func (s *MapSnapshot[K, V]) Get(k K) (V, bool) {
	_, ei, found := s.c.findSlot(k, s.c.hasher.Hash(k))
	if !found {
		var zero V
		return zero, false
	}
	return s.values[ei], true
}

func (s *MapSnapshot[K, V]) Each(fn func(K, V) bool) {
	for i := 0; i < s.c.keysPos; i++ {
		if s.c.deleted[i] {
			continue
		}
		if !fn(s.c.keys[i], s.values[i]) {
			return
		}
	}
}

func (s *MapSnapshot[K, V]) ForkedFrom(parent *PersistableMap[K, V]) bool {
	return s.parent == parent
}
