package fasthash

// Set is the hash-set half of the FastHash primitive.
type Set[K any] struct {
	c core[K]
}

// NewSet creates an empty set using hasher for hashing/equality.
func NewSet[K any](hasher Hasher[K]) *Set[K] {
	return NewSetWithCapacity[K](hasher, 0)
}

// NewSetWithCapacity pre-sizes the slot vector for capacityHint elements.
func NewSetWithCapacity[K any](hasher Hasher[K], capacityHint int) *Set[K] {
	return &Set[K]{c: newCore(hasher, capacityHint)}
}

func (s *Set[K]) Size() int     { return s.c.Size() }
func (s *Set[K]) IsEmpty() bool { return s.c.IsEmpty() }

// Clone returns a deep copy of s: independent positions/keys/hashCodes/
// deleted/freeList vectors, so mutating the clone never affects s. Used by
// the MVCC layer to copy a bunch before mutating it, since a bunch map's
// own copy-on-write only protects the map's key/value slots, not a value
// object (a *bunch.Holder) reachable through an aliased pointer.
func (s *Set[K]) Clone() *Set[K] {
	positions := make([]int32, len(s.c.positions))
	copy(positions, s.c.positions)
	keys := make([]K, len(s.c.keys))
	copy(keys, s.c.keys)
	hashCodes := make([]uint64, len(s.c.hashCodes))
	copy(hashCodes, s.c.hashCodes)
	deleted := make([]bool, len(s.c.deleted))
	copy(deleted, s.c.deleted)
	freeList := make([]int32, len(s.c.freeList))
	copy(freeList, s.c.freeList)
	return &Set[K]{c: core[K]{
		hasher:    s.c.hasher,
		positions: positions,
		keys:      keys,
		hashCodes: hashCodes,
		deleted:   deleted,
		freeList:  freeList,
		keysPos:   s.c.keysPos,
		size:      s.c.size,
	}}
}

// Contains reports whether k is present.
func (s *Set[K]) Contains(k K) bool {
	_, _, found := s.c.findSlot(k, s.c.hasher.Hash(k))
	return found
}

// TryAdd inserts k if absent. Returns true iff it was newly inserted.
func (s *Set[K]) TryAdd(k K) bool {
	_, ok := s.AddAndGetIndex(k)
	return ok
}

// AddAndGetIndex inserts k if absent, returning its stable index and true.
// If k was already present, returns the bitwise complement of its
// existing index (^index, always negative) and false.
func (s *Set[K]) AddAndGetIndex(k K) (int, bool) {
	hash := s.c.hasher.Hash(k)
	s.c.ensureCapacityForInsert()
	slot, ei, found := s.c.findSlot(k, hash)
	if found {
		return ^ei, false
	}
	idx := s.c.allocIndex()
	s.c.keys[idx] = k
	s.c.hashCodes[idx] = hash
	s.c.deleted[idx] = false
	s.c.positions[slot] = ^int32(idx)
	s.c.size++
	s.c.mod++
	return idx, true
}

// AddUnchecked inserts k without checking for a duplicate first. The
// caller MUST guarantee k is not already present (failure
// modes): calling this on a duplicate corrupts the table.
func (s *Set[K]) AddUnchecked(k K) int {
	hash := s.c.hasher.Hash(k)
	s.c.ensureCapacityForInsert()
	slot := s.c.emptySlotFor(hash)
	idx := s.c.allocIndex()
	s.c.keys[idx] = k
	s.c.hashCodes[idx] = hash
	s.c.deleted[idx] = false
	s.c.positions[slot] = ^int32(idx)
	s.c.size++
	s.c.mod++
	return idx
}

// TryRemove removes k if present. Returns true iff it was removed.
func (s *Set[K]) TryRemove(k K) bool {
	_, ok := s.RemoveAndGetIndex(k)
	return ok
}

// RemoveAndGetIndex removes k if present, returning its former stable
// index and true; returns (-1, false) if k was absent.
func (s *Set[K]) RemoveAndGetIndex(k K) (int, bool) {
	slot, ei, found := s.c.findSlot(k, s.c.hasher.Hash(k))
	if !found {
		return -1, false
	}
	s.c.removeAt(slot)
	return ei, true
}

// RemoveUnchecked removes k, which the caller MUST prove is present
// (failure modes); calling this on an absent key is
// undefined behavior.
func (s *Set[K]) RemoveUnchecked(k K) {
	slot, _, found := s.c.findSlot(k, s.c.hasher.Hash(k))
	if !found {
		return
	}
	s.c.removeAt(slot)
}

// Clear empties the set, resetting both vectors to minimum size.
func (s *Set[K]) Clear() { s.c.clear() }

// AnyMatch reports whether any live element satisfies pred, stopping at
// the first match.
func (s *Set[K]) AnyMatch(pred func(K) bool) bool {
	for i := 0; i < s.c.keysPos; i++ {
		if s.c.deleted[i] {
			continue
		}
		if pred(s.c.keys[i]) {
			return true
		}
	}
	return false
}

// KeyAt returns the key stored at stable index i. The caller must only
// call this for indices known to be live (e.g. one AddAndGetIndex
// returned for a new insert, not since removed).
func (s *Set[K]) KeyAt(i int) K { return s.c.keys[i] }

// Each calls fn for every live key in dense-array order (not insertion
// order once removals have happened, since freed indices are reused).
// fn returning false stops iteration early.
func (s *Set[K]) Each(fn func(K) bool) {
	for i := 0; i < s.c.keysPos; i++ {
		if s.c.deleted[i] {
			continue
		}
		if !fn(s.c.keys[i]) {
			return
		}
	}
}

// Iterator returns a fail-fast iterator over the set's current contents.
func (s *Set[K]) Iterator() *Iterator[K] {
	return &Iterator[K]{c: &s.c, startMod: s.c.mod, pos: 0}
}

// Iterator is a single-pass, fail-fast cursor over a Set's live keys.
type Iterator[K any] struct {
	c        *core[K]
	startMod int
	pos      int
}

// HasNext reports whether a further call to Next will succeed. It panics
// with ErrConcurrentModification if the set was mutated since the
// iterator was created.
func (it *Iterator[K]) HasNext() bool {
	if it.c.mod != it.startMod {
		panic(ErrConcurrentModification)
	}
	for it.pos < it.c.keysPos && it.c.deleted[it.pos] {
		it.pos++
	}
	return it.pos < it.c.keysPos
}

// Next returns the next live key. Callers must call HasNext first.
func (it *Iterator[K]) Next() K {
	k := it.c.keys[it.pos]
	it.pos++
	return k
}
