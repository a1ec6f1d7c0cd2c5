package fasthash

// Map is the hash-map half of the FastHash primitive,
// parameterized separately over key and value types. It reuses the same
// slot/entries algorithm as Set via the shared core, with a parallel
// values vector.
type Map[K any, V any] struct {
	c      core[K]
	values []V
}

// NewMap creates an empty map using hasher for hashing/equality of keys.
func NewMap[K any, V any](hasher Hasher[K]) *Map[K, V] {
	return NewMapWithCapacity[K, V](hasher, 0)
}

func NewMapWithCapacity[K any, V any](hasher Hasher[K], capacityHint int) *Map[K, V] {
	return &Map[K, V]{c: newCore(hasher, capacityHint)}
}

func (m *Map[K, V]) Size() int     { return m.c.Size() }
func (m *Map[K, V]) IsEmpty() bool { return m.c.IsEmpty() }

func (m *Map[K, V]) growValues() {
	if len(m.values) < len(m.c.keys) {
		grown := make([]V, len(m.c.keys))
		copy(grown, m.values)
		m.values = grown
	}
}

// Get returns the value for k and true, or the zero value and false.
func (m *Map[K, V]) Get(k K) (V, bool) {
	_, ei, found := m.c.findSlot(k, m.c.hasher.Hash(k))
	if !found {
		var zero V
		return zero, false
	}
	return m.values[ei], true
}

// GetOrDefault returns the value for k, or def if absent.
func (m *Map[K, V]) GetOrDefault(k K, def V) V {
	if v, ok := m.Get(k); ok {
		return v
	}
	return def
}

func (m *Map[K, V]) Contains(k K) bool {
	_, _, found := m.c.findSlot(k, m.c.hasher.Hash(k))
	return found
}

// TryPut inserts (k,v) only if k is absent. Returns true iff inserted.
func (m *Map[K, V]) TryPut(k K, v V) bool {
	hash := m.c.hasher.Hash(k)
	m.c.ensureCapacityForInsert()
	slot, ei, found := m.c.findSlot(k, hash)
	if found {
		_ = ei
		return false
	}
	idx := m.c.allocIndex()
	m.growValues()
	m.c.keys[idx] = k
	m.c.hashCodes[idx] = hash
	m.c.deleted[idx] = false
	m.values[idx] = v
	m.c.positions[slot] = ^int32(idx)
	m.c.size++
	m.c.mod++
	return true
}

// Put inserts or overwrites the value for k, returning the previous value
// (if any) and whether one existed.
func (m *Map[K, V]) Put(k K, v V) (V, bool) {
	hash := m.c.hasher.Hash(k)
	m.c.ensureCapacityForInsert()
	slot, ei, found := m.c.findSlot(k, hash)
	if found {
		old := m.values[ei]
		m.values[ei] = v
		return old, true
	}
	idx := m.c.allocIndex()
	m.growValues()
	m.c.keys[idx] = k
	m.c.hashCodes[idx] = hash
	m.c.deleted[idx] = false
	m.values[idx] = v
	m.c.positions[slot] = ^int32(idx)
	m.c.size++
	m.c.mod++
	var zero V
	return zero, false
}

// ComputeIfAbsent returns the existing value for k, or computes, stores,
// and returns fn() if k was absent.
func (m *Map[K, V]) ComputeIfAbsent(k K, fn func() V) V {
	if v, ok := m.Get(k); ok {
		return v
	}
	v := fn()
	m.Put(k, v)
	return v
}

// Compute applies fn to the current value for k (zero value, false if
// absent); if fn's ok return is false the key is removed (or left absent),
// otherwise the returned value is stored.
func (m *Map[K, V]) Compute(k K, fn func(V, bool) (V, bool)) {
	cur, existed := m.Get(k)
	next, keep := fn(cur, existed)
	if !keep {
		if existed {
			m.TryRemove(k)
		}
		return
	}
	m.Put(k, next)
}

// TryRemove removes k if present, returning true iff it was removed.
func (m *Map[K, V]) TryRemove(k K) bool {
	slot, ei, found := m.c.findSlot(k, m.c.hasher.Hash(k))
	if !found {
		return false
	}
	var zero V
	m.values[ei] = zero
	m.c.removeAt(slot)
	return true
}

// RemoveUnchecked removes k, which the caller MUST prove is present.
func (m *Map[K, V]) RemoveUnchecked(k K) {
	slot, ei, found := m.c.findSlot(k, m.c.hasher.Hash(k))
	if !found {
		return
	}
	var zero V
	m.values[ei] = zero
	m.c.removeAt(slot)
}

func (m *Map[K, V]) Clear() {
	m.c.clear()
	m.values = nil
}

// Each calls fn for every live (key, value) pair; fn returning false stops
// iteration early.
func (m *Map[K, V]) Each(fn func(K, V) bool) {
	for i := 0; i < m.c.keysPos; i++ {
		if m.c.deleted[i] {
			continue
		}
		if !fn(m.c.keys[i], m.values[i]) {
			return
		}
	}
}
