// Package fasthash implements an open-addressed hash table primitive:
// a dense entries vector plus a power-of-two slot vector, linear
// probing in decreasing-index order, stable element indices, and
// free-list-backed index reuse on removal.
//
// It is generic over the key type so that one implementation serves
// both the plain in-process store and, layered under Persistable, the
// MVCC snapshot machinery, rather than duplicating the same table
// logic across several near-identical classes.
package fasthash

// Hasher supplies the hash and equality functions a Set/Map needs for its
// key type. Implementations must satisfy Equal(a,b) => Hash(a) == Hash(b).
type Hasher[K any] interface {
	Hash(k K) uint64
	Equal(a, b K) bool
}

const (
	minPositions = 4
	emptySlot    = int32(0)
)

func nextPow2(n int) int {
	if n < minPositions {
		return minPositions
	}
	p := minPositions
	for p < n {
		p <<= 1
	}
	return p
}

// core holds the slot/entries bookkeeping shared by Set and Map; Map just
// carries a parallel values slice alongside it.
type core[K any] struct {
	hasher    Hasher[K]
	positions []int32
	keys      []K
	hashCodes []uint64
	deleted   []bool
	freeList  []int32
	keysPos   int
	size      int
	mod       int
}

func newCore[K any](hasher Hasher[K], capacityHint int) core[K] {
	return core[K]{
		hasher:    hasher,
		positions: make([]int32, nextPow2(capacityHint*2)),
	}
}

func (c *core[K]) Size() int     { return c.size }
func (c *core[K]) IsEmpty() bool { return c.size == 0 }

func (c *core[K]) mask() int { return len(c.positions) - 1 }

func (c *core[K]) initialSlot(hash uint64) int {
	return int(hash) & c.mask()
}

func (c *core[K]) decrement(slot int) int {
	return (slot - 1) & c.mask()
}

// findSlot walks the probe chain for (k, hash): returns (slot, eIndex, true)
// on a match, or (slot, -1, false) for the first empty slot reachable.
func (c *core[K]) findSlot(k K, hash uint64) (slot int, eIndex int, found bool) {
	slot = c.initialSlot(hash)
	for {
		p := c.positions[slot]
		if p == emptySlot {
			return slot, -1, false
		}
		ei := int(^p)
		if c.hashCodes[ei] == hash && c.hasher.Equal(c.keys[ei], k) {
			return slot, ei, true
		}
		slot = c.decrement(slot)
	}
}

// emptySlotFor probes for the first empty slot for hash, skipping equality
// checks entirely. Used by rehash and by AddUnchecked, both of which the
// caller has already proven will not collide with an existing key.
func (c *core[K]) emptySlotFor(hash uint64) int {
	slot := c.initialSlot(hash)
	for c.positions[slot] != emptySlot {
		slot = c.decrement(slot)
	}
	return slot
}

// ensureCapacityForInsert grows and rehashes the slot vector so that
// positions.length > 2*(size+1), per the growth trigger.
func (c *core[K]) ensureCapacityForInsert() {
	if len(c.positions) > 2*(c.size+1) {
		return
	}
	newLen := len(c.positions) * 2
	for newLen <= 2*(c.size+1) {
		newLen *= 2
	}
	old := c.positions
	c.positions = make([]int32, newLen)
	for i := 0; i < c.keysPos; i++ {
		if c.deleted[i] {
			continue
		}
		slot := c.emptySlotFor(c.hashCodes[i])
		c.positions[slot] = ^int32(i)
	}
	_ = old
}

// allocIndex returns a stable entry index for a new key, reusing a freed
// index when one is available, growing the dense entries vectors by 1.5x
// otherwise.
func (c *core[K]) allocIndex() int {
	if n := len(c.freeList); n > 0 {
		idx := c.freeList[n-1]
		c.freeList = c.freeList[:n-1]
		return int(idx)
	}
	if c.keysPos == len(c.keys) {
		c.growEntries()
	}
	idx := c.keysPos
	c.keysPos++
	return idx
}

func (c *core[K]) growEntries() {
	cur := len(c.keys)
	newCap := cur + cur/2
	if newCap <= cur {
		newCap = cur + 4
	}
	keys := make([]K, newCap)
	copy(keys, c.keys)
	hashCodes := make([]uint64, newCap)
	copy(hashCodes, c.hashCodes)
	deleted := make([]bool, newCap)
	copy(deleted, c.deleted)
	c.keys, c.hashCodes, c.deleted = keys, hashCodes, deleted
}

// removeAt unlinks the entry at slot `here`, shifting later-probed entries
// backward (decreasing-index direction) so the probe chain stays dense —
// the reversed-direction Knuth Algorithm R. It frees the vacated
// entry index onto the free list.
func (c *core[K]) removeAt(here int) {
	eIndex := int(^c.positions[here])
	c.positions[here] = emptySlot
	scan := c.decrement(here)
	for c.positions[scan] != emptySlot {
		scanIdx := int(^c.positions[scan])
		r := c.initialSlot(c.hashCodes[scanIdx])
		if shouldMove(scan, r, here) {
			c.positions[here] = c.positions[scan]
			c.positions[scan] = emptySlot
			here = scan
		}
		scan = c.decrement(scan)
	}
	c.freeEntry(eIndex)
}

// shouldMove implements the cyclic-order test: given the
// vacated slot `here`, the slot `scan` currently being examined, and `r`
// the ideal (collision-free) slot for the key stored at `scan`, decide
// whether moving that key into `here` preserves its reachability via
// linear probing in decreasing-index order with wraparound. The key
// stays put exactly when r lies cyclically in [scan, here), i.e. when its
// probe path from r down to scan never passes through `here`.
func shouldMove(scan, r, here int) bool {
	return (scan > r || r >= here) && (r >= here || here >= scan) && (here >= scan || scan > r)
}

func (c *core[K]) freeEntry(idx int) {
	var zero K
	c.keys[idx] = zero
	c.hashCodes[idx] = 0
	c.deleted[idx] = true
	c.freeList = append(c.freeList, int32(idx))
	c.size--
	c.mod++
}

func (c *core[K]) clear() {
	c.positions = make([]int32, minPositions)
	c.keys = nil
	c.hashCodes = nil
	c.deleted = nil
	c.freeList = nil
	c.keysPos = 0
	c.size = 0
	c.mod++
}
