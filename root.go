package voxelcore

import (
	"sync"

	"github.com/yohamta/donburi"
)

// rootEntry is the per-Trunk-key slot the Root map holds: an optional
// explicit Trunk child, the tile value if the Trunk has never been
// materialized, a redraw flag, and the render handle for whatever mesh
// entity currently represents this Trunk's geometry (§3).
type rootEntry[V comparable] struct {
	mu     sync.RWMutex
	child  *trunkNode[V]
	tile   V
	redraw bool

	meshEntity donburi.Entity
	hasMesh    bool
}

// markDirty sets this entry's redraw flag. Called both from Tree's
// cold-path descents and from an Accessor's warm Trunk/Branch/Leaf cache
// hits, since IterDirtyLeaves gates entirely on this flag (§4.1, §4.2). Nil
// receiver is a no-op, matching the accessor's other cache-miss handling.
func (e *rootEntry[V]) markDirty() {
	if e == nil {
		return
	}
	e.mu.Lock()
	e.redraw = true
	e.mu.Unlock()
}

// Tree is a sparse hierarchical store of V values over 3D integer
// coordinates, with tile compression for constant-valued regions and
// redraw tracking for incremental re-meshing. The zero value is not usable;
// construct with NewTree.
type Tree[V comparable] struct {
	mu         sync.RWMutex
	entries    map[Coord]*rootEntry[V]
	background V
}

// NewTree returns an empty Tree where every coordinate reads as background
// until written.
func NewTree[V comparable](background V) *Tree[V] {
	return &Tree[V]{entries: make(map[Coord]*rootEntry[V]), background: background}
}

// Background returns the value every never-written coordinate reads as.
func (t *Tree[V]) Background() V { return t.background }

func (t *Tree[V]) getEntry(key Coord) *rootEntry[V] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[key]
}

func (t *Tree[V]) getOrCreateEntry(key Coord) *rootEntry[V] {
	t.mu.RLock()
	e := t.entries[key]
	t.mu.RUnlock()
	if e != nil {
		return e
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if e = t.entries[key]; e != nil {
		return e
	}
	e = &rootEntry[V]{tile: t.background}
	t.entries[key] = e
	return e
}

// getValueAndCache descends to the value at coord, returning along the way
// whichever explicit nodes exist for the accessor to cache, plus the owning
// rootEntry so the accessor can flip its redraw flag from a warm cache hit.
func (t *Tree[V]) getValueAndCache(coord Coord) (value V, leaf *leafNode[V], branch *branchNode[V], trunk *trunkNode[V], entry *rootEntry[V]) {
	key := trunkKey(coord)
	e := t.getEntry(key)
	if e == nil {
		return t.background, nil, nil, nil, nil
	}

	e.mu.RLock()
	child := e.child
	tile := e.tile
	e.mu.RUnlock()
	if child == nil {
		return tile, nil, nil, nil, e
	}

	value, leaf, branch = child.getValueAndCache(coord)
	return value, leaf, branch, child, e
}

// setValueAndCache writes value at coord, materializing a Trunk (and
// beneath it whatever Branch/Leaf nodes are needed) unless the write is a
// true no-op against a never-touched background key (§4.1). Also returns
// the owning rootEntry so the accessor can cache it and keep marking it
// dirty on later warm-cache writes.
func (t *Tree[V]) setValueAndCache(coord Coord, value V, active bool) (leaf *leafNode[V], branch *branchNode[V], trunk *trunkNode[V], entry *rootEntry[V]) {
	key := trunkKey(coord)

	t.mu.Lock()
	e, ok := t.entries[key]
	if !ok {
		if value == t.background && !active {
			t.mu.Unlock()
			return nil, nil, nil, nil
		}
		e = &rootEntry[V]{tile: t.background}
		t.entries[key] = e
	}
	t.mu.Unlock()

	e.mu.Lock()
	child := e.child
	if child == nil {
		child = newTrunk[V](key, e.tile, false)
		e.child = child
	}
	e.redraw = true
	e.mu.Unlock()

	leaf, branch = child.setValueAndCache(coord, value, active)
	return leaf, branch, child, e
}

// markRedraw marks coord's Trunk entry (and, where materialized, the
// Branch/Leaf beneath it) dirty without changing any value — used to
// propagate face-neighbor redraw after a voxel is cleared (§4.2). Also
// returns the owning rootEntry for the accessor to cache.
func (t *Tree[V]) markRedraw(coord Coord) (leaf *leafNode[V], branch *branchNode[V], trunk *trunkNode[V], entry *rootEntry[V]) {
	key := trunkKey(coord)
	e := t.getOrCreateEntry(key)

	e.mu.Lock()
	e.redraw = true
	child := e.child
	e.mu.Unlock()

	if child == nil {
		return nil, nil, nil, e
	}
	leaf, branch = child.markRedraw(coord)
	return leaf, branch, child, e
}

// IterDirtyLeaves visits every Root entry whose redraw flag is set,
// recursing into its Trunk/Branch/Leaf levels. leafFn receives dirty
// explicit Leaves (the mesher's unit of work); tileFn receives dirty
// tile-only regions at any level, tagged with the level name, for
// diagnostic logging (§9: a tile marked dirty with no explicit child is
// logged, not meshed). Read-only and restartable: calling it again before
// ClearDirty yields the same dirty set (§4.1).
func (t *Tree[V]) IterDirtyLeaves(leafFn func(origin Coord, leaf *LeafView[V]), tileFn func(origin Coord, level string, value V)) {
	t.mu.RLock()
	keys := make([]Coord, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	t.mu.RUnlock()

	for _, key := range keys {
		t.mu.RLock()
		e := t.entries[key]
		t.mu.RUnlock()
		if e == nil {
			continue
		}

		e.mu.RLock()
		dirty := e.redraw
		child := e.child
		tile := e.tile
		e.mu.RUnlock()

		if !dirty {
			continue
		}
		if child == nil {
			tileFn(key, "trunk", tile)
			continue
		}
		child.walkDirty(
			func(origin Coord, branch *branchNode[V]) {
				branch.walkDirty(
					func(origin Coord, leaf *leafNode[V]) { leafFn(origin, &LeafView[V]{node: leaf}) },
					func(origin Coord, tile V) { tileFn(origin, "branch", tile) },
				)
			},
			func(origin Coord, tile V) { tileFn(origin, "trunk", tile) },
		)
	}
}

// ClearDirty resets the redraw mask throughout the tree: every Root
// entry's redraw flag and every Trunk/Branch redraw bit beneath it. After
// ClearDirty, IterDirtyLeaves yields nothing until the next mutation
// (§4.1, §8 scenario 6).
func (t *Tree[V]) ClearDirty() {
	t.mu.RLock()
	keys := make([]Coord, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	t.mu.RUnlock()

	for _, key := range keys {
		t.mu.RLock()
		e := t.entries[key]
		t.mu.RUnlock()
		if e == nil {
			continue
		}

		e.mu.Lock()
		e.redraw = false
		child := e.child
		e.mu.Unlock()

		if child != nil {
			child.clearDirty()
		}
	}
}

// AssignMesh records e as the render entity for the Trunk at key,
// despawning whatever mesh entity previously occupied that slot via
// destroy. Mirrors the stale-mesh-cleanup behavior of the node this
// generalizes (§3's "render handle").
func (t *Tree[V]) AssignMesh(key Coord, e donburi.Entity, destroy func(donburi.Entity)) {
	entry := t.getOrCreateEntry(trunkKey(key))

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.hasMesh && destroy != nil {
		destroy(entry.meshEntity)
	}
	entry.meshEntity = e
	entry.hasMesh = true
}

// ClearMesh despawns whatever mesh entity occupies the Trunk at key via
// destroy and marks the slot unoccupied, without recording a replacement.
// Used when a dirty Leaf re-meshes to nothing so the caller drops its
// render/ECS handle instead of leaving a stale, now-invisible entity in
// place (§4.3's handle replacement with "none").
func (t *Tree[V]) ClearMesh(key Coord, destroy func(donburi.Entity)) {
	entry := t.getOrCreateEntry(trunkKey(key))

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.hasMesh && destroy != nil {
		destroy(entry.meshEntity)
	}
	entry.hasMesh = false
}

// LeafView is the read/iterate handle the mesher and tests use to walk a
// dirty Leaf's active cells without depending on the unexported tree
// internals directly.
type LeafView[V comparable] struct {
	node *leafNode[V]
}

// Origin returns this Leaf's global origin coordinate.
func (lv *LeafView[V]) Origin() Coord {
	lv.node.mu.RLock()
	defer lv.node.mu.RUnlock()
	return lv.node.origin
}

// Active calls fn for every active cell in this Leaf, with its global
// coordinate and value.
func (lv *LeafView[V]) Active(fn func(coord Coord, value V)) {
	lv.node.mu.RLock()
	defer lv.node.mu.RUnlock()

	idx := 0
	for {
		next, ok := lv.node.valueMask.NextSet(idx)
		if !ok {
			return
		}
		idx = next
		fn(lv.node.globalCoord(idx), lv.node.data[idx])
		idx++
	}
}
