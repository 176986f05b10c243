package voxelcore

// Accessor caches the most recently visited Trunk, Branch, and Leaf so that
// spatially coherent traversals run in amortized O(1) per step (§4.2). An
// Accessor is NOT safe for concurrent use — create one per goroutine.
type Accessor[V comparable] struct {
	tree *Tree[V]

	trunkKey  Coord
	trunkNode *trunkNode[V]
	rootEntry *rootEntry[V]

	branchKey  Coord
	branchNode *branchNode[V]

	leafKey  Coord
	leafNode *leafNode[V]
}

// NewAccessor returns an Accessor over tree with an empty cache.
func NewAccessor[V comparable](tree *Tree[V]) *Accessor[V] {
	return &Accessor[V]{
		tree:      tree,
		trunkKey:  sentinelCoord,
		branchKey: sentinelCoord,
		leafKey:   sentinelCoord,
	}
}

// insertTrunk caches n as the current Trunk (keyed on coord) along with
// entry, its owning rootEntry — the two always travel together since a
// fast path that hits the cached Trunk must also be able to flip the
// Root-level redraw flag IterDirtyLeaves gates on.
func (a *Accessor[V]) insertTrunk(coord Coord, entry *rootEntry[V], n *trunkNode[V]) {
	if n == nil {
		a.trunkNode, a.trunkKey = nil, sentinelCoord
		a.rootEntry = nil
		return
	}
	a.trunkNode, a.trunkKey = n, trunkKey(coord)
	a.rootEntry = entry
}

func (a *Accessor[V]) insertBranch(coord Coord, n *branchNode[V]) {
	if n == nil {
		a.branchNode, a.branchKey = nil, sentinelCoord
		return
	}
	a.branchNode, a.branchKey = n, branchKey(coord)
}

func (a *Accessor[V]) insertLeaf(coord Coord, n *leafNode[V]) {
	if n == nil {
		a.leafNode, a.leafKey = nil, sentinelCoord
		return
	}
	a.leafNode, a.leafKey = n, leafKey(coord)
}

// Get returns the value at coord, which is tree.Background() if coord was
// never written.
func (a *Accessor[V]) Get(coord Coord) V {
	if a.leafNode != nil && a.leafKey == leafKey(coord) {
		return a.leafNode.getValueAt(coord)
	}
	if a.branchNode != nil && a.branchKey == branchKey(coord) {
		v, leaf := a.branchNode.getValueAndCache(coord)
		a.insertLeaf(coord, leaf)
		return v
	}
	if a.trunkNode != nil && a.trunkKey == trunkKey(coord) {
		v, leaf, branch := a.trunkNode.getValueAndCache(coord)
		a.insertBranch(coord, branch)
		a.insertLeaf(coord, leaf)
		return v
	}

	v, leaf, branch, trunk, entry := a.tree.getValueAndCache(coord)
	a.insertTrunk(coord, entry, trunk)
	a.insertBranch(coord, branch)
	a.insertLeaf(coord, leaf)
	return v
}

// Set writes value at coord with the given active state, materializing
// nodes as needed (§4.1). Writing the same value and activity an active
// tile already holds is a true no-op: no materialization, no mutation, no
// redraw.
func (a *Accessor[V]) Set(coord Coord, value V, active bool) {
	if a.leafNode != nil && a.leafKey == leafKey(coord) {
		if a.leafNode.isActiveEqual(coord, value, active) {
			return
		}
		a.leafNode.setValueAt(coord, value, active)
		a.trunkNode.markRedraw(coord)
		a.rootEntry.markDirty()
		return
	}
	if a.branchNode != nil && a.branchKey == branchKey(coord) {
		leaf, noop := a.branchNode.setValueAndCache(coord, value, active)
		a.insertLeaf(coord, leaf)
		if !noop {
			a.trunkNode.markRedraw(coord)
			a.rootEntry.markDirty()
		}
		return
	}
	if a.trunkNode != nil && a.trunkKey == trunkKey(coord) {
		leaf, branch := a.trunkNode.setValueAndCache(coord, value, active)
		a.insertBranch(coord, branch)
		a.insertLeaf(coord, leaf)
		if branch != nil {
			a.rootEntry.markDirty()
		}
		return
	}

	leaf, branch, trunk, entry := a.tree.setValueAndCache(coord, value, active)
	a.insertTrunk(coord, entry, trunk)
	a.insertBranch(coord, branch)
	a.insertLeaf(coord, leaf)
}

// SetOn is Set(coord, value, true).
func (a *Accessor[V]) SetOn(coord Coord, value V) { a.Set(coord, value, true) }

// SetOff is Set(coord, value, false).
func (a *Accessor[V]) SetOff(coord Coord, value V) { a.Set(coord, value, false) }

// MarkRedraw flags coord's enclosing Leaf/tile dirty without changing its
// value, used to propagate remesh requests to face-neighbors of a changed
// cell.
func (a *Accessor[V]) MarkRedraw(coord Coord) {
	if a.leafNode != nil && a.leafKey == leafKey(coord) {
		a.trunkNode.markRedraw(coord)
		a.rootEntry.markDirty()
		return
	}
	if a.branchNode != nil && a.branchKey == branchKey(coord) {
		leaf, _ := a.trunkNode.markRedraw(coord)
		a.insertLeaf(coord, leaf)
		a.rootEntry.markDirty()
		return
	}
	if a.trunkNode != nil && a.trunkKey == trunkKey(coord) {
		leaf, branch := a.trunkNode.markRedraw(coord)
		a.insertBranch(coord, branch)
		a.insertLeaf(coord, leaf)
		a.rootEntry.markDirty()
		return
	}

	leaf, branch, trunk, entry := a.tree.markRedraw(coord)
	a.insertTrunk(coord, entry, trunk)
	a.insertBranch(coord, branch)
	a.insertLeaf(coord, leaf)
}

// AdjacentValue returns the value one cell away from coord in dir.
func (a *Accessor[V]) AdjacentValue(coord Coord, dir GridDirection) V {
	return a.Get(coord.Add(GridDirections[dir]))
}

// AdjacentValues returns the values of all 6 face-neighbors of coord, in
// GridDirections order.
func (a *Accessor[V]) AdjacentValues(coord Coord) [6]V {
	var out [6]V
	for i, d := range GridDirections {
		out[i] = a.Get(coord.Add(d))
	}
	return out
}

// AdjacentSideValues returns the values of the 4 horizontal face-neighbors
// of coord, in SideDirections order.
func (a *Accessor[V]) AdjacentSideValues(coord Coord) [4]V {
	var out [4]V
	for i, d := range SideDirections {
		out[i] = a.Get(coord.Add(d))
	}
	return out
}

// AdjacentVerticalValues returns [below, above] of coord.
func (a *Accessor[V]) AdjacentVerticalValues(coord Coord) [2]V {
	var out [2]V
	for i, d := range VerticalDirections {
		out[i] = a.Get(coord.Add(d))
	}
	return out
}

// SetVoxelOff erases the voxel at coord back to the tree's background value
// and marks all 6 face-neighbors dirty, since removing a solid cell changes
// which of their faces are culled (§4.2, mirroring the source accessor's
// set_voxel_off).
func SetVoxelOff(acc *Accessor[Voxel], coord Coord) {
	acc.Set(coord, acc.tree.Background(), false)
	for _, d := range GridDirections {
		acc.MarkRedraw(coord.Add(d))
	}
}
