package voxelcore

import (
	"sync"

	"github.com/phanxgames/voxelcore/internal/bitset"
)

// trunkNode holds 32768 child slots; each slot is either an explicit Branch
// or a constant tile value (§3). Structurally identical to branchNode one
// level coarser — kept as a separate type rather than a shared generic
// "internal node" because Branch and Trunk slots address children at
// different granularities (Leaf vs. Branch), matching the distinct
// trunk.rs/branch.rs split in the data model this tree generalizes.
type trunkNode[V comparable] struct {
	mu         sync.RWMutex
	origin     Coord
	childMask  bitset.Set // bit set => slot holds an explicit Branch
	valueMask  bitset.Set // bit mirrors the slot's active state
	redrawMask bitset.Set // bit set => slot needs re-meshing

	children []*branchNode[V]
	tiles    []V
}

func newTrunk[V comparable](coord Coord, background V, active bool) *trunkNode[V] {
	tiles := make([]V, trunkSize)
	for i := range tiles {
		tiles[i] = background
	}
	return &trunkNode[V]{
		origin:     trunkKey(coord),
		childMask:  bitset.New(trunkSize, false),
		valueMask:  bitset.New(trunkSize, active),
		redrawMask: bitset.New(trunkSize, false),
		children:   make([]*branchNode[V], trunkSize),
		tiles:      tiles,
	}
}

func (t *trunkNode[V]) getValueAndCache(coord Coord) (V, *leafNode[V], *branchNode[V]) {
	idx := trunkIndex(coord)
	t.mu.RLock()
	child := t.children[idx]
	tile := t.tiles[idx]
	t.mu.RUnlock()
	if child != nil {
		value, leaf := child.getValueAndCache(coord)
		return value, leaf, child
	}
	return tile, nil, nil
}

func (t *trunkNode[V]) setValueAndCache(coord Coord, value V, active bool) (*leafNode[V], *branchNode[V]) {
	idx := trunkIndex(coord)

	t.mu.Lock()
	child := t.children[idx]
	if child == nil {
		if t.tiles[idx] == value && t.valueMask.Test(idx) == active {
			t.mu.Unlock()
			return nil, nil
		}
		child = newBranch[V](coord, t.tiles[idx], t.valueMask.Test(idx))
		t.children[idx] = child
		t.childMask.Set(idx, true)
	}
	t.valueMask.Set(idx, active)
	t.redrawMask.Set(idx, true)
	t.mu.Unlock()

	leaf, noop := child.setValueAndCache(coord, value, active)
	if noop {
		return nil, child
	}
	return leaf, child
}

// markRedraw sets the redraw bit for coord's slot and, if the slot has an
// explicit Branch, propagates the mark down to the Branch-slot and, if
// materialized that far, the Leaf — returning whichever nodes exist for
// accessor caching.
func (t *trunkNode[V]) markRedraw(coord Coord) (*leafNode[V], *branchNode[V]) {
	idx := trunkIndex(coord)
	t.mu.Lock()
	t.redrawMask.Set(idx, true)
	child := t.children[idx]
	t.mu.Unlock()

	if child == nil {
		return nil, nil
	}
	leaf := child.markRedraw(coord)
	return leaf, child
}

// walkDirty visits every Trunk slot with its redraw bit set. branchFn
// receives explicit Branch children (which recurse their own walkDirty);
// tileFn receives dirty tile-only slots for mesher diagnostics (§9).
// Read-only and restartable: the redraw mask is left untouched.
func (t *trunkNode[V]) walkDirty(branchFn func(origin Coord, branch *branchNode[V]), tileFn func(origin Coord, tile V)) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := 0
	for {
		next, ok := t.redrawMask.NextSet(idx)
		if !ok {
			break
		}
		idx = next
		origin := trunkLocalOrigin(idx).Add(t.origin)
		if child := t.children[idx]; child != nil {
			branchFn(origin, child)
		} else {
			tileFn(origin, t.tiles[idx])
		}
		idx++
	}
}

// clearDirty resets this Trunk's own redraw mask and recurses into every
// explicit Branch child so the whole subtree's dirty state is cleared.
func (t *trunkNode[V]) clearDirty() {
	t.mu.Lock()
	t.redrawMask.ClearAll()
	children := make([]*branchNode[V], len(t.children))
	copy(children, t.children)
	t.mu.Unlock()

	for _, child := range children {
		if child != nil {
			child.clearDirty()
		}
	}
}
