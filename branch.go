package voxelcore

import (
	"sync"

	"github.com/phanxgames/voxelcore/internal/bitset"
)

// branchNode holds 4096 child slots; each slot is either an explicit Leaf
// or a constant tile value (§3).
type branchNode[V comparable] struct {
	mu         sync.RWMutex
	origin     Coord
	childMask  bitset.Set // bit set => slot holds an explicit Leaf
	valueMask  bitset.Set // bit mirrors the slot's active state
	redrawMask bitset.Set // bit set => slot needs re-meshing

	children []*leafNode[V]
	tiles    []V
}

func newBranch[V comparable](coord Coord, background V, active bool) *branchNode[V] {
	tiles := make([]V, branchSize)
	for i := range tiles {
		tiles[i] = background
	}
	return &branchNode[V]{
		origin:     branchKey(coord),
		childMask:  bitset.New(branchSize, false),
		valueMask:  bitset.New(branchSize, active),
		redrawMask: bitset.New(branchSize, false),
		children:   make([]*leafNode[V], branchSize),
		tiles:      tiles,
	}
}

// getValueAndCache returns the value at coord and, if the enclosing slot has
// an explicit Leaf, that Leaf (for the accessor to cache).
func (b *branchNode[V]) getValueAndCache(coord Coord) (V, *leafNode[V]) {
	idx := branchIndex(coord)
	b.mu.RLock()
	defer b.mu.RUnlock()
	if child := b.children[idx]; child != nil {
		return child.getValueAt(coord), child
	}
	return b.tiles[idx], nil
}

// setValueAndCache writes value at coord, materializing a Leaf if the
// enclosing slot is a tile whose value or activity differs. Returns the
// Leaf now holding coord (for accessor caching) and whether the write was a
// complete no-op (§4.1 tie-break rules).
func (b *branchNode[V]) setValueAndCache(coord Coord, value V, active bool) (leaf *leafNode[V], noop bool) {
	idx := branchIndex(coord)

	b.mu.Lock()
	child := b.children[idx]
	if child == nil {
		if b.tiles[idx] == value && b.valueMask.Test(idx) == active {
			b.mu.Unlock()
			return nil, true
		}
		child = newLeaf(coord, b.tiles[idx], b.valueMask.Test(idx))
		b.children[idx] = child
		b.childMask.Set(idx, true)
	}
	b.valueMask.Set(idx, active)
	b.redrawMask.Set(idx, true)
	b.mu.Unlock()

	child.setValueAt(coord, value, active)
	return child, false
}

// markRedraw sets the redraw bit for coord's slot and returns its explicit
// Leaf child, if any, for accessor caching.
func (b *branchNode[V]) markRedraw(coord Coord) *leafNode[V] {
	idx := branchIndex(coord)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.redrawMask.Set(idx, true)
	return b.children[idx]
}

// walkDirty visits every dirty slot: leafFn for slots with an explicit
// Leaf, tileFn for dirty tile-only slots (no explicit child — the mesher
// logs these, see §9). Read-only and restartable: the redraw mask is left
// untouched, so repeated calls yield the same slots until clearDirty runs.
func (b *branchNode[V]) walkDirty(leafFn func(origin Coord, leaf *leafNode[V]), tileFn func(origin Coord, tile V)) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	idx := 0
	for {
		next, ok := b.redrawMask.NextSet(idx)
		if !ok {
			break
		}
		idx = next
		origin := branchLocalOrigin(idx).Add(b.origin)
		if child := b.children[idx]; child != nil {
			leafFn(origin, child)
		} else {
			tileFn(origin, b.tiles[idx])
		}
		idx++
	}
}

// clearDirty resets this Branch's redraw mask without visiting slots.
func (b *branchNode[V]) clearDirty() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.redrawMask.ClearAll()
}
