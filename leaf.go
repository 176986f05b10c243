package voxelcore

import (
	"sync"

	"github.com/phanxgames/voxelcore/internal/bitset"
)

// leafNode is the densest level of the tree: 512 cells of V plus a 512-bit
// value-mask. Leaves carry no redraw mask of their own — the enclosing
// Branch tracks per-leaf-slot redraw (§3).
type leafNode[V comparable] struct {
	mu        sync.RWMutex
	origin    Coord
	data      [leafSize]V
	valueMask bitset.Set
}

func newLeaf[V comparable](coord Coord, background V, active bool) *leafNode[V] {
	l := &leafNode[V]{
		origin:    leafKey(coord),
		valueMask: bitset.New(leafSize, active),
	}
	for i := range l.data {
		l.data[i] = background
	}
	return l
}

// globalCoord returns the global coordinate of cell index within this leaf.
func (l *leafNode[V]) globalCoord(index int) Coord {
	return leafLocalCoord(index).Add(l.origin)
}

func (l *leafNode[V]) getValueAt(coord Coord) V {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.data[leafIndex(coord)]
}

func (l *leafNode[V]) setValueAt(coord Coord, value V, active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := leafIndex(coord)
	l.data[idx] = value
	l.valueMask.Set(idx, active)
}

// isActiveEqual reports whether coord already holds value with the given
// active state, under the leaf's read lock — used by Set to short-circuit
// the no-op case without acquiring a write lock.
func (l *leafNode[V]) isActiveEqual(coord Coord, value V, active bool) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx := leafIndex(coord)
	return l.data[idx] == value && l.valueMask.Test(idx) == active
}
