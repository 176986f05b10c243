// Package path implements an A* ground pathfinder over a voxelcore Voxel
// tree, with an entity-occupancy tree consulted for "is this cell taken"
// checks. Successor generation (walk/jump/fall) and the admissible
// heuristic are ported from the source pathfinder this package
// generalizes (§4.4); the search loop itself is a plain binary-heap A*
// since no graph-search library in the corpus fits a voxel-grid successor
// function this shaped (see the module's design notes).
package path

import (
	"container/heap"

	"github.com/phanxgames/voxelcore"
)

// RangeCutoff bounds how far from the start a candidate node may be before
// no further successors are generated from it (§4.4).
const RangeCutoff = 32

// Distance is the admissible heuristic used by both the A* search and the
// range cutoff: vertical movement costs twice horizontal.
func Distance(a, b voxelcore.Coord) int {
	dx := absInt32(a.X - b.X)
	dy := absInt32(a.Y - b.Y)
	dz := absInt32(a.Z - b.Z)
	return int(dx) + 2*int(dy) + int(dz)
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Walkable reports whether c is a legal standing cell: not blocked,
// unoccupied, and supported by a blocked cell directly beneath it (§4.4).
func Walkable(c voxelcore.Coord, voxels *voxelcore.Accessor[voxelcore.Voxel], entities *voxelcore.Accessor[voxelcore.EntityRef], defs voxelcore.MatterDefs) bool {
	v := voxels.Get(c)
	if v.IsBlocked(defs) {
		return false
	}
	if !entities.Get(c).IsEmpty() {
		return false
	}
	below := voxels.Get(c.Add(voxelcore.Coord{X: 0, Y: -1, Z: 0}))
	return below.IsBlocked(defs)
}

type successor struct {
	coord voxelcore.Coord
	cost  int
}

// groundSuccessors enumerates the legal moves from a standing cell n,
// per §4.4: horizontal walks, jump-then-walk, and fall-then-drop.
func groundSuccessors(n, start voxelcore.Coord, maxJump, maxFall int, voxels *voxelcore.Accessor[voxelcore.Voxel], entities *voxelcore.Accessor[voxelcore.EntityRef], defs voxelcore.MatterDefs) []successor {
	if Distance(n, start) > RangeCutoff {
		return nil
	}

	var out []successor
	appendWalkSuccessors(n, &out, voxels, entities, defs)
	appendJumpSuccessors(n, maxJump, &out, voxels, entities, defs)
	appendFallSuccessors(n, maxFall, &out, voxels, entities, defs)
	return out
}

func appendWalkSuccessors(n voxelcore.Coord, out *[]successor, voxels *voxelcore.Accessor[voxelcore.Voxel], entities *voxelcore.Accessor[voxelcore.EntityRef], defs voxelcore.MatterDefs) {
	for _, d := range voxelcore.SideDirections {
		c := n.Add(d)
		if Walkable(c, voxels, entities, defs) {
			*out = append(*out, successor{coord: c, cost: 1})
		}
	}
}

func appendJumpSuccessors(n voxelcore.Coord, maxJump int, out *[]successor, voxels *voxelcore.Accessor[voxelcore.Voxel], entities *voxelcore.Accessor[voxelcore.EntityRef], defs voxelcore.MatterDefs) {
	for jump := 0; jump < maxJump; jump++ {
		apex := n.Add(voxelcore.Coord{X: 0, Y: int32(1 + jump), Z: 0})
		if voxels.Get(apex).IsBlocked(defs) {
			break
		}
		if !entities.Get(apex).IsEmpty() {
			break
		}
		*out = append(*out, successor{coord: apex, cost: 2})
		appendWalkSuccessors(apex, out, voxels, entities, defs)
	}
}

func appendFallSuccessors(n voxelcore.Coord, maxFall int, out *[]successor, voxels *voxelcore.Accessor[voxelcore.Voxel], entities *voxelcore.Accessor[voxelcore.EntityRef], defs voxelcore.MatterDefs) {
	for _, d := range voxelcore.SideDirections {
		side := n.Add(d)
		sideVoxel := voxels.Get(side)
		if sideVoxel.IsBlocked(defs) || !entities.Get(side).IsEmpty() {
			continue
		}
		*out = append(*out, successor{coord: side, cost: 1})

		for fall := 0; fall < maxFall; fall++ {
			below := side.Add(voxelcore.Coord{X: 0, Y: -int32(1 + fall), Z: 0})
			if voxels.Get(below).IsBlocked(defs) || !entities.Get(below).IsEmpty() {
				continue
			}
			*out = append(*out, successor{coord: below, cost: 2})
		}
	}
}

// searchNode is one heap entry: a candidate (coord, cost-so-far) pair
// discovered at push time. Entries are disposable snapshots — the
// authoritative best-known cost for a coord lives in FindGround's bestG
// map, so a stale entry (superseded by a cheaper path found later) is
// simply skipped when popped.
type searchNode struct {
	coord voxelcore.Coord
	gCost int
	fCost int
}

// openHeap is a min-heap on fCost. Nodes are re-pushed whenever a cheaper
// path is found rather than repositioned in place; stale entries are
// dropped lazily in FindGround via the closed/best-known-cost checks.
type openHeap []*searchNode

func (h openHeap) Len() int           { return len(h) }
func (h openHeap) Less(i, j int) bool { return h[i].fCost < h[j].fCost }
func (h openHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any) {
	*h = append(*h, x.(*searchNode))
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// FindGround runs A* from start to target using voxels for terrain and
// entities as an occupancy index, with maxJump/maxFall bounding vertical
// successor generation. Returns the path (start first, target last) and
// its total cost, or ok=false if no path exists.
//
// Per §4.4, the search fails fast—before any expansion—if target is not
// walkable or is occupied.
func FindGround(start, target voxelcore.Coord, maxJump, maxFall int, voxels *voxelcore.Accessor[voxelcore.Voxel], entities *voxelcore.Accessor[voxelcore.EntityRef], defs voxelcore.MatterDefs) (coords []voxelcore.Coord, cost int, ok bool) {
	if !Walkable(target, voxels, entities, defs) {
		return nil, 0, false
	}
	if !entities.Get(target).IsEmpty() {
		return nil, 0, false
	}

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, &searchNode{coord: start, gCost: 0, fCost: Distance(start, target)})

	bestG := map[voxelcore.Coord]int{start: 0}
	came := map[voxelcore.Coord]voxelcore.Coord{}
	closed := map[voxelcore.Coord]bool{}

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		if closed[current.coord] {
			continue
		}
		if g, ok := bestG[current.coord]; ok && current.gCost > g {
			continue // stale entry, a cheaper path was found after this was pushed
		}
		closed[current.coord] = true

		if current.coord == target {
			return reconstructPath(came, start, target), current.gCost, true
		}

		for _, succ := range groundSuccessors(current.coord, start, maxJump, maxFall, voxels, entities, defs) {
			if closed[succ.coord] {
				continue
			}
			g := current.gCost + succ.cost
			if best, seen := bestG[succ.coord]; seen && g >= best {
				continue
			}

			bestG[succ.coord] = g
			came[succ.coord] = current.coord
			heap.Push(open, &searchNode{coord: succ.coord, gCost: g, fCost: g + Distance(succ.coord, target)})
		}
	}

	return nil, 0, false
}

func reconstructPath(came map[voxelcore.Coord]voxelcore.Coord, start, target voxelcore.Coord) []voxelcore.Coord {
	rev := []voxelcore.Coord{target}
	c := target
	for c != start {
		parent, ok := came[c]
		if !ok {
			break
		}
		c = parent
		rev = append(rev, c)
	}

	path := make([]voxelcore.Coord, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}
