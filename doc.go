// Package voxelcore is a sparse hierarchical 3D voxel data store (a "VDT",
// analogous to OpenVDB) together with its two principal consumers: an A*
// ground pathfinder and a greedy-per-leaf mesher with neighbor-aware face
// culling.
//
// The store is parameterized by value type and is typically instantiated
// twice per level: once with a matter-id [Voxel] value for terrain, and once
// with an [EntityRef] value used purely as a spatial occupancy index.
//
// # Quick start
//
//	tree := voxelcore.NewTree(voxelcore.Voxel{})
//	acc := voxelcore.NewAccessor(tree)
//	acc.Set(voxelcore.Coord{X: 0, Y: 0, Z: 0}, voxelcore.Voxel{MatterID: 4}, true)
//	v := acc.Get(voxelcore.Coord{X: 0, Y: 0, Z: 0})
//
// Mutations propagate redraw markers up through Branch, Trunk, and Root so a
// mesh pass (see the mesh subpackage) can re-emit only the leaves that
// changed. An [Accessor] caches the most recently visited node at each level
// so spatially coherent traversals — meshing, ray walks, and the A*
// pathfinder in the path subpackage — run in effectively O(1) per step.
//
// See SPEC_FULL.md in the module root for the full design rationale.
package voxelcore

// LeafLog2Dim, BranchLog2Dim, and TrunkLog2Dim are the log2 side lengths of
// the three explicit node levels, fixed per the data model: Leaf 8^3=512
// cells, Branch 16^3=4096 children, Trunk 32^3=32768 children.
const (
	LeafLog2Dim   = 3
	BranchLog2Dim = 4
	TrunkLog2Dim  = 5
)

const (
	leafSide  = 1 << LeafLog2Dim
	leafSize  = leafSide * leafSide * leafSide
	leafMask  = leafSide - 1
	leafAlign = ^int32(leafSide - 1)

	branchSide  = 1 << (BranchLog2Dim + LeafLog2Dim)
	branchSize  = 1 << (BranchLog2Dim * 3)
	branchMask  = branchSide - 1
	branchAlign = ^int32(branchSide - 1)

	trunkSide  = 1 << (TrunkLog2Dim + BranchLog2Dim + LeafLog2Dim)
	trunkSize  = 1 << (TrunkLog2Dim * 3)
	trunkMask  = trunkSide - 1
	trunkAlign = ^int32(trunkSide - 1)
)
