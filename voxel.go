package voxelcore

// VoxelMatterState occupies the low 2 bits of a matter definition's state
// classification: Void, Gas, Liquid, or Solid.
type VoxelMatterState uint8

const (
	MatterVoid VoxelMatterState = iota
	MatterGas
	MatterLiquid
	MatterSolid
)

// VoxelState is a per-cell flag byte. Blocked marks a cell as impassable
// independent of its matter's solidity (e.g. a closed door).
type VoxelState uint8

const (
	VoxelStateNone    VoxelState = 0x00
	VoxelStateBlocked VoxelState = 0x80
)

// Voxel is the terrain value type: a matter id plus a per-cell state flag
// byte. Two bytes total, trivially copyable and comparable.
type Voxel struct {
	MatterID uint8
	State    uint8
}

// MatterDefs is the read-only collaborator the mesher and pathfinder consume
// to interpret a Voxel's MatterID. Implementations are expected to clamp
// out-of-range ids to id 0 rather than erroring (§7): the core never fails.
type MatterDefs interface {
	// IsOpaque reports whether matterID fully occludes adjacent faces.
	// Only solids can be opaque, but not all solids are opaque.
	IsOpaque(matterID uint8) bool
	// IsSolid reports whether matterID is structurally solid matter.
	IsSolid(matterID uint8) bool
	// FaceTextureID returns the atlas tile index for the given face (0..5,
	// matching the GridDirection ordering) of matterID.
	FaceTextureID(matterID uint8, face GridDirection) int
}

// IsBlocked reports whether a unit cannot pass through this voxel: either
// its matter is solid, or its per-cell Blocked flag is set.
func (v Voxel) IsBlocked(defs MatterDefs) bool {
	return defs.IsSolid(v.MatterID) || v.State&uint8(VoxelStateBlocked) != 0
}

// IsOpaque reports whether this voxel's matter occludes neighboring faces.
func (v Voxel) IsOpaque(defs MatterDefs) bool {
	return defs.IsOpaque(v.MatterID)
}

// FaceTextureID returns the atlas tile index for the given face of this
// voxel's matter.
func (v Voxel) FaceTextureID(face GridDirection, defs MatterDefs) int {
	return defs.FaceTextureID(v.MatterID, face)
}
