// Package mesh turns dirty Leaves of a Voxel tree into triangle geometry:
// one quad per unculled face of every active cell, with atlas UVs looked up
// per matter id. Geometry is ported from the cube tables and per-cell
// neighbor-culling algorithm of the tree this package meshes (§4.3).
package mesh

import (
	"go.uber.org/zap"

	"github.com/phanxgames/voxelcore"
)

// TexAtlasDim is the number of tile columns/rows in the square texture
// atlas every matter's face textures are packed into.
const TexAtlasDim = 32

const texAtlasUVDim = 1.0 / float32(TexAtlasDim)
const cubeHalfDim = 0.5

// cubeVerts are the 8 corners of a unit cube centered on the origin,
// indexed Left/Right, Bottom/Top, Back/Front.
var cubeVerts = [8][3]float32{
	{-cubeHalfDim, -cubeHalfDim, -cubeHalfDim}, // 0 Left,  Bottom, Back
	{cubeHalfDim, -cubeHalfDim, -cubeHalfDim},  // 1 Right, Bottom, Back
	{-cubeHalfDim, cubeHalfDim, -cubeHalfDim},  // 2 Left,  Top,    Back
	{cubeHalfDim, cubeHalfDim, -cubeHalfDim},   // 3 Right, Top,    Back
	{-cubeHalfDim, -cubeHalfDim, cubeHalfDim},  // 4 Left,  Bottom, Front
	{cubeHalfDim, -cubeHalfDim, cubeHalfDim},   // 5 Right, Bottom, Front
	{-cubeHalfDim, cubeHalfDim, cubeHalfDim},   // 6 Left,  Top,    Front
	{cubeHalfDim, cubeHalfDim, cubeHalfDim},    // 7 Right, Top,    Front
}

// cubeNormals holds one outward normal per face, in GridDirection order:
// Left, Right, Bottom, Top, Back, Front.
var cubeNormals = [6][3]float32{
	{-1, 0, 0},
	{1, 0, 0},
	{0, -1, 0},
	{0, 1, 0},
	{0, 0, -1},
	{0, 0, 1},
}

var cubeUVs = [4][2]float32{
	{texAtlasUVDim - texAtlasUVDim*0.01, texAtlasUVDim - texAtlasUVDim*0.01},
	{texAtlasUVDim * 0.01, texAtlasUVDim - texAtlasUVDim*0.01},
	{texAtlasUVDim - texAtlasUVDim*0.01, texAtlasUVDim * 0.01},
	{texAtlasUVDim * 0.01, texAtlasUVDim * 0.01},
}

// cubeQuadVerts lists, per face, the 4 cubeVerts indices making up that
// face's quad (read as two triangles via cubeQuadIndices).
var cubeQuadVerts = [6][4]int{
	{4, 0, 6, 2}, // Left
	{1, 5, 3, 7}, // Right
	{4, 5, 0, 1}, // Bottom
	{2, 3, 6, 7}, // Top
	{0, 1, 2, 3}, // Back
	{5, 4, 7, 6}, // Front
}

var cubeQuadIndices = [6]uint32{0, 2, 1, 1, 2, 3}

// Data accumulates triangle-list geometry for one Leaf's worth of cubes.
// The zero value is ready to use.
type Data struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32
}

// IsEmpty reports whether no geometry has been added.
func (d *Data) IsEmpty() bool { return len(d.Positions) == 0 }

// AddCubeVoxel appends the unculled faces of one active cell at localCoord
// (relative to the Leaf's origin) to d. A face is culled when the
// corresponding face-neighbor (read through acc, so it can resolve across
// Leaf boundaries) is opaque.
func (d *Data) AddCubeVoxel(localCoord, globalCoord voxelcore.Coord, voxel voxelcore.Voxel, defs voxelcore.MatterDefs, acc *voxelcore.Accessor[voxelcore.Voxel]) {
	neighbors := acc.AdjacentValues(globalCoord)

	for face := 0; face < 6; face++ {
		if neighbors[face].IsOpaque(defs) {
			continue
		}

		vertCount := uint32(len(d.Positions))
		quad := cubeQuadVerts[face]
		textureID := voxel.FaceTextureID(voxelcore.GridDirection(face), defs)
		uvOffset := texAtlasUVDim * float32(textureID)
		uvOffsetFloor := float32(int(uvOffset))

		for i := 0; i < 4; i++ {
			v := cubeVerts[quad[i]]
			d.Positions = append(d.Positions, [3]float32{
				v[0] + float32(localCoord.X),
				v[1] + float32(localCoord.Y),
				v[2] + float32(localCoord.Z),
			})

			uv := cubeUVs[i]
			d.UVs = append(d.UVs, [2]float32{
				uv[0] + uvOffset - uvOffsetFloor,
				uv[1] + uvOffsetFloor*texAtlasUVDim,
			})
		}

		d.Normals = append(d.Normals, cubeNormals[face], cubeNormals[face], cubeNormals[face], cubeNormals[face])
		for _, idx := range cubeQuadIndices {
			d.Indices = append(d.Indices, idx+vertCount)
		}
	}
}

// BuildLeaf meshes every active cell of leaf, culling faces against acc.
func BuildLeaf(leaf *voxelcore.LeafView[voxelcore.Voxel], defs voxelcore.MatterDefs, acc *voxelcore.Accessor[voxelcore.Voxel]) Data {
	var d Data
	origin := leaf.Origin()
	leaf.Active(func(globalCoord voxelcore.Coord, v voxelcore.Voxel) {
		local := globalCoord.Sub(origin)
		d.AddCubeVoxel(local, globalCoord, v, defs, acc)
	})
	return d
}

// Mesher walks a terrain tree's dirty set and (re)builds geometry for every
// dirty Leaf, logging tile-dirty regions it cannot mesh directly (§9: the
// tree compresses uniform regions into tiles with no Leaf to mesh — a log
// line stands in for the "generate one big tile mesh" work this port
// doesn't attempt, matching the Non-goals' renderer-integration boundary).
type Mesher struct {
	Defs     voxelcore.MatterDefs
	Accessor *voxelcore.Accessor[voxelcore.Voxel]
	Log      *zap.Logger
}

// NewMesher returns a Mesher reading through acc and interpreting matter ids
// via defs.
func NewMesher(acc *voxelcore.Accessor[voxelcore.Voxel], defs voxelcore.MatterDefs, log *zap.Logger) *Mesher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mesher{Defs: defs, Accessor: acc, Log: log}
}

// RemeshDirty iterates tree's dirty set and invokes emit for every dirty
// explicit Leaf, then clears the dirty set so the next call only sees
// newly mutated regions. emit is called even when the rebuilt Data is
// empty: a Leaf that reverts to fully culled (e.g. a pocket of voxels
// sealed on every side) still needs reporting so the caller can release
// its previous render/ECS handle and replace it with "none" rather than
// leaving a stale entity behind. Callers distinguish the two cases with
// Data.IsEmpty.
func (m *Mesher) RemeshDirty(tree *voxelcore.Tree[voxelcore.Voxel], emit func(origin voxelcore.Coord, data Data)) {
	tree.IterDirtyLeaves(
		func(origin voxelcore.Coord, leaf *voxelcore.LeafView[voxelcore.Voxel]) {
			emit(origin, BuildLeaf(leaf, m.Defs, m.Accessor))
		},
		func(origin voxelcore.Coord, level string, value voxelcore.Voxel) {
			m.Log.Warn("needed tile mesh but none is generated",
				zap.String("level", level),
				zap.Int32("x", origin.X), zap.Int32("y", origin.Y), zap.Int32("z", origin.Z),
				zap.Uint8("matter_id", value.MatterID),
			)
		},
	)
	tree.ClearDirty()
}
