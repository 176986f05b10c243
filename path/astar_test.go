package path

import (
	"context"
	"testing"

	"github.com/phanxgames/voxelcore"
)

// stubDefs treats matter id 1 as solid/opaque ground and everything else as
// open air.
type stubDefs struct{}

func (stubDefs) IsOpaque(matterID uint8) bool { return matterID == 1 }
func (stubDefs) IsSolid(matterID uint8) bool  { return matterID == 1 }
func (stubDefs) FaceTextureID(matterID uint8, face voxelcore.GridDirection) int { return 0 }

const ground uint8 = 1

// flatFloor returns a voxel tree and accessor with a solid floor at y=-1
// spanning x,z in [-r, r].
func flatFloor(r int32) (*voxelcore.Tree[voxelcore.Voxel], *voxelcore.Accessor[voxelcore.Voxel]) {
	tree := voxelcore.NewTree(voxelcore.Voxel{})
	acc := voxelcore.NewAccessor(tree)
	for x := -r; x <= r; x++ {
		for z := -r; z <= r; z++ {
			acc.Set(voxelcore.Coord{X: x, Y: -1, Z: z}, voxelcore.Voxel{MatterID: ground}, true)
		}
	}
	return tree, acc
}

func TestWalkableRequiresSupportAndClearance(t *testing.T) {
	_, voxels := flatFloor(3)
	entities := voxelcore.NewAccessor(voxelcore.NewTree(voxelcore.NoEntity))

	if !Walkable(voxelcore.Coord{0, 0, 0}, voxels, entities, stubDefs{}) {
		t.Fatalf("cell on top of floor should be walkable")
	}
	if Walkable(voxelcore.Coord{0, 5, 0}, voxels, entities, stubDefs{}) {
		t.Fatalf("cell with no support should not be walkable")
	}
}

func TestFindGroundStraightLine(t *testing.T) {
	_, voxels := flatFloor(10)
	entities := voxelcore.NewAccessor(voxelcore.NewTree(voxelcore.NoEntity))

	start := voxelcore.Coord{0, 0, 0}
	target := voxelcore.Coord{5, 0, 0}

	coords, cost, ok := FindGround(start, target, 1, 1, voxels, entities, stubDefs{})
	if !ok {
		t.Fatalf("expected a path from %+v to %+v", start, target)
	}
	if coords[0] != start {
		t.Fatalf("path does not start at start: %+v", coords[0])
	}
	if coords[len(coords)-1] != target {
		t.Fatalf("path does not end at target: %+v", coords[len(coords)-1])
	}
	if cost != 5 {
		t.Fatalf("cost = %d, want 5 for a 5-step horizontal walk", cost)
	}
	for i := 1; i < len(coords); i++ {
		d := Distance(coords[i-1], coords[i])
		if d != 1 && d != 2 {
			t.Fatalf("non-adjacent step between %+v and %+v", coords[i-1], coords[i])
		}
	}
}

func TestFindGroundFailsWhenTargetUnwalkable(t *testing.T) {
	_, voxels := flatFloor(5)
	entities := voxelcore.NewAccessor(voxelcore.NewTree(voxelcore.NoEntity))

	// target has no floor beneath it
	target := voxelcore.Coord{100, 100, 100}
	_, _, ok := FindGround(voxelcore.Coord{0, 0, 0}, target, 1, 1, voxels, entities, stubDefs{})
	if ok {
		t.Fatalf("expected no path to an unsupported target")
	}
}

func TestFindGroundFailsWhenTargetOccupied(t *testing.T) {
	_, voxels := flatFloor(5)
	entityTree := voxelcore.NewTree(voxelcore.NoEntity)
	entities := voxelcore.NewAccessor(entityTree)

	target := voxelcore.Coord{3, 0, 0}
	entities.SetOn(target, voxelcore.Ref(7))

	_, _, ok := FindGround(voxelcore.Coord{0, 0, 0}, target, 1, 1, voxels, entities, stubDefs{})
	if ok {
		t.Fatalf("expected no path to an occupied target")
	}
}

func TestFindGroundNoPathBeyondRangeCutoff(t *testing.T) {
	_, voxels := flatFloor(40)
	entities := voxelcore.NewAccessor(voxelcore.NewTree(voxelcore.NoEntity))

	target := voxelcore.Coord{40, 0, 0}
	_, _, ok := FindGround(voxelcore.Coord{0, 0, 0}, target, 1, 1, voxels, entities, stubDefs{})
	if ok {
		t.Fatalf("expected no path beyond the range cutoff")
	}
}

func TestFindManyGroundRunsBatchConcurrently(t *testing.T) {
	tree, _ := flatFloor(10)
	entityTree := voxelcore.NewTree(voxelcore.NoEntity)

	queries := []Query{
		{Start: voxelcore.Coord{0, 0, 0}, Target: voxelcore.Coord{2, 0, 0}, MaxJump: 1, MaxFall: 1},
		{Start: voxelcore.Coord{0, 0, 0}, Target: voxelcore.Coord{-2, 0, 0}, MaxJump: 1, MaxFall: 1},
		{Start: voxelcore.Coord{0, 0, 0}, Target: voxelcore.Coord{0, 0, 2}, MaxJump: 1, MaxFall: 1},
	}

	results, err := FindManyGround(context.Background(), queries,
		func() *voxelcore.Accessor[voxelcore.Voxel] { return voxelcore.NewAccessor(tree) },
		func() *voxelcore.Accessor[voxelcore.EntityRef] { return voxelcore.NewAccessor(entityTree) },
		stubDefs{},
	)
	if err != nil {
		t.Fatalf("FindManyGround: %v", err)
	}
	if len(results) != len(queries) {
		t.Fatalf("got %d results, want %d", len(results), len(queries))
	}
	for i, r := range results {
		if !r.OK {
			t.Errorf("query %d: expected a path", i)
		}
	}
}
