package path

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/voxelcore"
)

// Query is one independent FindGround request in a FindManyGround batch.
type Query struct {
	Start, Target   voxelcore.Coord
	MaxJump, MaxFall int
}

// Result is the outcome of one Query, at the same index in the returned
// slice.
type Result struct {
	Coords []voxelcore.Coord
	Cost   int
	OK     bool
}

// FindManyGround runs a batch of independent ground-path queries
// concurrently, one Accessor per goroutine per the reader-parallel
// scheduling model (§5): the pathfinder phase of a tick may run many
// reader tasks in parallel, each against its own Accessor over the shared
// voxel and entity trees. newVoxelAccessor/newEntityAccessor construct a
// fresh per-goroutine Accessor (typically voxelcore.NewAccessor(tree)).
func FindManyGround(
	ctx context.Context,
	queries []Query,
	newVoxelAccessor func() *voxelcore.Accessor[voxelcore.Voxel],
	newEntityAccessor func() *voxelcore.Accessor[voxelcore.EntityRef],
	defs voxelcore.MatterDefs,
) ([]Result, error) {
	results := make([]Result, len(queries))

	g, _ := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			voxels := newVoxelAccessor()
			entities := newEntityAccessor()
			coords, cost, ok := FindGround(q.Start, q.Target, q.MaxJump, q.MaxFall, voxels, entities, defs)
			results[i] = Result{Coords: coords, Cost: cost, OK: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
