package voxelcore

import "testing"

func TestGetBackgroundByDefault(t *testing.T) {
	tree := NewTree(Voxel{})
	acc := NewAccessor(tree)

	got := acc.Get(Coord{1, 2, 3})
	if got != (Voxel{}) {
		t.Fatalf("Get on virgin coord = %+v, want background", got)
	}
}

func TestSetThenGetRoundTrip(t *testing.T) {
	tree := NewTree(Voxel{})
	acc := NewAccessor(tree)

	c := Coord{100, -5, 42}
	want := Voxel{MatterID: 7, State: 1}
	acc.Set(c, want, true)

	if got := acc.Get(c); got != want {
		t.Fatalf("Get after Set = %+v, want %+v", got, want)
	}
}

func TestSetIsIdempotent(t *testing.T) {
	tree := NewTree(Voxel{})
	acc := NewAccessor(tree)

	c := Coord{8, 8, 8}
	v := Voxel{MatterID: 3}
	acc.Set(c, v, true)
	acc.Set(c, v, true)

	if got := acc.Get(c); got != v {
		t.Fatalf("Get after repeated Set = %+v, want %+v", got, v)
	}
}

func TestEraseReturnsToBackground(t *testing.T) {
	tree := NewTree(Voxel{})
	acc := NewAccessor(tree)

	c := Coord{1, 1, 1}
	acc.Set(c, Voxel{MatterID: 9}, true)
	acc.Set(c, tree.Background(), false)

	if got := acc.Get(c); got != tree.Background() {
		t.Fatalf("Get after erase = %+v, want background", got)
	}
}

func TestEraseOnVirginCoordIsNoop(t *testing.T) {
	tree := NewTree(Voxel{})

	tree.mu.RLock()
	before := len(tree.entries)
	tree.mu.RUnlock()

	acc := NewAccessor(tree)
	acc.Set(Coord{5, 5, 5}, tree.Background(), false)

	tree.mu.RLock()
	after := len(tree.entries)
	tree.mu.RUnlock()

	if after != before {
		t.Fatalf("erase on virgin coord materialized a Root entry: before=%d after=%d", before, after)
	}
}

func TestDifferentCoordsAreIndependent(t *testing.T) {
	tree := NewTree(Voxel{})
	acc := NewAccessor(tree)

	a := Coord{0, 0, 0}
	b := Coord{1, 0, 0}
	acc.Set(a, Voxel{MatterID: 1}, true)

	if got := acc.Get(b); got != tree.Background() {
		t.Fatalf("Get(b) = %+v after writing only a, want background", got)
	}
}

func TestIterDirtyLeavesYieldsWrittenLeafExactlyOnce(t *testing.T) {
	tree := NewTree(Voxel{})
	acc := NewAccessor(tree)

	c := Coord{3, 3, 3}
	acc.Set(c, Voxel{MatterID: 2}, true)

	seen := 0
	tree.IterDirtyLeaves(
		func(origin Coord, leaf *LeafView[Voxel]) {
			seen++
			found := false
			leaf.Active(func(coord Coord, v Voxel) {
				if coord == c {
					found = true
				}
			})
			if !found {
				t.Errorf("dirty leaf at %+v did not contain written coord %+v", origin, c)
			}
		},
		func(origin Coord, level string, v Voxel) {},
	)
	if seen != 1 {
		t.Fatalf("IterDirtyLeaves visited %d leaves, want 1", seen)
	}
}

func TestIterDirtyLeavesIsRestartableUntilClearDirty(t *testing.T) {
	tree := NewTree(Voxel{})
	acc := NewAccessor(tree)
	acc.Set(Coord{3, 3, 3}, Voxel{MatterID: 2}, true)

	countLeaves := func() int {
		seen := 0
		tree.IterDirtyLeaves(
			func(Coord, *LeafView[Voxel]) { seen++ },
			func(Coord, string, Voxel) {},
		)
		return seen
	}

	if got := countLeaves(); got != 1 {
		t.Fatalf("first IterDirtyLeaves call saw %d leaves, want 1", got)
	}
	// Repeating without ClearDirty must yield the same dirty set again.
	if got := countLeaves(); got != 1 {
		t.Fatalf("second IterDirtyLeaves call (no ClearDirty) saw %d leaves, want 1", got)
	}

	tree.ClearDirty()
	if got := countLeaves(); got != 0 {
		t.Fatalf("IterDirtyLeaves after ClearDirty saw %d leaves, want 0", got)
	}
}

func TestClearDirtyAcrossDifferentTrunksYieldsNothingAfter(t *testing.T) {
	tree := NewTree(Voxel{})
	acc := NewAccessor(tree)

	// (100,0,0) and (4200,0,0) lie in different Trunks (trunk side is 4096).
	acc.Set(Coord{100, 0, 0}, Voxel{MatterID: 1}, true)
	acc.Set(Coord{4200, 0, 0}, Voxel{MatterID: 1}, true)

	seen := 0
	tree.IterDirtyLeaves(
		func(Coord, *LeafView[Voxel]) { seen++ },
		func(Coord, string, Voxel) {},
	)
	if seen != 2 {
		t.Fatalf("IterDirtyLeaves saw %d leaves, want 2", seen)
	}

	tree.ClearDirty()
	seen = 0
	tree.IterDirtyLeaves(
		func(Coord, *LeafView[Voxel]) { seen++ },
		func(Coord, string, Voxel) {},
	)
	if seen != 0 {
		t.Fatalf("IterDirtyLeaves after ClearDirty saw %d leaves, want 0", seen)
	}
}

func TestSetVoxelOffMarksSixNeighborsDirty(t *testing.T) {
	tree := NewTree(Voxel{})
	acc := NewAccessor(tree)

	c := Coord{16, 16, 16}
	acc.Set(c, Voxel{MatterID: 5}, true)
	for _, d := range GridDirections {
		acc.Set(c.Add(d), Voxel{MatterID: 5}, true)
	}

	// Drain the dirty set from the writes above.
	tree.ClearDirty()

	SetVoxelOff(acc, c)

	dirty := map[Coord]bool{}
	tree.IterDirtyLeaves(
		func(origin Coord, leaf *LeafView[Voxel]) {
			leaf.Active(func(coord Coord, v Voxel) { dirty[coord] = true })
		},
		func(Coord, string, Voxel) {},
	)

	for _, d := range GridDirections {
		n := c.Add(d)
		if !dirty[n] {
			t.Errorf("neighbor %+v not marked dirty after SetVoxelOff(%+v)", n, c)
		}
	}
}

func TestWarmAccessorCacheStillMarksRootDirtyAfterClearDirty(t *testing.T) {
	tree := NewTree(Voxel{})
	acc := NewAccessor(tree)

	// a and b share a Trunk but sit in different Branches (branch side is
	// 128), so re-touching b after a leaves the Accessor's Trunk (and
	// rootEntry) cache warm while its Branch/Leaf cache misses and falls
	// through to the Trunk-cache-hit fast path.
	a := Coord{0, 0, 0}
	b := Coord{256, 0, 0}

	acc.Set(a, Voxel{MatterID: 1}, true)
	acc.Set(b, Voxel{MatterID: 1}, true)
	tree.ClearDirty()

	// Re-touch both coords through the now-warm Accessor. Neither write
	// goes through Tree.setValueAndCache/markRedraw (the only places the
	// pre-fix code set the Root entry's redraw flag) — both land in a
	// fast path that hits a cached Trunk/Branch/Leaf directly.
	acc.Set(a, Voxel{MatterID: 2}, true)
	acc.MarkRedraw(b)

	seen := map[Coord]bool{}
	tree.IterDirtyLeaves(
		func(origin Coord, leaf *LeafView[Voxel]) {
			leaf.Active(func(coord Coord, v Voxel) { seen[coord] = true })
		},
		func(Coord, string, Voxel) {},
	)

	if !seen[a] {
		t.Errorf("write through warm accessor cache at %+v was invisible to IterDirtyLeaves", a)
	}
	if !seen[b] {
		t.Errorf("MarkRedraw through warm accessor cache at %+v was invisible to IterDirtyLeaves", b)
	}
}

func TestStatsCountsMaterializedNodesAcrossTrunks(t *testing.T) {
	tree := NewTree(Voxel{})
	acc := NewAccessor(tree)

	acc.Set(Coord{0, 0, 0}, Voxel{MatterID: 1}, true)
	acc.Set(Coord{5000, 0, 0}, Voxel{MatterID: 1}, true)

	stats := tree.Stats()
	if stats.RootEntries != 2 {
		t.Fatalf("RootEntries = %d, want 2", stats.RootEntries)
	}
	if stats.TrunkNodes != 2 {
		t.Fatalf("TrunkNodes = %d, want 2", stats.TrunkNodes)
	}
	if stats.LeafNodes != 2 {
		t.Fatalf("LeafNodes = %d, want 2", stats.LeafNodes)
	}
	if stats.BytesApprox <= 0 {
		t.Fatalf("BytesApprox = %d, want > 0", stats.BytesApprox)
	}
}

func TestStatsOnEmptyTreeIsZero(t *testing.T) {
	tree := NewTree(Voxel{})
	stats := tree.Stats()
	if stats != (TreeStats{}) {
		t.Fatalf("Stats() on empty tree = %+v, want zero value", stats)
	}
}

func TestAccessorCacheConsistentWithFreshAccessor(t *testing.T) {
	tree := NewTree(Voxel{})
	warm := NewAccessor(tree)

	coords := []Coord{
		{0, 0, 0}, {7, 7, 7}, {8, 8, 8}, {31, 0, 0}, {32, 0, 0},
		{-1, -1, -1}, {100, 100, 100},
	}
	for i, c := range coords {
		warm.Set(c, Voxel{MatterID: uint8(i + 1)}, true)
	}

	fresh := NewAccessor(tree)
	for i, c := range coords {
		want := Voxel{MatterID: uint8(i + 1)}
		if got := warm.Get(c); got != want {
			t.Errorf("warm accessor Get(%+v) = %+v, want %+v", c, got, want)
		}
		if got := fresh.Get(c); got != want {
			t.Errorf("fresh accessor Get(%+v) = %+v, want %+v", c, got, want)
		}
	}
}
