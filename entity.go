package voxelcore

import "github.com/yohamta/donburi"

// EntityRef is the "Maybe<Entity>" value type: a nullable reference into a
// donburi ECS world. A tree instantiated over EntityRef is used purely as a
// spatial occupancy index (§1) — walked by the pathfinder's entity-tree
// accessor to test "is this cell occupied", never meshed.
type EntityRef struct {
	Entity donburi.Entity
	Valid  bool
}

// NoEntity is the background value for an entity-occupancy tree: no entity
// present.
var NoEntity = EntityRef{Valid: false}

// Ref wraps e as a present EntityRef.
func Ref(e donburi.Entity) EntityRef {
	return EntityRef{Entity: e, Valid: true}
}

// IsEmpty reports whether this EntityRef names no entity.
func (r EntityRef) IsEmpty() bool {
	return !r.Valid
}
