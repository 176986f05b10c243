// Package ecsbridge wires a voxelcore Tree to a donburi ECS world: it
// spawns/despawns the mesh entities a Tree's Root nodes hold handles to,
// and it publishes redraw-ready events the way the teacher's donburi
// adapter publishes interaction events.
package ecsbridge

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/voxelcore"
	"github.com/phanxgames/voxelcore/mesh"
)

// MeshReadyEvent announces that a Trunk region's geometry has been
// rebuilt and assigned to an entity.
type MeshReadyEvent struct {
	Origin voxelcore.Coord
	Entity donburi.Entity
}

// MeshReadyEventType is the donburi event type MeshReadyEvent is published
// on. Subscribe with events.Subscribe and drain with events.ProcessEvents,
// mirroring the teacher's InteractionEventType.
var MeshReadyEventType = events.NewEventType[MeshReadyEvent]()

// MeshClearedEvent announces that a Trunk region's geometry re-meshed to
// nothing: the entity that used to carry it has been despawned and the
// caller should treat this region as having no mesh at all.
type MeshClearedEvent struct {
	Origin voxelcore.Coord
}

// MeshClearedEventType is the donburi event type MeshClearedEvent is
// published on.
var MeshClearedEventType = events.NewEventType[MeshClearedEvent]()

// MeshHandle is the component carrying a Leaf/Trunk's built geometry.
type MeshHandle struct {
	Origin voxelcore.Coord
	Data   mesh.Data
}

// MeshHandleComponent is the donburi component type for MeshHandle.
var MeshHandleComponent = donburi.NewComponentType[MeshHandle]()

// Occupant marks an entity as currently occupying a voxel cell, mirroring
// the EntityRef value stored in an occupancy Tree.
type Occupant struct {
	Coord voxelcore.Coord
}

// OccupantComponent is the donburi component type for Occupant.
var OccupantComponent = donburi.NewComponentType[Occupant]()

// AssignMesh spawns a fresh entity carrying data as a MeshHandle, records
// it on tree's Root entry for origin (despawning whatever entity was there
// before), and publishes a MeshReadyEvent.
func AssignMesh[V comparable](tree *voxelcore.Tree[V], world donburi.World, origin voxelcore.Coord, data mesh.Data) donburi.Entity {
	entity := world.Create(MeshHandleComponent)
	entry := world.Entry(entity)
	MeshHandleComponent.Set(entry, &MeshHandle{Origin: origin, Data: data})

	tree.AssignMesh(origin, entity, func(stale donburi.Entity) {
		if world.Valid(stale) {
			world.Remove(stale)
		}
	})

	MeshReadyEventType.Publish(world, MeshReadyEvent{Origin: origin, Entity: entity})
	return entity
}

// ReleaseMesh despawns whatever mesh entity tree has recorded for origin
// and publishes a MeshClearedEvent, without spawning a replacement. Call
// this instead of AssignMesh when a mesher reports empty Data for a
// previously-meshed region, so a now fully-culled Leaf's stale render
// entity is dropped rather than left behind (§4.3).
func ReleaseMesh[V comparable](tree *voxelcore.Tree[V], world donburi.World, origin voxelcore.Coord) {
	tree.ClearMesh(origin, func(stale donburi.Entity) {
		if world.Valid(stale) {
			world.Remove(stale)
		}
	})

	MeshClearedEventType.Publish(world, MeshClearedEvent{Origin: origin})
}

// ApplyMesh is the Mesher.RemeshDirty emit callback glue: it assigns a
// fresh mesh entity for non-empty data, or releases the Trunk's previous
// entity when a dirty Leaf re-meshes to nothing.
func ApplyMesh[V comparable](tree *voxelcore.Tree[V], world donburi.World, origin voxelcore.Coord, data mesh.Data) {
	if data.IsEmpty() {
		ReleaseMesh(tree, world, origin)
		return
	}
	AssignMesh(tree, world, origin, data)
}

// SpawnOccupant creates an entity tagged as occupying coord and writes its
// reference into the occupancy tree via acc.
func SpawnOccupant(world donburi.World, acc *voxelcore.Accessor[voxelcore.EntityRef], coord voxelcore.Coord) donburi.Entity {
	entity := world.Create(OccupantComponent)
	entry := world.Entry(entity)
	OccupantComponent.Set(entry, &Occupant{Coord: coord})
	acc.SetOn(coord, voxelcore.Ref(entity))
	return entity
}

// DespawnOccupant clears the occupancy tree entry at coord and removes the
// entity from world, if it is still valid.
func DespawnOccupant(world donburi.World, acc *voxelcore.Accessor[voxelcore.EntityRef], coord voxelcore.Coord) {
	ref := acc.Get(coord)
	acc.SetOff(coord, voxelcore.NoEntity)
	if !ref.IsEmpty() && world.Valid(ref.Entity) {
		world.Remove(ref.Entity)
	}
}
