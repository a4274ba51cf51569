package event

import "github.com/hexateam/rtype-core/internal/core/ecs"

// Game event types (spec §2, grounded on original_source/server/Events/GameEvent/*).

// PlayerJoined fires when a player's entity is spawned into a room.
type PlayerJoined struct {
	RoomID   string
	PlayerID string
	EntityID ecs.EntityID
}

// PlayerLeft fires when a player's entity is despawned (disconnect or
// explicit leave).
type PlayerLeft struct {
	RoomID   string
	PlayerID string
	Reason   string
}

// GameStarted fires once, when a room transitions STARTING → IN_PROGRESS.
type GameStarted struct {
	RoomID string
	Tick   uint64
}

// GameEnded fires once, when a room transitions IN_PROGRESS → FINISHED.
type GameEnded struct {
	RoomID   string
	Tick     uint64
	Duration float64 // seconds of simulated time
}

// EntityCreated fires when Spawn instantiates a new entity (projectile or
// AI-spawned enemy).
type EntityCreated struct {
	RoomID   string
	EntityID ecs.EntityID
	TypeTag  string
}

// EntityKilled fires when Health marks an entity dead.
type EntityKilled struct {
	RoomID   string
	EntityID ecs.EntityID
	Killer   ecs.EntityID
}
