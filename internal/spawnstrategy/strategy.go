// Package spawnstrategy defines the opaque "spawn strategy" plugin
// interface (spec §1, §6): enemy wave composition is a collaborator the
// core invokes, not logic the core owns. Grounded on
// original_source/server/Scripting/LuaEngine.cpp and the teacher's
// internal/scripting.Engine (gopher-lua VM wrapper).
package spawnstrategy

import "github.com/hexateam/rtype-core/internal/ecsgame"

// SpawnContext is the callback surface the core provides to a strategy so
// it can request spawns without reaching into the ECS directly.
type SpawnContext interface {
	RequestSpawn(req ecsgame.SpawnRequest)
	BoundsWidth() float64
	BoundsHeight() float64
}

// Strategy is the spawn-strategy plugin interface.
type Strategy interface {
	// OnGameStart is invoked once, when a room transitions into
	// IN_PROGRESS.
	OnGameStart(roomID string, ctx SpawnContext)
	// OnTick is invoked once per simulation tick while the room is
	// IN_PROGRESS, at the start of GameLogic.Update before any system
	// phase runs, so that tick's Spawn phase consumes its requests.
	OnTick(roomID string, tick uint64, ctx SpawnContext)
}
