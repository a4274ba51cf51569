// Package snapshot defines the domain-level authoritative state snapshot
// shared between GameLogic (producer), the protocol package (wire codec),
// and the client's EntityCache/PredictionEngine (consumers). Keeping it
// separate from both lets gamelogic stay free of wire-format concerns and
// protocol stay free of simulation concerns.
package snapshot

import "github.com/hexateam/rtype-core/internal/ecsgame"

// EntityState is one entity's replicated state at a given tick (spec
// §4.7 EntityState).
type EntityState struct {
	EntityID              uint64
	TypeTag               string
	X, Y                  float64
	Health                int32 // only meaningful when HasHealth is true
	HasHealth             bool
	AnimationTag          string
	SpriteRect            ecsgame.SpriteRect
	LastProcessedInputSeq uint32
}

// Snapshot is the authoritative set of entity states for one room at one
// tick (spec glossary: Snapshot).
type Snapshot struct {
	RoomID     string
	ServerTick uint64
	Entities   []EntityState
	IsGameOver bool
	Errors     []string
}
