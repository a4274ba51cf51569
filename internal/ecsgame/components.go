// Package ecsgame defines the game's component types and the typed stores
// that hold them. Each component is a plain struct; storage and querying
// are provided by internal/core/ecs.
package ecsgame

import "github.com/hexateam/rtype-core/internal/core/ecs"

// Transform is the entity's position in world pixels. Every live entity
// has one (spec §3 invariant).
type Transform struct {
	X, Y float64
}

// Velocity holds the entity's movement direction and speed. CurrentSpeed
// is BaseSpeed modified by active buffs; systems should read CurrentSpeed
// and never mutate BaseSpeed.
type Velocity struct {
	VX, VY       float64
	BaseSpeed    float64
	CurrentSpeed float64
}

// Health tracks hit points and invincibility frames.
type Health struct {
	Current             int32
	Max                 int32
	InvincibilityTimer  float64
	IsDead              bool
}

// Player binds an entity to an external player id and carries the
// reconciliation cursor the client needs to prune its input history.
type Player struct {
	PlayerID               string
	DisplayName            string
	LastProcessedInputSeq  uint32
}

// Enemy marks an entity as AI-controlled. AIState is opaque to the core —
// only the spawn-strategy / AI plugin interprets it.
type Enemy struct {
	TypeTag string
	AIState string
}

// Projectile marks an entity as a projectile fired by Owner.
type Projectile struct {
	Friendly bool
	Damage   int32
	Owner    ecs.EntityID
}

// Weapon holds fire-rate/damage state, separating the mutable current
// values from the base values buffs are computed against.
type Weapon struct {
	Damage       int32
	FireRate     float64
	Cooldown     float64
	BaseDamage   int32
	BaseFireRate float64
}

// BuffType enumerates the gamerule-style modifiers buffs can apply.
type BuffType int

const (
	BuffSpeed BuffType = iota
	BuffDamage
	BuffFireRate
	BuffRegen
)

// BuffEntry is one active modifier on an entity.
type BuffEntry struct {
	Type          BuffType
	Value         float64
	RemainingTime float64
	Permanent     bool
}

// Buff is the list of active modifiers on an entity.
type Buff struct {
	Entries []BuffEntry
}

// SpriteRect is a source rectangle into a sprite sheet; forwarded verbatim
// to clients, never interpreted server-side.
type SpriteRect struct {
	X, Y, W, H int32
}

// Sprite is forwarded verbatim in snapshots.
type Sprite struct {
	AnimationTag string
	SrcRect      SpriteRect
}

// PendingInput is a queued (not yet applied) player input, held until the
// next InputApplication phase.
type PendingInput struct {
	Queue []InputSnapshot
}

// InputSnapshot mirrors the wire InputSnapshot (protocol package) but lives
// in the ECS as the unit of queued work.
type InputSnapshot struct {
	Seq     uint32
	DX, DY  int8
	Shoot   bool
}

// SpawnRequest is a request to create a new entity, emitted by Collision
// (none), AI, or the spawn-strategy plugin, consumed by the Spawn phase.
type SpawnRequest struct {
	Kind      SpawnKind
	X, Y      float64
	DirX      float64
	DirY      float64
	Damage    int32
	Friendly  bool
	Owner     ecs.EntityID
	EnemyType string
}

type SpawnKind int

const (
	SpawnProjectile SpawnKind = iota
	SpawnEnemy
)

// DamageEvent is a queued damage event, emitted by Collision and applied
// by the Health phase. Collected per target in gamelogic.DamageQueue
// rather than as a component, since damage is transient work-in-flight
// for the current tick, not durable entity state.
type DamageEvent struct {
	Amount int32
	Source ecs.EntityID
}

// Stores bundles one typed component store per component type, used as
// the GameLogic's ECS storage. Having a single struct to pass around keeps
// system constructors short, mirroring the teacher's Deps-struct idiom.
type Stores struct {
	Transform     *ecs.PtrComponentStore[Transform]
	Velocity      *ecs.PtrComponentStore[Velocity]
	Health        *ecs.PtrComponentStore[Health]
	Player        *ecs.PtrComponentStore[Player]
	Enemy         *ecs.PtrComponentStore[Enemy]
	Projectile    *ecs.PtrComponentStore[Projectile]
	Weapon        *ecs.PtrComponentStore[Weapon]
	Buff          *ecs.PtrComponentStore[Buff]
	Sprite        *ecs.PtrComponentStore[Sprite]
	PendingInput  *ecs.PtrComponentStore[PendingInput]
}

// NewStores allocates an empty set of component stores and registers each
// one with the ECS registry so World.FlushDestroyQueue reaps them all.
func NewStores(reg *ecs.Registry) *Stores {
	s := &Stores{
		Transform:     ecs.NewPtrComponentStore[Transform](),
		Velocity:      ecs.NewPtrComponentStore[Velocity](),
		Health:        ecs.NewPtrComponentStore[Health](),
		Player:        ecs.NewPtrComponentStore[Player](),
		Enemy:         ecs.NewPtrComponentStore[Enemy](),
		Projectile:    ecs.NewPtrComponentStore[Projectile](),
		Weapon:        ecs.NewPtrComponentStore[Weapon](),
		Buff:          ecs.NewPtrComponentStore[Buff](),
		Sprite:        ecs.NewPtrComponentStore[Sprite](),
		PendingInput:  ecs.NewPtrComponentStore[PendingInput](),
	}
	reg.Register(s.Transform)
	reg.Register(s.Velocity)
	reg.Register(s.Health)
	reg.Register(s.Player)
	reg.Register(s.Enemy)
	reg.Register(s.Projectile)
	reg.Register(s.Weapon)
	reg.Register(s.Buff)
	reg.Register(s.Sprite)
	reg.Register(s.PendingInput)
	return s
}
