package gamelogic

import (
	"sort"
	"time"

	"github.com/hexateam/rtype-core/internal/core/ecs"
	coresys "github.com/hexateam/rtype-core/internal/core/system"
	"github.com/hexateam/rtype-core/internal/ecsgame"
	"github.com/hexateam/rtype-core/internal/spawnstrategy"
)

// Bounds is the room's simulation region, used by the Boundary phase.
type Bounds struct {
	Width, Height float64
}

const (
	projectileSpeed       = 600.0
	collisionRadius       = 16.0
	projectileMargin      = 0.0
	enemyMargin           = 64.0
	invSqrt2              = 0.7071067811865476
)

// InputSystem is phase 1: consume queued player input, set Velocity.
// Grounded on spec §4.2/§4.5 — diagonal normalization and shooting share
// this one pass over PendingInput so a player's last_processed_input_seq
// advances exactly once per batch of newly-accepted inputs.
type InputSystem struct {
	stores *ecsgame.Stores
	spawn  *SpawnQueue
}

func NewInputSystem(stores *ecsgame.Stores, spawn *SpawnQueue) *InputSystem {
	return &InputSystem{stores: stores, spawn: spawn}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInputApplication }

func (s *InputSystem) Update(dt time.Duration) {
	dtSec := dt.Seconds()
	s.stores.PendingInput.Each(func(id ecs.EntityID, pending *ecsgame.PendingInput) {
		vel, ok := s.stores.Velocity.Get(id)
		if !ok {
			return
		}
		player, ok := s.stores.Player.Get(id)
		if !ok {
			return
		}
		weapon, _ := s.stores.Weapon.Get(id)
		if weapon != nil && weapon.Cooldown > 0 {
			weapon.Cooldown -= dtSec
		}

		queue := pending.Queue
		sort.Slice(queue, func(i, j int) bool { return queue[i].Seq < queue[j].Seq })

		for _, in := range queue {
			if in.Seq <= player.LastProcessedInputSeq {
				continue // stale or duplicate; discarded per spec §4.3
			}
			player.LastProcessedInputSeq = in.Seq

			dx, dy := normalizedDirection(float64(in.DX), float64(in.DY))
			vel.VX = dx * vel.CurrentSpeed
			vel.VY = dy * vel.CurrentSpeed

			if in.Shoot && weapon != nil && weapon.Cooldown <= 0 {
				s.spawn.Push(ecsgame.SpawnRequest{
					Kind:     ecsgame.SpawnProjectile,
					Friendly: true,
					Damage:   weapon.Damage,
					Owner:    id,
					DirX:     1,
					DirY:     0,
				})
				if weapon.FireRate > 0 {
					weapon.Cooldown = 1.0 / weapon.FireRate
				}
			}
		}
		// A tick with no newly-accepted input holds the last commanded
		// velocity rather than snapping to zero, matching a client that
		// simply hasn't sent a fresher packet yet.
		pending.Queue = pending.Queue[:0]
	})
}

// normalizedDirection implements spec §4.5's diagonal normalization: if
// both axes are non-zero, scale by 1/sqrt(2).
func normalizedDirection(dx, dy float64) (float64, float64) {
	if dx != 0 && dy != 0 {
		return dx * invSqrt2, dy * invSqrt2
	}
	return dx, dy
}

// BuffSystem is phase 2: decrement timers, apply/undo multiplicative
// modifiers, remove expired buffs, apply Health regen.
type BuffSystem struct {
	stores *ecsgame.Stores
}

func NewBuffSystem(stores *ecsgame.Stores) *BuffSystem { return &BuffSystem{stores: stores} }

func (s *BuffSystem) Phase() coresys.Phase { return coresys.PhaseBuff }

func (s *BuffSystem) Update(dt time.Duration) {
	dtSec := dt.Seconds()
	s.stores.Buff.Each(func(id ecs.EntityID, buff *ecsgame.Buff) {
		vel, hasVel := s.stores.Velocity.Get(id)
		weapon, hasWeapon := s.stores.Weapon.Get(id)
		health, hasHealth := s.stores.Health.Get(id)

		speedMul, damageMul, fireRateMul := 1.0, 1.0, 1.0
		kept := buff.Entries[:0]
		for _, e := range buff.Entries {
			if !e.Permanent {
				e.RemainingTime -= dtSec
				if e.RemainingTime <= 0 {
					continue // expired, dropped from the list
				}
			}
			switch e.Type {
			case ecsgame.BuffSpeed:
				speedMul *= e.Value
			case ecsgame.BuffDamage:
				damageMul *= e.Value
			case ecsgame.BuffFireRate:
				fireRateMul *= e.Value
			case ecsgame.BuffRegen:
				if hasHealth && !health.IsDead {
					health.Current = clampI32(health.Current+int32(e.Value*dtSec), 0, health.Max)
				}
			}
			kept = append(kept, e)
		}
		buff.Entries = kept

		if hasVel {
			vel.CurrentSpeed = vel.BaseSpeed * speedMul
		}
		if hasWeapon {
			weapon.Damage = int32(float64(weapon.BaseDamage) * damageMul)
			weapon.FireRate = weapon.BaseFireRate * fireRateMul
		}
	})
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MovementSystem is phase 3: Transform += Velocity * dt.
type MovementSystem struct {
	stores *ecsgame.Stores
}

func NewMovementSystem(stores *ecsgame.Stores) *MovementSystem { return &MovementSystem{stores: stores} }

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *MovementSystem) Update(dt time.Duration) {
	dtSec := dt.Seconds()
	ecs.Each2(s.stores.Transform, s.stores.Velocity, func(id ecs.EntityID, t *ecsgame.Transform, v *ecsgame.Velocity) {
		t.X += v.VX * dtSec
		t.Y += v.VY * dtSec
	})
}

// CollisionSystem is phase 4: pairwise broad-phase, emits damage events
// for Projectile<->(Player|Enemy) and Player<->Enemy overlaps.
type CollisionSystem struct {
	stores *ecsgame.Stores
	world  *ecs.World
	damage *DamageQueue
}

func NewCollisionSystem(stores *ecsgame.Stores, world *ecs.World, damage *DamageQueue) *CollisionSystem {
	return &CollisionSystem{stores: stores, world: world, damage: damage}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollision }

func (s *CollisionSystem) Update(dt time.Duration) {
	// Projectile vs Player/Enemy.
	s.stores.Projectile.Each(func(pid ecs.EntityID, proj *ecsgame.Projectile) {
		pt, ok := s.stores.Transform.Get(pid)
		if !ok {
			return
		}
		if proj.Friendly {
			s.stores.Enemy.Each(func(eid ecs.EntityID, _ *ecsgame.Enemy) {
				s.resolveProjectileHit(pid, pt, proj, eid)
			})
		} else {
			s.stores.Player.Each(func(eid ecs.EntityID, _ *ecsgame.Player) {
				s.resolveProjectileHit(pid, pt, proj, eid)
			})
		}
	})

	// Player vs Enemy contact damage.
	s.stores.Player.Each(func(plid ecs.EntityID, _ *ecsgame.Player) {
		pt, ok := s.stores.Transform.Get(plid)
		if !ok {
			return
		}
		s.stores.Enemy.Each(func(eid ecs.EntityID, _ *ecsgame.Enemy) {
			et, ok := s.stores.Transform.Get(eid)
			if !ok {
				return
			}
			if !overlaps(pt, et) {
				return
			}
			s.damage.Push(plid, ecsgame.DamageEvent{Amount: 1, Source: eid})
		})
	})
}

func (s *CollisionSystem) resolveProjectileHit(pid ecs.EntityID, pt *ecsgame.Transform, proj *ecsgame.Projectile, target ecs.EntityID) {
	if target == proj.Owner {
		return
	}
	tt, ok := s.stores.Transform.Get(target)
	if !ok {
		return
	}
	if !overlaps(pt, tt) {
		return
	}
	s.damage.Push(target, ecsgame.DamageEvent{Amount: proj.Damage, Source: proj.Owner})
	s.world.MarkForDestruction(pid)
}

func overlaps(a, b *ecsgame.Transform) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dist2 := dx*dx + dy*dy
	r := collisionRadius * 2
	return dist2 <= r*r
}

// HealthSystem is phase 5: apply queued damage, set is_dead, tick
// invincibility.
type HealthSystem struct {
	stores *ecsgame.Stores
	world  *ecs.World
	damage *DamageQueue
	bus    EventEmitter
}

func NewHealthSystem(stores *ecsgame.Stores, world *ecs.World, damage *DamageQueue, bus EventEmitter) *HealthSystem {
	return &HealthSystem{stores: stores, world: world, damage: damage, bus: bus}
}

func (s *HealthSystem) Phase() coresys.Phase { return coresys.PhaseHealth }

func (s *HealthSystem) Update(dt time.Duration) {
	dtSec := dt.Seconds()
	s.stores.Health.Each(func(id ecs.EntityID, h *ecsgame.Health) {
		if h.InvincibilityTimer > 0 {
			h.InvincibilityTimer -= dtSec
			s.damage.Drain(id) // invincible: queued hits are discarded
			return
		}
		events := s.damage.Drain(id)
		var killer ecs.EntityID
		for _, ev := range events {
			h.Current = clampI32(h.Current-ev.Amount, 0, h.Max)
			killer = ev.Source
		}
		if h.Current <= 0 && !h.IsDead {
			h.IsDead = true
			// MarkForDestruction is a no-op for reap-protected entities
			// (World.Protect): player entities stay protected for as long
			// as they're spawned, so a dead player's Health component is
			// still readable by GameLogic.AllPlayersDead (called right
			// after this tick's Update returns), letting the room detect
			// the natural-death FINISHED transition before the player is
			// eventually removed by the explicit DespawnPlayer path.
			s.world.MarkForDestruction(id)
			s.bus.EmitEntityKilled(id, killer)
		}
	})
}

// AISystem is phase 6: drive Enemy behavior, may emit projectile-spawn
// requests. Deterministic (no randomness) so identical input/seed streams
// reproduce identical trajectories (spec §8 property 7).
type AISystem struct {
	stores *ecsgame.Stores
	spawn  *SpawnQueue
}

func NewAISystem(stores *ecsgame.Stores, spawn *SpawnQueue) *AISystem {
	return &AISystem{stores: stores, spawn: spawn}
}

func (s *AISystem) Phase() coresys.Phase { return coresys.PhaseAI }

func (s *AISystem) Update(dt time.Duration) {
	dtSec := dt.Seconds()
	s.stores.Enemy.Each(func(id ecs.EntityID, enemy *ecsgame.Enemy) {
		vel, hasVel := s.stores.Velocity.Get(id)
		if hasVel {
			vel.VX = -vel.CurrentSpeed
			vel.VY = 0
		}
		weapon, hasWeapon := s.stores.Weapon.Get(id)
		if !hasWeapon {
			return
		}
		if weapon.Cooldown > 0 {
			weapon.Cooldown -= dtSec
			return
		}
		if enemy.AIState != "attack" {
			return
		}
		s.spawn.Push(ecsgame.SpawnRequest{
			Kind:     ecsgame.SpawnProjectile,
			Friendly: false,
			Damage:   weapon.Damage,
			Owner:    id,
			DirX:     -1,
			DirY:     0,
		})
		if weapon.FireRate > 0 {
			weapon.Cooldown = 1.0 / weapon.FireRate
		}
	})
}

// SpawnSystem is phase 7: consume projectile-spawn and wave-script
// requests, instantiate new entities.
type SpawnSystem struct {
	stores *ecsgame.Stores
	world  *ecs.World
	spawn  *SpawnQueue
	bus    EventEmitter
}

// EventEmitter is the narrow surface SpawnSystem needs from the event
// bus, kept as an interface so systems stay independently testable.
type EventEmitter interface {
	EmitEntityCreated(entityID ecs.EntityID, typeTag string)
	EmitEntityKilled(entityID, killer ecs.EntityID)
}

func NewSpawnSystem(stores *ecsgame.Stores, world *ecs.World, spawn *SpawnQueue, bus EventEmitter) *SpawnSystem {
	return &SpawnSystem{stores: stores, world: world, spawn: spawn, bus: bus}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *SpawnSystem) Update(dt time.Duration) {
	for _, req := range s.spawn.Drain() {
		switch req.Kind {
		case ecsgame.SpawnProjectile:
			s.spawnProjectile(req)
		case ecsgame.SpawnEnemy:
			s.spawnEnemy(req)
		}
	}
}

func (s *SpawnSystem) spawnProjectile(req ecsgame.SpawnRequest) {
	ownerTransform, ok := s.stores.Transform.Get(req.Owner)
	x, y := req.X, req.Y
	if ok {
		x, y = ownerTransform.X, ownerTransform.Y
	}
	id := s.world.CreateEntity()
	s.stores.Transform.Set(id, &ecsgame.Transform{X: x, Y: y})
	dx, dy := normalizedDirection(req.DirX, req.DirY)
	s.stores.Velocity.Set(id, &ecsgame.Velocity{
		VX: dx * projectileSpeed, VY: dy * projectileSpeed,
		BaseSpeed: projectileSpeed, CurrentSpeed: projectileSpeed,
	})
	s.stores.Projectile.Set(id, &ecsgame.Projectile{
		Friendly: req.Friendly, Damage: req.Damage, Owner: req.Owner,
	})
	if s.bus != nil {
		s.bus.EmitEntityCreated(id, "projectile")
	}
}

func (s *SpawnSystem) spawnEnemy(req ecsgame.SpawnRequest) {
	id := s.world.CreateEntity()
	s.stores.Transform.Set(id, &ecsgame.Transform{X: req.X, Y: req.Y})
	s.stores.Velocity.Set(id, &ecsgame.Velocity{BaseSpeed: 80, CurrentSpeed: 80})
	s.stores.Health.Set(id, &ecsgame.Health{Current: 20, Max: 20})
	s.stores.Weapon.Set(id, &ecsgame.Weapon{
		Damage: 5, FireRate: 0.5, BaseDamage: 5, BaseFireRate: 0.5,
	})
	s.stores.Enemy.Set(id, &ecsgame.Enemy{TypeTag: req.EnemyType, AIState: "attack"})
	if s.bus != nil {
		s.bus.EmitEntityCreated(id, req.EnemyType)
	}
}

// BoundarySystem is phase 8: destroy entities whose Transform lies
// outside the room's simulation region, with per-type margins.
type BoundarySystem struct {
	stores *ecsgame.Stores
	world  *ecs.World
	bounds Bounds
}

func NewBoundarySystem(stores *ecsgame.Stores, world *ecs.World, bounds Bounds) *BoundarySystem {
	return &BoundarySystem{stores: stores, world: world, bounds: bounds}
}

func (s *BoundarySystem) Phase() coresys.Phase { return coresys.PhaseBoundary }

func (s *BoundarySystem) Update(dt time.Duration) {
	s.stores.Projectile.Each(func(id ecs.EntityID, _ *ecsgame.Projectile) {
		t, ok := s.stores.Transform.Get(id)
		if ok && s.outOfBounds(t, projectileMargin) {
			s.world.MarkForDestruction(id)
		}
	})
	s.stores.Enemy.Each(func(id ecs.EntityID, _ *ecsgame.Enemy) {
		t, ok := s.stores.Transform.Get(id)
		if ok && s.outOfBounds(t, enemyMargin) {
			s.world.MarkForDestruction(id)
		}
	})
}

func (s *BoundarySystem) outOfBounds(t *ecsgame.Transform, margin float64) bool {
	return t.X < -margin || t.X > s.bounds.Width+margin ||
		t.Y < -margin || t.Y > s.bounds.Height+margin
}

// ReapingSystem is phase 9: materialize deletions scheduled this tick.
type ReapingSystem struct {
	world *ecs.World
}

func NewReapingSystem(world *ecs.World) *ReapingSystem { return &ReapingSystem{world: world} }

func (s *ReapingSystem) Phase() coresys.Phase { return coresys.PhaseReaping }

func (s *ReapingSystem) Update(dt time.Duration) {
	s.world.FlushDestroyQueue()
}

// SnapshotSystem is phase 10: advance the tick counter. GameLogic owns the
// counter directly; this system exists so the Runner's phase-ordered
// execution still names the step explicitly, per spec §4.2.
type SnapshotSystem struct {
	advance func()
}

func NewSnapshotSystem(advance func()) *SnapshotSystem { return &SnapshotSystem{advance: advance} }

func (s *SnapshotSystem) Phase() coresys.Phase { return coresys.PhaseSnapshot }

func (s *SnapshotSystem) Update(dt time.Duration) {
	s.advance()
}

// spawnContext adapts GameLogic's SpawnQueue + Bounds to the
// spawnstrategy.SpawnContext interface so the wave-script plugin can
// request spawns without reaching into the ECS directly.
type spawnContext struct {
	spawn  *SpawnQueue
	bounds Bounds
}

func (c *spawnContext) RequestSpawn(req ecsgame.SpawnRequest) { c.spawn.Push(req) }
func (c *spawnContext) BoundsWidth() float64                  { return c.bounds.Width }
func (c *spawnContext) BoundsHeight() float64                 { return c.bounds.Height }

var _ spawnstrategy.SpawnContext = (*spawnContext)(nil)
