// Package gamelogic implements the single-room simulation façade of spec
// §4.3: GameLogic owns a Registry + SystemPipeline, advances one tick at a
// time, and maps external player ids to entity ids.
package gamelogic

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hexateam/rtype-core/internal/core/ecs"
	"github.com/hexateam/rtype-core/internal/core/event"
	coresys "github.com/hexateam/rtype-core/internal/core/system"
	"github.com/hexateam/rtype-core/internal/coreerr"
	"github.com/hexateam/rtype-core/internal/corepool"
	"github.com/hexateam/rtype-core/internal/ecsgame"
	"github.com/hexateam/rtype-core/internal/spawnstrategy"
)

// busEmitter adapts *event.Bus to the narrow EventEmitter surface
// SpawnSystem needs, keeping the event package's generic Emit[T] out of
// the systems file.
type busEmitter struct {
	bus    *event.Bus
	roomID string
}

func (e *busEmitter) EmitEntityCreated(id ecs.EntityID, typeTag string) {
	event.Emit(e.bus, event.EntityCreated{RoomID: e.roomID, EntityID: id, TypeTag: typeTag})
}

func (e *busEmitter) EmitEntityKilled(id, killer ecs.EntityID) {
	event.Emit(e.bus, event.EntityKilled{RoomID: e.roomID, EntityID: id, Killer: killer})
}

// GameLogic is one room's simulation: Registry + SystemPipeline, spawn/
// despawn/input entry points, and the tick-threaded update() of spec §9's
// resolved Open Question.
type GameLogic struct {
	roomID string
	bounds Bounds

	world   *ecs.World
	stores  *ecsgame.Stores
	runner  *coresys.Runner
	bus     *event.Bus
	spawnQ  *SpawnQueue
	damageQ *DamageQueue

	strategy spawnstrategy.Strategy
	spawnCtx *spawnContext

	playerEntities map[string]ecs.EntityID
	tick           uint64
	active         bool

	snapshotPool *corepool.Pool

	log *zap.Logger
}

// Config bundles what the caller must supply to build a GameLogic: the
// room bounds and the spawn-strategy plugin (spec §1's opaque
// collaborator).
type Config struct {
	RoomID   string
	Bounds   Bounds
	Strategy spawnstrategy.Strategy
}

func New(cfg Config, bus *event.Bus, log *zap.Logger) *GameLogic {
	world := ecs.NewWorld()
	stores := ecsgame.NewStores(world.Registry())

	g := &GameLogic{
		roomID:         cfg.RoomID,
		bounds:         cfg.Bounds,
		world:          world,
		stores:         stores,
		bus:            bus,
		spawnQ:         &SpawnQueue{},
		damageQ:        NewDamageQueue(),
		strategy:       cfg.Strategy,
		playerEntities: make(map[string]ecs.EntityID),
		log:            log.With(zap.String("room", cfg.RoomID)),
	}
	g.spawnCtx = &spawnContext{spawn: g.spawnQ, bounds: cfg.Bounds}
	return g
}

// Initialize registers all systems in pipeline order and invokes the
// spawn strategy's OnGameStart hook (spec §4.3 initialize()).
func (g *GameLogic) Initialize() {
	g.runner = coresys.NewRunner()
	emitter := &busEmitter{bus: g.bus, roomID: g.roomID}

	g.runner.Register(NewInputSystem(g.stores, g.spawnQ))
	g.runner.Register(NewBuffSystem(g.stores))
	g.runner.Register(NewMovementSystem(g.stores))
	g.runner.Register(NewCollisionSystem(g.stores, g.world, g.damageQ))
	g.runner.Register(NewHealthSystem(g.stores, g.world, g.damageQ, emitter))
	g.runner.Register(NewAISystem(g.stores, g.spawnQ))
	g.runner.Register(NewSpawnSystem(g.stores, g.world, g.spawnQ, emitter))
	g.runner.Register(NewBoundarySystem(g.stores, g.world, g.bounds))
	g.runner.Register(NewReapingSystem(g.world))
	g.runner.Register(NewSnapshotSystem(func() { g.tick++ }))

	if g.strategy != nil {
		g.strategy.OnGameStart(g.roomID, g.spawnCtx)
	}
	g.active = true
	event.Emit(g.bus, event.GameStarted{RoomID: g.roomID, Tick: g.tick})
}

const (
	defaultSpawnX       = 100
	defaultSpawnY       = 100
	defaultBaseSpeed    = 200
	defaultMaxHealth    = 100
	defaultWeaponDamage = 10
	defaultFireRate     = 4.0
)

// SpawnPlayer creates the player's entity (spec §4.3 spawn_player). It
// fails if player_id is already present, matching the contract.
func (g *GameLogic) SpawnPlayer(playerID, name string) (ecs.EntityID, error) {
	if _, exists := g.playerEntities[playerID]; exists {
		return 0, fmt.Errorf("spawn player %s: %w", playerID, coreerr.ErrProtocolViolation)
	}
	id := g.world.CreateEntity()
	g.stores.Transform.Set(id, &ecsgame.Transform{X: defaultSpawnX, Y: defaultSpawnY})
	g.stores.Velocity.Set(id, &ecsgame.Velocity{BaseSpeed: defaultBaseSpeed, CurrentSpeed: defaultBaseSpeed})
	g.stores.Health.Set(id, &ecsgame.Health{Current: defaultMaxHealth, Max: defaultMaxHealth})
	g.stores.Weapon.Set(id, &ecsgame.Weapon{
		Damage: defaultWeaponDamage, FireRate: defaultFireRate,
		BaseDamage: defaultWeaponDamage, BaseFireRate: defaultFireRate,
	})
	g.stores.Player.Set(id, &ecsgame.Player{PlayerID: playerID, DisplayName: name})
	g.stores.PendingInput.Set(id, &ecsgame.PendingInput{})

	// Reap-protected for as long as the player is spawned: a player's
	// entity must survive the tick HealthSystem marks it dead, so
	// AllPlayersDead can still read its Health right after Update
	// returns. Only DespawnPlayer is allowed to actually remove it.
	g.world.Protect(id)

	g.playerEntities[playerID] = id
	event.Emit(g.bus, event.PlayerJoined{RoomID: g.roomID, PlayerID: playerID, EntityID: id})
	return id, nil
}

// DespawnPlayer marks the player's entity for reaping; idempotent (spec
// §8 property 6).
func (g *GameLogic) DespawnPlayer(playerID string) {
	id, ok := g.playerEntities[playerID]
	if !ok {
		return
	}
	delete(g.playerEntities, playerID)
	g.world.ForceDestroy(id)
	event.Emit(g.bus, event.PlayerLeft{RoomID: g.roomID, PlayerID: playerID})
}

// PlayerEntity returns the entity id bound to playerID, if present.
func (g *GameLogic) PlayerEntity(playerID string) (ecs.EntityID, bool) {
	id, ok := g.playerEntities[playerID]
	return id, ok
}

// ProcessInput enqueues an input with sequence number seq for the next
// InputApplication phase (spec §4.3 process_input). Stale/duplicate seqs
// are dropped by InputSystem, not here, so the drop decision stays next
// to the apply decision (both read Player.LastProcessedInputSeq).
func (g *GameLogic) ProcessInput(playerID string, dx, dy int8, shoot bool, seq uint32) error {
	id, ok := g.playerEntities[playerID]
	if !ok {
		return fmt.Errorf("process input for %s: %w", playerID, coreerr.ErrProtocolViolation)
	}
	pending, ok := g.stores.PendingInput.Get(id)
	if !ok {
		return fmt.Errorf("process input for %s: %w", playerID, coreerr.ErrInvariantViolation)
	}
	pending.Queue = append(pending.Queue, ecsgame.InputSnapshot{Seq: seq, DX: dx, DY: dy, Shoot: shoot})
	return nil
}

// Update executes the pipeline once (spec §4.3 update(dt, current_tick)).
// currentTick is accepted for the tick-threaded Open Question resolution
// even though GameLogic tracks its own counter, so a caller driving
// multiple rooms from a shared scheduler can assert they agree.
func (g *GameLogic) Update(dt time.Duration, currentTick uint64) {
	if !g.active {
		return
	}
	// Events emitted during the previous tick become visible now (spec
	// event.Bus doc: "readable in tick N+1"), then this tick's emissions
	// accumulate in the new back buffer for the next call.
	g.bus.SwapBuffers()
	g.bus.DispatchAll()
	if g.strategy != nil {
		g.strategy.OnTick(g.roomID, currentTick, g.spawnCtx)
	}
	g.runner.Tick(dt)
	for _, err := range g.runner.Errors() {
		g.log.Warn("system error", zap.Error(err), zap.Uint64("tick", currentTick))
	}
}

// IsActive reports whether the simulation is running.
func (g *GameLogic) IsActive() bool { return g.active }

// Deactivate stops future Update calls from advancing the simulation
// (used when a room transitions to FINISHED). Logs if the back buffer
// still holds unread events (event.Pending) — the room is about to be
// swept from the directory, so nothing will ever dispatch them.
func (g *GameLogic) Deactivate() {
	g.active = false
	if n := event.Pending[event.EntityKilled](g.bus); n > 0 {
		g.log.Debug("room deactivated with unread EntityKilled events", zap.Int("count", n))
	}
	event.Emit(g.bus, event.GameEnded{RoomID: g.roomID, Tick: g.tick})
}

// Tick returns the current tick counter.
func (g *GameLogic) Tick() uint64 { return g.tick }

// Stores exposes the component stores for read-only snapshot production
// (spec §5: snapshot serialization tasks may only read components).
func (g *GameLogic) Stores() *ecsgame.Stores { return g.stores }

// World exposes entity liveness checks to the snapshot producer.
func (g *GameLogic) World() *ecs.World { return g.world }

// AllPlayerIDs returns every currently-spawned player id.
func (g *GameLogic) AllPlayerIDs() []string {
	out := make([]string, 0, len(g.playerEntities))
	for id := range g.playerEntities {
		out = append(out, id)
	}
	return out
}

// AllPlayersDead reports whether every currently-spawned player entity has
// died. An empty room (no players spawned yet, or all already despawned)
// is not considered "all dead" — that case is the room's own WAITING
// transition, not a match conclusion.
func (g *GameLogic) AllPlayersDead() bool {
	if len(g.playerEntities) == 0 {
		return false
	}
	for _, id := range g.playerEntities {
		h, ok := g.stores.Health.Get(id)
		if !ok || !h.IsDead {
			return false
		}
	}
	return true
}
