package gamelogic

import (
	"sync"

	"github.com/hexateam/rtype-core/internal/core/ecs"
	"github.com/hexateam/rtype-core/internal/corepool"
	"github.com/hexateam/rtype-core/internal/snapshot"
)

// SetSnapshotPool wires an optional worker pool for parallel per-entity
// snapshot serialization (spec §5: broadcast path tasks may run on the
// ThreadPool as long as they only read components through read-only
// views). A nil pool (the default) serializes sequentially on the
// caller's goroutine.
func (g *GameLogic) SetSnapshotPool(pool *corepool.Pool) { g.snapshotPool = pool }

// BuildSnapshot produces the authoritative entity-state list for this
// room at its current tick (spec glossary: Snapshot). Every live entity
// has a Transform (spec §3 invariant), so the Transform store's entity
// set is the enumeration source of truth.
func (g *GameLogic) BuildSnapshot() snapshot.Snapshot {
	ids := g.stores.Transform.IDs()

	states := make([]snapshot.EntityState, len(ids))
	if g.snapshotPool == nil {
		for i, id := range ids {
			states[i] = g.entityState(id)
		}
	} else {
		var wg sync.WaitGroup
		wg.Add(len(ids))
		for i, id := range ids {
			i, id := i, id
			ok := g.snapshotPool.Enqueue(func() {
				defer wg.Done()
				states[i] = g.entityState(id)
			})
			if !ok {
				// Pool stopped mid-broadcast (shutdown race): finish this
				// entity inline rather than losing it from the snapshot.
				wg.Done()
				states[i] = g.entityState(id)
			}
		}
		wg.Wait()
	}

	return snapshot.Snapshot{
		RoomID:     g.roomID,
		ServerTick: g.tick,
		Entities:   states,
		IsGameOver: !g.active,
	}
}

func (g *GameLogic) entityState(id ecs.EntityID) snapshot.EntityState {
	t, _ := g.stores.Transform.Get(id)
	es := snapshot.EntityState{
		EntityID: uint64(id),
		X:        t.X,
		Y:        t.Y,
	}
	if h, ok := g.stores.Health.Get(id); ok {
		es.HasHealth = true
		es.Health = h.Current
	}
	if sp, ok := g.stores.Sprite.Get(id); ok {
		es.AnimationTag = sp.AnimationTag
		es.SpriteRect = sp.SrcRect
	}
	switch {
	case g.stores.Player.Has(id):
		p, _ := g.stores.Player.Get(id)
		es.TypeTag = "player"
		es.LastProcessedInputSeq = p.LastProcessedInputSeq
	case g.stores.Enemy.Has(id):
		e, _ := g.stores.Enemy.Get(id)
		es.TypeTag = "enemy:" + e.TypeTag
	case g.stores.Projectile.Has(id):
		es.TypeTag = "projectile"
	default:
		es.TypeTag = "unknown"
	}
	return es
}
