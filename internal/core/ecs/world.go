package ecs

// World is the top-level ECS container for one room's simulation. It owns
// the entity pool, the component registry, a deferred destruction queue
// flushed by ReapingSystem each tick, and a set of reap-protected
// entities: a dead player's entity must stay alive (and its Health
// component readable) until the player's own despawn path removes it, so
// GameLogic.AllPlayersDead can still observe the death on the same tick
// HealthSystem marks it — automatic end-of-tick destruction must never
// reach a protected entity.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
	protected    map[EntityID]bool
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
		protected:    make(map[EntityID]bool),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Protect exempts id from MarkForDestruction until Unprotect or
// ForceDestroy is called on it. Player entities are protected for as
// long as they are spawned (see GameLogic.SpawnPlayer).
func (w *World) Protect(id EntityID) { w.protected[id] = true }

// Unprotect clears id's protection without destroying it.
func (w *World) Unprotect(id EntityID) { delete(w.protected, id) }

// MarkForDestruction queues an entity for end-of-tick cleanup, unless it
// is currently protected; HealthSystem relies on this to let a dead
// player's entity survive the tick it died on.
func (w *World) MarkForDestruction(id EntityID) {
	if w.protected[id] {
		return
	}
	w.destroyQueue = append(w.destroyQueue, id)
}

// ForceDestroy queues id for end-of-tick cleanup regardless of
// protection. This is the only path allowed to reap a protected entity —
// GameLogic.DespawnPlayer uses it for the explicit player-leaves despawn.
func (w *World) ForceDestroy(id EntityID) {
	delete(w.protected, id)
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities and clears their
// components, returning how many entities were actually destroyed (spec
// §8 property 6: despawn must be idempotent, so callers can assert a
// second flush with no new queue entries destroys nothing). Called by
// ReapingSystem at the end of each tick.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		if w.pool.Alive(id) {
			n++
		}
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		delete(w.protected, id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}
