// Package entitycache holds the client's view of every remote entity
// (everything but the locally-predicted avatar): straightforward
// previous→target interpolation, no re-simulation (spec §4.5: "Remote
// entities: straightforward interpolation from previous to target
// received position").
package entitycache

import (
	"time"

	"github.com/hexateam/rtype-core/internal/protocol"
)

// Entity is the client-side render state for one remote (or not yet
// locally-predicted) entity.
type Entity struct {
	ID   uint64
	Type string

	PrevX, PrevY     float64
	TargetX, TargetY float64
	t                float64 // interpolation factor in [0,1], advanced by real time

	HasHealth    bool
	Health       int32
	AnimationTag string
	SpriteX, SpriteY, SpriteW, SpriteH int32

	LastProcessedInputSeq uint32
}

// X and Y return the current interpolated render position.
func (e *Entity) X() float64 { return e.PrevX + (e.TargetX-e.PrevX)*e.t }
func (e *Entity) Y() float64 { return e.PrevY + (e.TargetY-e.PrevY)*e.t }

// interpolationWindow is how long a fresh target takes to interpolate
// into: 100ms, about six server ticks at the default 1/60s tick rate.
const interpolationWindow = 100 * time.Millisecond

// Cache tracks every entity the client currently knows about, keyed by
// entity id, rebuilt incrementally from each S2C_GAME_STATE/S2C_GAME_START.
type Cache struct {
	entities map[uint64]*Entity
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entities: make(map[uint64]*Entity)}
}

// Apply folds one snapshot's entity list into the cache: known entities
// get a new interpolation target, unseen entities are inserted at their
// reported position (no interpolation on first sight), and entities
// absent from the snapshot are removed (spec §8: "entity set changes only
// by addition/removal between consecutive snapshots").
func (c *Cache) Apply(entities []protocol.EntityState, skip func(id uint64) bool) {
	seen := make(map[uint64]bool, len(entities))
	for _, w := range entities {
		seen[w.EntityID] = true
		if skip != nil && skip(w.EntityID) {
			continue
		}
		e, ok := c.entities[w.EntityID]
		if !ok {
			e = &Entity{ID: w.EntityID, PrevX: w.X, PrevY: w.Y, TargetX: w.X, TargetY: w.Y, t: 1}
			c.entities[w.EntityID] = e
		} else {
			e.PrevX, e.PrevY = e.X(), e.Y()
			e.TargetX, e.TargetY = w.X, w.Y
			e.t = 0
		}
		e.Type = w.TypeTag
		e.HasHealth = w.HasHealth
		e.Health = w.Health
		e.AnimationTag = w.AnimationTag
		e.SpriteX, e.SpriteY, e.SpriteW, e.SpriteH = w.SpriteX, w.SpriteY, w.SpriteW, w.SpriteH
		e.LastProcessedInputSeq = w.LastProcessedInputSeq
	}
	for id := range c.entities {
		if !seen[id] {
			delete(c.entities, id)
		}
	}
}

// Advance progresses every entity's interpolation factor by dt of real
// time, called once per rendered frame.
func (c *Cache) Advance(dt time.Duration) {
	step := float64(dt) / float64(interpolationWindow)
	for _, e := range c.entities {
		if e.t < 1 {
			e.t += step
			if e.t > 1 {
				e.t = 1
			}
		}
	}
}

// Get returns the cached entity for id, if any.
func (c *Cache) Get(id uint64) (*Entity, bool) {
	e, ok := c.entities[id]
	return e, ok
}

// All returns every cached entity; order is unspecified.
func (c *Cache) All() []*Entity {
	out := make([]*Entity, 0, len(c.entities))
	for _, e := range c.entities {
		out = append(out, e)
	}
	return out
}

// Remove drops id from the cache (e.g. the local avatar, which is driven
// by prediction.Engine instead of interpolation).
func (c *Cache) Remove(id uint64) {
	delete(c.entities, id)
}
