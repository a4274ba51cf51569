package gamelogic

import (
	"github.com/hexateam/rtype-core/internal/core/ecs"
	"github.com/hexateam/rtype-core/internal/ecsgame"
)

// SpawnQueue accumulates spawn requests emitted by InputApplication and AI
// during a tick; the Spawn phase drains it once, at the end of the tick.
type SpawnQueue struct {
	requests []ecsgame.SpawnRequest
}

func (q *SpawnQueue) Push(r ecsgame.SpawnRequest) {
	q.requests = append(q.requests, r)
}

func (q *SpawnQueue) Drain() []ecsgame.SpawnRequest {
	out := q.requests
	q.requests = nil
	return out
}

// DamageQueue accumulates per-target damage events emitted by Collision;
// the Health phase applies and clears them once per tick.
type DamageQueue struct {
	events map[ecs.EntityID][]ecsgame.DamageEvent
}

func NewDamageQueue() *DamageQueue {
	return &DamageQueue{events: make(map[ecs.EntityID][]ecsgame.DamageEvent)}
}

func (q *DamageQueue) Push(target ecs.EntityID, ev ecsgame.DamageEvent) {
	q.events[target] = append(q.events[target], ev)
}

func (q *DamageQueue) Drain(target ecs.EntityID) []ecsgame.DamageEvent {
	evs := q.events[target]
	delete(q.events, target)
	return evs
}

func (q *DamageQueue) Targets() []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(q.events))
	for id := range q.events {
		out = append(out, id)
	}
	return out
}
