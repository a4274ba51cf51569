package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexateam/rtype-core/internal/core/ecs"
)

type position struct{ X, Y float64 }
type health struct{ Current int32 }

func TestEntityPoolReusesFreedIndicesWithNewGeneration(t *testing.T) {
	pool := ecs.NewEntityPool()
	a := pool.Create()
	assert.True(t, pool.Alive(a))
	assert.Equal(t, 1, pool.Count())

	pool.Destroy(a)
	assert.False(t, pool.Alive(a))
	assert.Equal(t, 0, pool.Count())

	b := pool.Create()
	assert.Equal(t, a.Index(), b.Index(), "freed index must be recycled")
	assert.NotEqual(t, a.Generation(), b.Generation(), "generation must bump so stale refs stay invalid")
	assert.False(t, pool.Alive(a), "the old id must never resurrect as alive")
	assert.True(t, pool.Alive(b))
}

func TestEntityPoolDestroyIsIdempotent(t *testing.T) {
	pool := ecs.NewEntityPool()
	id := pool.Create()
	pool.Destroy(id)
	pool.Destroy(id) // second destroy of a stale reference must be a no-op
	assert.Equal(t, 0, pool.Count())
}

func TestPtrComponentStoreIDs(t *testing.T) {
	store := ecs.NewPtrComponentStore[position]()
	a := ecs.NewEntityID(1, 0)
	b := ecs.NewEntityID(2, 0)
	store.Set(a, &position{X: 1})
	store.Set(b, &position{X: 2})

	ids := store.IDs()
	assert.ElementsMatch(t, []ecs.EntityID{a, b}, ids)

	store.Remove(a)
	assert.False(t, store.Has(a))
	assert.Equal(t, []ecs.EntityID{b}, store.IDs())
}

func TestRegistryRemoveAllReportsStoresTouched(t *testing.T) {
	positions := ecs.NewPtrComponentStore[position]()
	healths := ecs.NewPtrComponentStore[health]()
	reg := ecs.NewRegistry()
	reg.Register(positions)
	reg.Register(healths)

	id := ecs.NewEntityID(1, 0)
	positions.Set(id, &position{X: 1})
	// no health component for this entity

	n := reg.RemoveAll(id)
	assert.Equal(t, 1, n, "only the position store actually held data")
	assert.False(t, positions.Has(id))
}

func TestWorldProtectExemptsEntityFromReaping(t *testing.T) {
	w := ecs.NewWorld()
	id := w.CreateEntity()
	w.Protect(id)

	w.MarkForDestruction(id)
	n := w.FlushDestroyQueue()
	assert.Equal(t, 0, n, "a protected entity must not be reaped")
	assert.True(t, w.Alive(id))

	w.Unprotect(id)
	w.MarkForDestruction(id)
	n = w.FlushDestroyQueue()
	assert.Equal(t, 1, n)
	assert.False(t, w.Alive(id))
}

func TestWorldForceDestroyOverridesProtection(t *testing.T) {
	w := ecs.NewWorld()
	id := w.CreateEntity()
	w.Protect(id)

	w.ForceDestroy(id)
	n := w.FlushDestroyQueue()
	require.Equal(t, 1, n)
	assert.False(t, w.Alive(id))
}

func TestWorldFlushDestroyQueueIsIdempotent(t *testing.T) {
	w := ecs.NewWorld()
	id := w.CreateEntity()
	w.MarkForDestruction(id)
	require.Equal(t, 1, w.FlushDestroyQueue())
	assert.Equal(t, 0, w.FlushDestroyQueue(), "a second flush with nothing newly queued destroys nothing")
}

func TestEach2OnlyVisitsEntitiesWithBothComponents(t *testing.T) {
	positions := ecs.NewPtrComponentStore[position]()
	healths := ecs.NewPtrComponentStore[health]()
	both := ecs.NewEntityID(1, 0)
	onlyPos := ecs.NewEntityID(2, 0)
	positions.Set(both, &position{X: 1})
	healths.Set(both, &health{Current: 10})
	positions.Set(onlyPos, &position{X: 2})

	var visited []ecs.EntityID
	ecs.Each2(positions, healths, func(id ecs.EntityID, _ *position, _ *health) {
		visited = append(visited, id)
	})
	assert.Equal(t, []ecs.EntityID{both}, visited)
}
