package spawnstrategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hexateam/rtype-core/internal/ecsgame"
)

// fakeSpawnContext records every RequestSpawn call for assertions; it
// satisfies SpawnContext without needing a real ECS world.
type fakeSpawnContext struct {
	spawns []ecsgame.SpawnRequest
}

func (f *fakeSpawnContext) RequestSpawn(req ecsgame.SpawnRequest) { f.spawns = append(f.spawns, req) }
func (f *fakeSpawnContext) BoundsWidth() float64                  { return 800 }
func (f *fakeSpawnContext) BoundsHeight() float64                 { return 600 }

func testTable() *WaveTable {
	return &WaveTable{Entries: []WaveEntry{
		{TickOffset: 10, Type: "drone", Count: 2, X: 100, Y: 50},
		{TickOffset: 20, Type: "turret", Count: 1, X: 200, Y: 60},
	}}
}

func TestDefaultStrategyFiresEntryOnceAtTickOffset(t *testing.T) {
	s := NewDefaultStrategy(testTable())
	ctx := &fakeSpawnContext{}
	s.OnGameStart("room-1", ctx)

	s.OnTick("room-1", 10, ctx)
	assert.Len(t, ctx.spawns, 2)
	for _, sp := range ctx.spawns {
		assert.Equal(t, "drone", sp.EnemyType)
		assert.Equal(t, ecsgame.SpawnEnemy, sp.Kind)
	}

	// Re-ticking the same offset must not re-fire the entry.
	s.OnTick("room-1", 10, ctx)
	assert.Len(t, ctx.spawns, 2)
}

func TestDefaultStrategyFiresEachEntryAtItsOwnOffset(t *testing.T) {
	s := NewDefaultStrategy(testTable())
	ctx := &fakeSpawnContext{}
	s.OnGameStart("room-1", ctx)

	s.OnTick("room-1", 10, ctx)
	s.OnTick("room-1", 15, ctx) // no entry scheduled here
	s.OnTick("room-1", 20, ctx)

	assert.Len(t, ctx.spawns, 3)
	assert.True(t, s.done("room-1"))
}

func TestDefaultStrategyRoomsAreIndependent(t *testing.T) {
	s := NewDefaultStrategy(testTable())
	ctxA, ctxB := &fakeSpawnContext{}, &fakeSpawnContext{}
	s.OnGameStart("room-a", ctxA)
	s.OnGameStart("room-b", ctxB)

	s.OnTick("room-a", 10, ctxA)

	assert.Len(t, ctxA.spawns, 2)
	assert.Empty(t, ctxB.spawns)
}

func TestDefaultStrategyReplayIsDeterministicForFixedInputStream(t *testing.T) {
	table := testTable()

	run := func() []ecsgame.SpawnRequest {
		s := NewDefaultStrategy(table)
		ctx := &fakeSpawnContext{}
		s.OnGameStart("room-x", ctx)
		for tick := uint64(0); tick <= 20; tick++ {
			s.OnTick("room-x", tick, ctx)
		}
		return ctx.spawns
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}
