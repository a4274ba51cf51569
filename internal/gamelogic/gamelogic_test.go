package gamelogic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hexateam/rtype-core/internal/core/event"
	"github.com/hexateam/rtype-core/internal/ecsgame"
)

func newTestLogic(t *testing.T) *GameLogic {
	t.Helper()
	g := New(Config{RoomID: "room-1", Bounds: Bounds{Width: 800, Height: 600}}, event.NewBus(), zap.NewNop())
	g.Initialize()
	return g
}

// A dead player's entity must survive the tick HealthSystem marks it dead
// (reap-protection), so AllPlayersDead still sees the death and the room
// can reach its natural-death FINISHED transition.
func TestAllPlayersDeadSeesDeathBeforeReaping(t *testing.T) {
	g := newTestLogic(t)
	id, err := g.SpawnPlayer("p1", "Alice")
	require.NoError(t, err)

	assert.False(t, g.AllPlayersDead(), "freshly spawned player is alive")

	g.damageQ.Push(id, ecsgame.DamageEvent{Amount: defaultMaxHealth * 2})
	g.Update(time.Second/20, 1)

	assert.True(t, g.AllPlayersDead(), "lethal damage must be visible to AllPlayersDead on the same tick")
	assert.True(t, g.World().Alive(id), "a protected dead player must not be reaped automatically")

	h, ok := g.stores.Health.Get(id)
	require.True(t, ok, "Health component must still be attached after reaping runs")
	assert.True(t, h.IsDead)
}

// AllPlayersDead must only flip once every currently-spawned player has
// died, not as soon as one of several has.
func TestAllPlayersDeadRequiresEveryPlayer(t *testing.T) {
	g := newTestLogic(t)
	id1, err := g.SpawnPlayer("p1", "Alice")
	require.NoError(t, err)
	_, err = g.SpawnPlayer("p2", "Bob")
	require.NoError(t, err)

	g.damageQ.Push(id1, ecsgame.DamageEvent{Amount: defaultMaxHealth * 2})
	g.Update(time.Second/20, 1)

	assert.False(t, g.AllPlayersDead(), "one dead player out of two must not end the match")
}

// DespawnPlayer is the only path allowed to actually remove a
// reap-protected player entity; it must still take effect on the next
// Reaping pass.
func TestDespawnPlayerOverridesProtection(t *testing.T) {
	g := newTestLogic(t)
	id, err := g.SpawnPlayer("p1", "Alice")
	require.NoError(t, err)

	g.DespawnPlayer("p1")
	assert.True(t, g.World().Alive(id), "destruction is deferred to the next Reaping pass")

	g.Update(time.Second/20, 1)
	assert.False(t, g.World().Alive(id), "ForceDestroy must reap a protected entity once despawned")

	// Idempotent: despawning again, or flushing again, destroys nothing new.
	g.DespawnPlayer("p1")
	g.Update(time.Second/20, 2)
	assert.False(t, g.World().Alive(id))
}

func TestAllPlayersDeadEmptyRoomIsNotGameOver(t *testing.T) {
	g := newTestLogic(t)
	assert.False(t, g.AllPlayersDead(), "a room with no spawned players is not a finished match")
}
