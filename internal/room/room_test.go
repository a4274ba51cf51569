package room_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hexateam/rtype-core/internal/core/event"
	"github.com/hexateam/rtype-core/internal/gamelogic"
	"github.com/hexateam/rtype-core/internal/room"
)

func newTestRoom(t *testing.T) *room.Room {
	t.Helper()
	logic := gamelogic.New(gamelogic.Config{RoomID: "room-1", Bounds: gamelogic.Bounds{Width: 800, Height: 600}}, event.NewBus(), zap.NewNop())
	return room.New("room-1", "Test Room", 2, false, logic)
}

// killPlayer mutates a spawned player's Health component directly through
// the GameLogic's exported store accessor, standing in for a lethal hit
// without threading a collision through the whole pipeline.
func killPlayer(t *testing.T, r *room.Room, playerID string) {
	t.Helper()
	id, ok := r.Logic().PlayerEntity(playerID)
	require.True(t, ok)
	h, ok := r.Logic().Stores().Health.Get(id)
	require.True(t, ok)
	h.Current = 0
	h.IsDead = true
}

// Scenario C: once every player has died, Update must transition the room
// IN_PROGRESS -> FINISHED, and the final snapshot must report IsGameOver.
func TestRoomTransitionsToFinishedWhenAllPlayersDie(t *testing.T) {
	r := newTestRoom(t)
	require.NoError(t, r.JoinPlayer("p1", "Alice"))
	require.NoError(t, r.JoinPlayer("p2", "Bob"))
	require.NoError(t, r.Start())
	assert.Equal(t, room.InProgress, r.State())

	killPlayer(t, r, "p1")
	r.Update(time.Second/20, 1)
	assert.Equal(t, room.InProgress, r.State(), "one live player must keep the room running")

	killPlayer(t, r, "p2")
	r.Update(time.Second/20, 2)
	assert.Equal(t, room.Finished, r.State(), "every player dead must finish the match")

	snap := r.Logic().BuildSnapshot()
	assert.True(t, snap.IsGameOver)
}

// TryMarkGameOverSent is the latch broadcastSnapshots relies on to deliver
// exactly one final game-over snapshot before sweepFinishedRooms drains the
// room out of the directory in the same simulation-loop iteration.
func TestTryMarkGameOverSentFiresOnce(t *testing.T) {
	r := newTestRoom(t)
	require.NoError(t, r.JoinPlayer("p1", "Alice"))
	require.NoError(t, r.Start())

	killPlayer(t, r, "p1")
	r.Update(time.Second/20, 1)
	require.Equal(t, room.Finished, r.State())

	assert.True(t, r.TryMarkGameOverSent(), "first observer must win the latch")
	assert.False(t, r.TryMarkGameOverSent(), "a second observer must not resend the game-over snapshot")
}

func TestRoomFinishIsIdempotent(t *testing.T) {
	r := newTestRoom(t)
	require.NoError(t, r.JoinPlayer("p1", "Alice"))
	require.NoError(t, r.Start())

	r.Finish()
	assert.Equal(t, room.Finished, r.State())
	r.Finish()
	assert.Equal(t, room.Finished, r.State())
}
