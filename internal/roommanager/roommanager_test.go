package roommanager_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hexateam/rtype-core/internal/core/event"
	"github.com/hexateam/rtype-core/internal/gamelogic"
	"github.com/hexateam/rtype-core/internal/room"
	"github.com/hexateam/rtype-core/internal/roommanager"
)

func testFactory(roomID, name string, maxPlayers int, private bool) *room.Room {
	logic := gamelogic.New(gamelogic.Config{RoomID: roomID, Bounds: gamelogic.Bounds{Width: 800, Height: 600}}, event.NewBus(), zap.NewNop())
	return room.New(roomID, name, maxPlayers, private, logic)
}

func TestCreateRoomAssignsSequentialIDs(t *testing.T) {
	m := roommanager.New(testFactory, 4, nil)
	r1 := m.CreateRoom("one", 0, false)
	r2 := m.CreateRoom("two", 0, false)
	assert.NotEqual(t, r1.ID, r2.ID)

	got, ok := m.GetRoom(r1.ID)
	require.True(t, ok)
	assert.Same(t, r1, got)
}

func TestCreateRoomDefaultsMaxPlayers(t *testing.T) {
	m := roommanager.New(testFactory, 4, nil)
	r := m.CreateRoom("default-size", 0, false)
	assert.Equal(t, 4, r.MaxPlayers)
}

func TestListPublicRoomsHidesPrivateAndFinished(t *testing.T) {
	m := roommanager.New(testFactory, 4, nil)
	pub := m.CreateRoom("public", 0, false)
	m.CreateRoom("private", 0, true)
	finished := m.CreateRoom("over", 0, false)
	finished.Finish()

	rooms := m.ListPublicRooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, pub.ID, rooms[0].ID)
}

func TestDrainFinishedRemovesOnlyFinishedRooms(t *testing.T) {
	m := roommanager.New(testFactory, 4, nil)
	keep := m.CreateRoom("keep", 0, false)
	gone := m.CreateRoom("gone", 0, false)
	gone.Finish()

	drained := m.DrainFinished()
	require.Len(t, drained, 1)
	assert.Equal(t, gone.ID, drained[0].ID)

	all := m.All()
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)

	// Idempotent: a second drain with nothing newly finished removes nothing.
	assert.Empty(t, m.DrainFinished())
}

func TestFIFOPolicySkipsPrivateAndFullRooms(t *testing.T) {
	m := roommanager.New(testFactory, 1, roommanager.FIFOPolicy{})
	private := m.CreateRoom("private", 1, true)
	full := m.CreateRoom("full", 1, false)
	require.NoError(t, full.JoinPlayer("existing", "Existing"))
	open := m.CreateRoom("open", 1, false)

	results := m.ProcessMatchmaking()
	require.Empty(t, results, "nothing queued yet")

	m.QueueForMatch("newcomer")
	results = m.ProcessMatchmaking()
	require.Len(t, results, 1)
	assert.Equal(t, open.ID, results[0].Room.ID)
	assert.NotEqual(t, private.ID, results[0].Room.ID)
	assert.NotEqual(t, full.ID, results[0].Room.ID)
}

func TestCancelMatchRemovesQueuedPlayer(t *testing.T) {
	m := roommanager.New(testFactory, 4, nil)
	m.QueueForMatch("p1")
	m.CancelMatch("p1")
	results := m.ProcessMatchmaking()
	assert.Empty(t, results)
}
