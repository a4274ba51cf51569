package sessionmgr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexateam/rtype-core/internal/sessionmgr"
)

func TestCreateIndexesByPeerAndPlayer(t *testing.T) {
	m := sessionmgr.New()
	s := m.Create(42, "p1")

	assert.Equal(t, uint64(42), s.PeerID)
	assert.False(t, s.Authed)

	byPeer, ok := m.GetByPeer(42)
	require.True(t, ok)
	assert.Equal(t, s.ID, byPeer.ID)

	byPlayer, ok := m.GetByPlayer("p1")
	require.True(t, ok)
	assert.Equal(t, s.ID, byPlayer.ID)

	assert.Equal(t, 1, m.Count())
}

func TestSetPlayerReindexesByPlayer(t *testing.T) {
	m := sessionmgr.New()
	s := m.Create(1, "")

	m.SetPlayer(s.ID, "alice", "Alice")

	got, ok := m.GetByPlayer("alice")
	require.True(t, ok)
	assert.True(t, got.Authed)
	assert.Equal(t, "Alice", got.AuthedName)
}

func TestRemoveClearsAllIndices(t *testing.T) {
	m := sessionmgr.New()
	s := m.Create(7, "bob")

	removed, ok := m.Remove(7)
	require.True(t, ok)
	assert.Equal(t, s.ID, removed.ID)

	_, ok = m.GetByPeer(7)
	assert.False(t, ok)
	_, ok = m.GetByPlayer("bob")
	assert.False(t, ok)
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Count())
}

func TestRemoveUnknownPeerReportsMissing(t *testing.T) {
	m := sessionmgr.New()
	_, ok := m.Remove(999)
	assert.False(t, ok)
}

func TestSetRoomRecordsRoomID(t *testing.T) {
	m := sessionmgr.New()
	s := m.Create(1, "p1")
	m.SetRoom(s.ID, "room-5")

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Equal(t, "room-5", got.RoomID)
}
