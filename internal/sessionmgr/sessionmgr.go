// Package sessionmgr implements spec §3's Session lifecycle: one record
// per connected player, created on handshake acceptance and destroyed on
// disconnect, binding a stable peer id to a player id and auth state.
//
// The Peer→Session map is mutated only on the game thread, after the
// network thread has published a CONNECT/DISCONNECT event (spec §5
// Shared-resource policy) — Manager itself is just a guarded map; the
// single-writer discipline is enforced by callers (internal/server),
// not by this package.
package sessionmgr

import (
	"sync"
	"time"
)

// SessionID is a server-assigned handle for a Session, stable across the
// peer's connection lifetime.
type SessionID uint64

// Session is the server's record of a connected player (spec glossary).
type Session struct {
	ID         SessionID
	PeerID     uint64
	PlayerID   string
	Authed     bool
	AuthedName string
	RoomID     string
	CreatedAt  time.Time
}

// Manager tracks sessions by id and by the peer id that owns them.
type Manager struct {
	mu       sync.Mutex
	sessions map[SessionID]*Session
	byPeer   map[uint64]SessionID
	byPlayer map[string]SessionID
	nextID   uint64
}

func New() *Manager {
	return &Manager{
		sessions: make(map[SessionID]*Session),
		byPeer:   make(map[uint64]SessionID),
		byPlayer: make(map[string]SessionID),
	}
}

// Create opens a new session for peerID on handshake acceptance.
// playerID defaults to a peer-derived placeholder until authentication
// (or a guest-join policy) assigns a real one via SetPlayer.
func (m *Manager) Create(peerID uint64, playerID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	s := &Session{
		ID:        SessionID(m.nextID),
		PeerID:    peerID,
		PlayerID:  playerID,
		CreatedAt: time.Now(),
	}
	m.sessions[s.ID] = s
	m.byPeer[peerID] = s.ID
	if playerID != "" {
		m.byPlayer[playerID] = s.ID
	}
	return s
}

// GetByPlayer looks up the session bound to a given player id, used when
// broadcasting room-membership changes by player id rather than by peer.
func (m *Manager) GetByPlayer(playerID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byPlayer[playerID]
	if !ok {
		return nil, false
	}
	return m.sessions[id], true
}

// Get looks up a session by id.
func (m *Manager) Get(id SessionID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetByPeer looks up the session owned by a given peer id.
func (m *Manager) GetByPeer(peerID uint64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byPeer[peerID]
	if !ok {
		return nil, false
	}
	return m.sessions[id], true
}

// SetPlayer assigns the authenticated display identity to a session.
func (m *Manager) SetPlayer(id SessionID, playerID, authedName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		delete(m.byPlayer, s.PlayerID)
		s.PlayerID = playerID
		s.Authed = true
		s.AuthedName = authedName
		m.byPlayer[playerID] = id
	}
}

// SetRoom records which room a session's player has joined, so a
// disconnect event knows which room to notify.
func (m *Manager) SetRoom(id SessionID, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.RoomID = roomID
	}
}

// Remove destroys the session bound to peerID (spec §3: destroyed on
// disconnect event), returning it so the caller can notify the owning
// room and despawn the player entity.
func (m *Manager) Remove(peerID uint64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byPeer[peerID]
	if !ok {
		return nil, false
	}
	s := m.sessions[id]
	delete(m.byPeer, peerID)
	delete(m.byPlayer, s.PlayerID)
	delete(m.sessions, id)
	return s, true
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
