// Package roommanager implements spec §4.4's room directory and
// matchmaking queue: create_room/get_room/list_public_rooms plus a
// pluggable FIFO-into-first-WAITING-room policy (spec §9 Open Question
// resolution).
package roommanager

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/hexateam/rtype-core/internal/coreerr"
	"github.com/hexateam/rtype-core/internal/room"
)

// LogicFactory builds a fresh GameLogic-backed Room for roomID. The
// caller (server façade) owns spawn-strategy and event-bus wiring, so the
// manager stays ignorant of those concerns.
type LogicFactory func(roomID, name string, maxPlayers int, private bool) *room.Room

// MatchPolicy selects a room for a queued player, or reports none
// available so the manager creates a fresh public room.
type MatchPolicy interface {
	SelectRoom(rooms []*room.Room, queuedPlayer string) (*room.Room, bool)
}

// FIFOPolicy implements the default: first public room still WAITING
// with spare capacity, in creation order (spec §9 Open Question
// resolution).
type FIFOPolicy struct{}

func (FIFOPolicy) SelectRoom(rooms []*room.Room, _ string) (*room.Room, bool) {
	for _, r := range rooms {
		if r.Private {
			continue
		}
		if r.State() != room.Waiting {
			continue
		}
		if r.IsFull() {
			continue
		}
		return r, true
	}
	return nil, false
}

// Manager is the room directory: creation, lookup, listing, and the
// matchmaking queue.
type Manager struct {
	mu      sync.Mutex
	rooms   map[string]*room.Room
	order   []string // creation order, for FIFO policy determinism
	queue   []string // queued player ids awaiting a match
	nextID  uint64
	factory LogicFactory
	policy  MatchPolicy

	defaultMaxPlayers int
}

func New(factory LogicFactory, defaultMaxPlayers int, policy MatchPolicy) *Manager {
	if policy == nil {
		policy = FIFOPolicy{}
	}
	return &Manager{
		rooms:             make(map[string]*room.Room),
		factory:           factory,
		policy:            policy,
		defaultMaxPlayers: defaultMaxPlayers,
	}
}

// CreateRoom allocates a new room and adds it to the directory.
func (m *Manager) CreateRoom(name string, maxPlayers int, private bool) *room.Room {
	if maxPlayers <= 0 {
		maxPlayers = m.defaultMaxPlayers
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := fmt.Sprintf("room-%d", atomic.AddUint64(&m.nextID, 1))
	r := m.factory(id, name, maxPlayers, private)
	m.rooms[id] = r
	m.order = append(m.order, id)
	return r
}

// GetRoom looks up a room by id.
func (m *Manager) GetRoom(id string) (*room.Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	return r, ok
}

// ListPublicRooms returns non-private rooms not yet finished, in
// creation order.
func (m *Manager) ListPublicRooms() []*room.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*room.Room, 0, len(m.order))
	for _, id := range m.order {
		r := m.rooms[id]
		if r.Private || r.State() == room.Finished {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DrainFinished drops FINISHED rooms from the directory, freeing their
// GameLogic for GC, and returns them so the caller can record match
// history before they're gone. Intended to be called periodically by the
// server's room-sweep step, never from inside a room's own Update.
func (m *Manager) DrainFinished() []*room.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	var drained []*room.Room
	kept := m.order[:0]
	for _, id := range m.order {
		if m.rooms[id].State() == room.Finished {
			drained = append(drained, m.rooms[id])
			delete(m.rooms, id)
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
	return drained
}

// All returns every room currently tracked, in creation order.
func (m *Manager) All() []*room.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*room.Room, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.rooms[id])
	}
	return out
}

// QueueForMatch enqueues playerID for matchmaking (spec §4.4). Dequeued
// and placed by the next ProcessMatchmaking call.
func (m *Manager) QueueForMatch(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.queue {
		if id == playerID {
			return
		}
	}
	m.queue = append(m.queue, playerID)
}

// CancelMatch removes playerID from the matchmaking queue, if present.
func (m *Manager) CancelMatch(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range m.queue {
		if id == playerID {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return
		}
	}
}

// MatchResult is one queued player's matchmaking outcome.
type MatchResult struct {
	PlayerID string
	Room     *room.Room
}

// ProcessMatchmaking drains the queue, placing each queued player via the
// configured MatchPolicy, creating a fresh public room when no existing
// one qualifies. Caller is responsible for actually joining the player
// into the returned room (auth/session checks live one layer up).
func (m *Manager) ProcessMatchmaking() []MatchResult {
	m.mu.Lock()
	queued := m.queue
	m.queue = nil
	roomsSnapshot := make([]*room.Room, len(m.order))
	for i, id := range m.order {
		roomsSnapshot[i] = m.rooms[id]
	}
	m.mu.Unlock()

	sort.Strings(queued) // deterministic processing order for equal-priority ties

	results := make([]MatchResult, 0, len(queued))
	for _, playerID := range queued {
		r, ok := m.policy.SelectRoom(roomsSnapshot, playerID)
		if !ok {
			r = m.CreateRoom("", m.defaultMaxPlayers, false)
			roomsSnapshot = append(roomsSnapshot, r)
		}
		results = append(results, MatchResult{PlayerID: playerID, Room: r})
	}
	return results
}

// ErrRoomNotFound is returned by lookups against an unknown room id.
var ErrRoomNotFound = fmt.Errorf("room not found: %w", coreerr.ErrProtocolViolation)
