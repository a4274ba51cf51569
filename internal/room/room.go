// Package room implements spec §4.4's Room: one match, owning an
// independent GameLogic, with its own WAITING/STARTING/IN_PROGRESS/
// FINISHED lifecycle, membership, and host designation.
package room

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hexateam/rtype-core/internal/coreerr"
	"github.com/hexateam/rtype-core/internal/gamelogic"
)

// State is the room lifecycle state machine of spec §3.
type State int

const (
	Waiting State = iota
	Starting
	InProgress
	Finished
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "WAITING"
	case Starting:
		return "STARTING"
	case InProgress:
		return "IN_PROGRESS"
	case Finished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Member is one room participant, player or spectator.
type Member struct {
	PlayerID  string
	Name      string
	Spectator bool
	JoinOrder int
}

// Room is one independent match: membership, host designation, lifecycle
// state, and the GameLogic it owns.
type Room struct {
	mu sync.Mutex

	ID         string
	Name       string
	MaxPlayers int
	Private    bool

	state   State
	members map[string]*Member
	joinSeq int
	hostID  string

	logic *gamelogic.GameLogic

	gameStartSent atomic.Bool
	gameOverSent  atomic.Bool

	createdAt  time.Time
	finishedAt time.Time
}

// New constructs a room in WAITING state around an already-built
// GameLogic (the RoomManager is responsible for wiring the spawn
// strategy and event bus into it before calling New).
func New(id, name string, maxPlayers int, private bool, logic *gamelogic.GameLogic) *Room {
	return &Room{
		ID:         id,
		Name:       name,
		MaxPlayers: maxPlayers,
		Private:    private,
		state:      Waiting,
		members:    make(map[string]*Member),
		logic:      logic,
		createdAt:  time.Now(),
	}
}

func (r *Room) Logic() *gamelogic.GameLogic { return r.logic }

func (r *Room) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Room) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostID
}

// Members returns a snapshot of current membership, ordered by join
// order for deterministic display.
func (r *Room) Members() []Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, *m)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].JoinOrder < out[j-1].JoinOrder; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.members {
		if !m.Spectator {
			n++
		}
	}
	return n
}

func (r *Room) IsFull() bool {
	return r.PlayerCount() >= r.MaxPlayers
}

// JoinPlayer admits playerID as a player. Permitted in WAITING/STARTING
// only (spec §3); IN_PROGRESS callers must use JoinSpectator instead.
// The first joining player becomes host (spec §4.4).
func (r *Room) JoinPlayer(playerID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.members[playerID]; exists {
		return fmt.Errorf("room %s: player %s already joined: %w", r.ID, playerID, coreerr.ErrProtocolViolation)
	}
	switch r.state {
	case Finished:
		return fmt.Errorf("room %s is finished: %w", r.ID, coreerr.ErrProtocolViolation)
	case InProgress:
		return fmt.Errorf("room %s in progress, join as spectator: %w", r.ID, coreerr.ErrProtocolViolation)
	}
	if r.playerCountLocked() >= r.MaxPlayers {
		return fmt.Errorf("room %s full: %w", r.ID, coreerr.ErrResourceExhaustion)
	}

	r.joinSeq++
	r.members[playerID] = &Member{PlayerID: playerID, Name: name, JoinOrder: r.joinSeq}
	if r.hostID == "" {
		r.hostID = playerID
	}
	return nil
}

// JoinSpectator admits playerID as a spectator. Permitted in any state
// except FINISHED.
func (r *Room) JoinSpectator(playerID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Finished {
		return fmt.Errorf("room %s is finished: %w", r.ID, coreerr.ErrProtocolViolation)
	}
	if _, exists := r.members[playerID]; exists {
		return fmt.Errorf("room %s: player %s already joined: %w", r.ID, playerID, coreerr.ErrProtocolViolation)
	}
	r.joinSeq++
	r.members[playerID] = &Member{PlayerID: playerID, Name: name, Spectator: true, JoinOrder: r.joinSeq}
	return nil
}

func (r *Room) playerCountLocked() int {
	n := 0
	for _, m := range r.members {
		if !m.Spectator {
			n++
		}
	}
	return n
}

// Leave removes playerID from the room. If the departing member was
// host, the next host is the earliest-joining remaining player (spec §9
// Open Question resolution). If all players have left mid-match, the
// room resets IN_PROGRESS -> WAITING (spec §3).
func (r *Room) Leave(playerID string) {
	r.mu.Lock()
	m, ok := r.members[playerID]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.members, playerID)
	wasHost := !m.Spectator && r.hostID == playerID
	if wasHost {
		r.reassignHostLocked()
	}
	noPlayersLeft := r.playerCountLocked() == 0
	inProgress := r.state == InProgress
	r.mu.Unlock()

	if !m.Spectator {
		r.logic.DespawnPlayer(playerID)
	}
	if inProgress && noPlayersLeft {
		r.mu.Lock()
		r.state = Waiting
		r.hostID = ""
		r.joinSeq = 0
		r.mu.Unlock()
	}
}

// reassignHostLocked must be called with mu held. It selects the
// earliest-joining remaining player (smallest JoinOrder among non-
// spectators) as the new host.
func (r *Room) reassignHostLocked() {
	var next *Member
	for _, m := range r.members {
		if m.Spectator {
			continue
		}
		if next == nil || m.JoinOrder < next.JoinOrder {
			next = m
		}
	}
	if next != nil {
		r.hostID = next.PlayerID
	} else {
		r.hostID = ""
	}
}

// Start moves WAITING -> STARTING, spawns every current player, then
// STARTING -> IN_PROGRESS, all under the same lock so the room exposes
// WAITING or IN_PROGRESS between any two successive snapshots (spec
// §4.4), never a STARTING state visible to an external observer's
// snapshot stream.
func (r *Room) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Waiting {
		return fmt.Errorf("room %s: start requires WAITING, got %s: %w", r.ID, r.state, coreerr.ErrProtocolViolation)
	}
	if r.playerCountLocked() == 0 {
		return fmt.Errorf("room %s: start requires >=1 player: %w", r.ID, coreerr.ErrProtocolViolation)
	}

	r.state = Starting
	r.logic.Initialize()
	for _, m := range r.members {
		if m.Spectator {
			continue
		}
		if _, err := r.logic.SpawnPlayer(m.PlayerID, m.Name); err != nil {
			r.state = Waiting
			return fmt.Errorf("room %s: initial spawn failed for %s: %w", r.ID, m.PlayerID, err)
		}
	}
	r.state = InProgress
	return nil
}

// TryMarkGameStartSent is a latch returning true exactly once per match,
// used by the server to guarantee S2C_GAME_START broadcasts at most once
// (spec §4.4).
func (r *Room) TryMarkGameStartSent() bool {
	return r.gameStartSent.CompareAndSwap(false, true)
}

// TryMarkGameOverSent is the same latch for the final S2C_GAME_STATE
// snapshot: it returns true exactly once per match, for whichever tick
// transitions (or finds) the room FINISHED, so the server can broadcast
// the game-over snapshot before sweeping the room out of the directory
// (spec Scenario C).
func (r *Room) TryMarkGameOverSent() bool {
	return r.gameOverSent.CompareAndSwap(false, true)
}

// Update ticks the owned GameLogic if IN_PROGRESS, and finalizes the
// match if every player has died.
func (r *Room) Update(dt time.Duration, currentTick uint64) {
	r.mu.Lock()
	inProgress := r.state == InProgress
	r.mu.Unlock()
	if !inProgress {
		return
	}

	r.logic.Update(dt, currentTick)

	if r.logic.AllPlayersDead() {
		r.mu.Lock()
		if r.state == InProgress {
			r.state = Finished
			r.finishedAt = time.Now()
			r.logic.Deactivate()
		}
		r.mu.Unlock()
	}
}

// Finish externally terminates the match (spec §3: "externally
// terminated" transition).
func (r *Room) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Finished {
		return
	}
	r.state = Finished
	r.finishedAt = time.Now()
	r.logic.Deactivate()
}

// Duration returns how long the match ran, valid only once FINISHED.
func (r *Room) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finishedAt.IsZero() {
		return 0
	}
	return r.finishedAt.Sub(r.createdAt)
}
