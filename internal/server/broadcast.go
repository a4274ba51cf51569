package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hexateam/rtype-core/internal/persist"
	"github.com/hexateam/rtype-core/internal/protocol"
	"github.com/hexateam/rtype-core/internal/room"
	"github.com/hexateam/rtype-core/internal/snapshot"
)

// broadcast sends framed to every member of r that currently has a live
// session/peer, skipping members who have disconnected but not yet left
// (their session lookup simply misses).
func (s *Server) broadcast(r *room.Room, mt protocol.MessageType, framed []byte) {
	for _, m := range r.Members() {
		sess, ok := s.sessions.GetByPlayer(m.PlayerID)
		if !ok {
			continue
		}
		peer, ok := s.host.PeerByID(sess.PeerID)
		if !ok {
			continue
		}
		s.send(peer, mt, framed)
	}
}

func (s *Server) broadcastRoomState(r *room.Room) {
	members := r.Members()
	entries := make([]protocol.RoomMemberEntry, 0, len(members))
	host := r.HostID()
	for _, m := range members {
		entries = append(entries, protocol.RoomMemberEntry{
			PlayerID: m.PlayerID,
			Name:     m.Name,
			Host:     m.PlayerID == host,
			Spec:     m.Spectator,
		})
	}
	msg := protocol.RoomStateMsg{RoomName: r.Name, Members: entries}
	s.broadcast(r, protocol.S2CRoomState, msg.Encode())
}

// broadcastGameStart sends S2C_GAME_START once per room (the latch makes
// this safe even if called from more than one code path in the future),
// with each recipient's own entity id as your_entity_id.
func (s *Server) broadcastGameStart(r *room.Room) {
	if !r.TryMarkGameStartSent() {
		return
	}
	snap := r.Logic().BuildSnapshot()
	entities := toWireEntities(snap.Entities)

	for _, m := range r.Members() {
		sess, ok := s.sessions.GetByPlayer(m.PlayerID)
		if !ok {
			continue
		}
		peer, ok := s.host.PeerByID(sess.PeerID)
		if !ok {
			continue
		}
		yourEntityID := uint64(0)
		if eid, ok := r.Logic().PlayerEntity(m.PlayerID); ok {
			yourEntityID = uint64(eid)
		}
		msg := protocol.GameStartMsg{YourEntityID: yourEntityID, ServerTick: snap.ServerTick, Entities: entities}
		s.send(peer, protocol.S2CGameStart, msg.Encode())
	}
}

// broadcastSnapshots sends S2C_GAME_STATE for every in-progress room, plus
// one final IsGameOver snapshot for any room that finished this tick
// (spec Scenario C). Without that final send, a room which transitions
// IN_PROGRESS->FINISHED and is swept out by sweepFinishedRooms in the
// same simulation-loop iteration would never deliver the game-over
// snapshot to its members.
func (s *Server) broadcastSnapshots() {
	for _, r := range s.rooms.All() {
		switch r.State() {
		case room.InProgress:
		case room.Finished:
			if !r.TryMarkGameOverSent() {
				continue
			}
		default:
			continue
		}
		snap := r.Logic().BuildSnapshot()
		msg := protocol.GameStateMsg{
			ServerTick: snap.ServerTick,
			Entities:   toWireEntities(snap.Entities),
			IsGameOver: snap.IsGameOver,
		}
		s.broadcast(r, protocol.S2CGameState, msg.Encode())
	}
}

func toWireEntities(in []snapshot.EntityState) []protocol.EntityState {
	out := make([]protocol.EntityState, len(in))
	for i, e := range in {
		out[i] = protocol.EntityState{
			EntityID:              e.EntityID,
			TypeTag:                e.TypeTag,
			X:                      e.X,
			Y:                      e.Y,
			HasHealth:              e.HasHealth,
			Health:                 e.Health,
			AnimationTag:           e.AnimationTag,
			SpriteX:                e.SpriteRect.X,
			SpriteY:                e.SpriteRect.Y,
			SpriteW:                e.SpriteRect.W,
			SpriteH:                e.SpriteRect.H,
			LastProcessedInputSeq:  e.LastProcessedInputSeq,
		}
	}
	return out
}

// sweepFinishedRooms drains FINISHED rooms from the directory, recording
// each to the match-history side channel when one is configured (spec §6:
// "Persisted state: none owned by the core" — this is an optional audit
// log, not room storage).
func (s *Server) sweepFinishedRooms(ctx context.Context) {
	for _, r := range s.rooms.DrainFinished() {
		if s.history == nil {
			continue
		}
		rec := persist.MatchRecord{
			RoomID:       r.ID,
			RoomName:     r.Name,
			PlayerCount:  len(r.Members()),
			FinalTick:    r.Logic().Tick(),
			DurationSecs: r.Duration().Seconds(),
		}
		recordCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := s.history.Record(recordCtx, rec)
		cancel()
		if err != nil {
			s.log.Warn("match history record failed", zap.String("room", r.ID), zap.Error(err))
		}
	}
}
