package server

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hexateam/rtype-core/internal/coreerr"
	"github.com/hexateam/rtype-core/internal/protocol"
	"github.com/hexateam/rtype-core/internal/room"
	"github.com/hexateam/rtype-core/internal/sessionmgr"
	"github.com/hexateam/rtype-core/internal/transport"
)

// flagsFor translates a message type's declared catalog reliability
// (spec §4.7) into the transport.Flags used to send it.
func flagsFor(mt protocol.MessageType) transport.Flags {
	if protocol.ReliabilityOf(mt) == protocol.ReliabilityReliable {
		return transport.Reliable
	}
	return transport.Unsequenced
}

func (s *Server) send(peer *transport.Peer, mt protocol.MessageType, framed []byte) {
	if err := peer.Send(framed, flagsFor(mt)); err != nil {
		s.log.Debug("send failed", zap.Uint64("peer", peer.ID), zap.String("type", mt.String()), zap.Error(err))
	}
}

// handleTransportEvent processes one event handed off by the network
// thread (spec §5: "the game thread decodes protocol messages and routes
// them").
func (s *Server) handleTransportEvent(ev transport.Event) {
	switch ev.Type {
	case transport.EventReceive:
		s.handlePacket(ev.Peer, ev.Payload)
	case transport.EventDisconnect:
		s.handleDisconnect(ev.Peer)
	case transport.EventConnect:
		// No session yet; created lazily on HANDSHAKE_REQUEST.
	}
}

// handlePacket decodes one datagram and dispatches it. An unknown message
// type or malformed payload is logged and dropped per spec §4.6; the
// connection is retained.
func (s *Server) handlePacket(peer *transport.Peer, payload []byte) {
	decoded, err := protocol.Decode(payload)
	if err != nil {
		s.log.Debug("dropping undecodable packet", zap.Uint64("peer", peer.ID), zap.Error(err))
		return
	}

	switch msg := decoded.Message.(type) {
	case protocol.HandshakeRequestMsg:
		s.handleHandshake(peer, msg)
	case protocol.RegisterAccountMsg:
		s.handleRegister(peer, msg)
	case protocol.LoginAccountMsg:
		s.handleLogin(peer, msg)
	case struct{}:
		switch decoded.Type {
		case protocol.C2SRequestRoomList:
			s.handleRequestRoomList(peer)
		case protocol.C2SLeaveRoom:
			s.handleLeaveRoom(peer)
		case protocol.C2SStartGame:
			s.handleStartGame(peer)
		}
	case protocol.CreateRoomMsg:
		s.handleCreateRoom(peer, msg)
	case protocol.JoinRoomMsg:
		s.handleJoinRoom(peer, msg)
	case protocol.PlayerInputMsg:
		s.handlePlayerInput(peer, msg)
	case protocol.ChatMessageC2S:
		s.handleChatMessage(peer, msg)
	case protocol.PingMsg:
		s.handlePing(peer, msg)
	default:
		s.log.Debug("no handler for message type", zap.String("type", decoded.Type.String()))
	}
}

func (s *Server) requireSession(peer *transport.Peer) (*sessionmgr.Session, error) {
	sess, ok := s.sessions.GetByPeer(peer.ID)
	if !ok {
		return nil, fmt.Errorf("no session for peer %d: %w", peer.ID, coreerr.ErrProtocolViolation)
	}
	return sess, nil
}

func (s *Server) handleHandshake(peer *transport.Peer, msg protocol.HandshakeRequestMsg) {
	playerID := fmt.Sprintf("p%d", peer.ID)
	s.sessions.Create(peer.ID, playerID)
	name := msg.PlayerName
	if name == "" {
		name = playerID
	}
	ack := protocol.HandshakeAckMsg{AssignedPlayerID: playerID}
	s.send(peer, protocol.S2CHandshakeAck, ack.Encode())
}

func (s *Server) handleRegister(peer *transport.Peer, msg protocol.RegisterAccountMsg) {
	result := protocol.AuthResultMsg{AuthedName: msg.Username}
	if err := s.authp.Register(msg.Username, msg.Password); err != nil {
		result.OK = false
		result.Message = "registration failed"
	} else {
		result.OK = true
		result.Message = "account created"
	}
	s.send(peer, protocol.S2CAuthResult, result.Encode())
}

func (s *Server) handleLogin(peer *transport.Peer, msg protocol.LoginAccountMsg) {
	ok, err := s.authp.Authenticate(msg.Username, msg.Password)
	result := protocol.AuthResultMsg{AuthedName: msg.Username}
	if err != nil || !ok {
		result.OK = false
		result.Message = "invalid credentials"
		s.send(peer, protocol.S2CAuthResult, result.Encode())
		return
	}
	if sess, serr := s.requireSession(peer); serr == nil {
		s.sessions.SetPlayer(sess.ID, msg.Username, msg.Username)
	}
	result.OK = true
	result.Message = "login successful"
	s.send(peer, protocol.S2CAuthResult, result.Encode())
}

func (s *Server) handleRequestRoomList(peer *transport.Peer) {
	rooms := s.rooms.ListPublicRooms()
	entries := make([]protocol.RoomListEntry, 0, len(rooms))
	for _, r := range rooms {
		entries = append(entries, protocol.RoomListEntry{
			RoomID:  r.ID,
			Name:    r.Name,
			Count:   int32(r.PlayerCount()),
			Max:     int32(r.MaxPlayers),
			Private: r.Private,
			State:   r.State().String(),
		})
	}
	msg := protocol.RoomListMsg{Rooms: entries}
	s.send(peer, protocol.S2CRoomList, msg.Encode())
}

func (s *Server) handleCreateRoom(peer *transport.Peer, msg protocol.CreateRoomMsg) {
	sess, err := s.requireSession(peer)
	if err != nil {
		return
	}
	r := s.rooms.CreateRoom(msg.Name, int(msg.MaxPlayers), msg.Private)
	if joinErr := r.JoinPlayer(sess.PlayerID, displayName(sess)); joinErr != nil {
		s.log.Debug("create room join failed", zap.Error(joinErr))
		return
	}
	s.sessions.SetRoom(sess.ID, r.ID)
	s.broadcastRoomState(r)
}

func (s *Server) handleJoinRoom(peer *transport.Peer, msg protocol.JoinRoomMsg) {
	sess, err := s.requireSession(peer)
	if err != nil {
		return
	}

	var target *room.Room
	if msg.RoomID == "" {
		s.rooms.QueueForMatch(sess.PlayerID)
		for _, result := range s.rooms.ProcessMatchmaking() {
			if result.PlayerID == sess.PlayerID {
				target = result.Room
			}
		}
	} else {
		var ok bool
		target, ok = s.rooms.GetRoom(msg.RoomID)
		if !ok {
			s.send(peer, protocol.S2CLeftRoom, (protocol.LeftRoomMsg{
				PlayerID: sess.PlayerID, Reason: "not_found", Message: "room not found",
			}).Encode())
			return
		}
	}
	if target == nil {
		return
	}

	if joinErr := target.JoinPlayer(sess.PlayerID, displayName(sess)); joinErr != nil {
		if joinErr2 := target.JoinSpectator(sess.PlayerID, displayName(sess)); joinErr2 != nil {
			s.log.Debug("join room failed", zap.Error(joinErr2))
			return
		}
	}
	s.sessions.SetRoom(sess.ID, target.ID)
	s.broadcastRoomState(target)
}

func (s *Server) handleLeaveRoom(peer *transport.Peer) {
	sess, err := s.requireSession(peer)
	if err != nil || sess.RoomID == "" {
		return
	}
	r, ok := s.rooms.GetRoom(sess.RoomID)
	if !ok {
		return
	}
	r.Leave(sess.PlayerID)
	s.sessions.SetRoom(sess.ID, "")

	left := protocol.LeftRoomMsg{PlayerID: sess.PlayerID, Reason: "left", Message: "player left the room"}
	s.broadcast(r, protocol.S2CLeftRoom, left.Encode())
	s.broadcastRoomState(r)
}

func (s *Server) handleStartGame(peer *transport.Peer) {
	sess, err := s.requireSession(peer)
	if err != nil || sess.RoomID == "" {
		return
	}
	r, ok := s.rooms.GetRoom(sess.RoomID)
	if !ok || r.HostID() != sess.PlayerID {
		return
	}
	if startErr := r.Start(); startErr != nil {
		s.log.Debug("start game failed", zap.Error(startErr))
		return
	}
	s.broadcastGameStart(r)
}

func (s *Server) handlePlayerInput(peer *transport.Peer, msg protocol.PlayerInputMsg) {
	sess, err := s.requireSession(peer)
	if err != nil || sess.RoomID == "" {
		return
	}
	r, ok := s.rooms.GetRoom(sess.RoomID)
	if !ok {
		return
	}
	for _, snap := range msg.Snapshots {
		_ = r.Logic().ProcessInput(sess.PlayerID, snap.DX, snap.DY, snap.Shoot, snap.Seq)
	}
}

func (s *Server) handleChatMessage(peer *transport.Peer, msg protocol.ChatMessageC2S) {
	sess, err := s.requireSession(peer)
	if err != nil || sess.RoomID == "" {
		return
	}
	r, ok := s.rooms.GetRoom(sess.RoomID)
	if !ok {
		return
	}
	out := protocol.ChatMessageS2C{
		PlayerID:  sess.PlayerID,
		Name:      displayName(sess),
		Text:      msg.Text,
		Timestamp: time.Now().Unix(),
	}
	s.broadcast(r, protocol.S2CChatMessage, out.Encode())
}

func (s *Server) handlePing(peer *transport.Peer, msg protocol.PingMsg) {
	pong := protocol.PongMsg{Timestamp: msg.Timestamp}
	s.send(peer, protocol.Pong, pong.Encode())
}

func (s *Server) handleDisconnect(peer *transport.Peer) {
	sess, ok := s.sessions.Remove(peer.ID)
	if !ok {
		return
	}
	if sess.RoomID == "" {
		return
	}
	r, ok := s.rooms.GetRoom(sess.RoomID)
	if !ok {
		return
	}
	r.Leave(sess.PlayerID)
	left := protocol.LeftRoomMsg{PlayerID: sess.PlayerID, Reason: "disconnected", Message: "player disconnected"}
	s.broadcast(r, protocol.S2CLeftRoom, left.Encode())
	s.broadcastRoomState(r)
}

func displayName(sess *sessionmgr.Session) string {
	if sess.AuthedName != "" {
		return sess.AuthedName
	}
	return sess.PlayerID
}
