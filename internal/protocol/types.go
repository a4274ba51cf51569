package protocol

import "errors"

// MessageType is the 1-byte opcode prefixing every packet (spec §4.6).
// Direction codes follow spec §4.7: C2S = client→server, S2C = server→client.
type MessageType uint8

const (
	// HandshakeRequest (C2S, reliable): player_name.
	HandshakeRequest MessageType = iota + 1
	// S2CHandshakeAck (S2C, reliable): assigned_player_id.
	S2CHandshakeAck
	// RegisterAccount (C2S, reliable): username, password (opaque).
	RegisterAccount
	// LoginAccount (C2S, reliable): username, password (opaque).
	LoginAccount
	// S2CAuthResult (S2C, reliable): ok?, message, authed_name.
	S2CAuthResult
	// C2SRequestRoomList (C2S, reliable): no payload.
	C2SRequestRoomList
	// S2CRoomList (S2C, reliable): [{room_id, name, count, max, private, state}].
	S2CRoomList
	// C2SCreateRoom (C2S, reliable): name, max_players, private.
	C2SCreateRoom
	// C2SJoinRoom (C2S, reliable): room_id.
	C2SJoinRoom
	// C2SLeaveRoom (C2S, reliable): no payload.
	C2SLeaveRoom
	// S2CRoomState (S2C, reliable): room_name, [{player_id, name, host, spec}].
	S2CRoomState
	// S2CLeftRoom (S2C, reliable): player_id, reason, message.
	S2CLeftRoom
	// C2SStartGame (C2S, reliable): no payload.
	C2SStartGame
	// S2CGameStart (S2C, reliable): your_entity_id, {serverTick, [EntityState]}.
	S2CGameStart
	// C2SPlayerInput (C2S, unreliable): [InputSnapshot (last <=12)].
	C2SPlayerInput
	// S2CGameState (S2C, unsequenced): server_tick, [EntityState].
	S2CGameState
	// S2CGameruleUpdate (S2C, reliable): [{key, float value}].
	S2CGameruleUpdate
	// C2SChatMessage (C2S, reliable): text.
	C2SChatMessage
	// S2CChatMessage (S2C, reliable): player_id, name, text, timestamp.
	S2CChatMessage
	// Ping (both, unreliable): timestamp.
	Ping
	// Pong (both, unreliable): timestamp.
	Pong
)

// Reliability describes the transport.Flags a message type is declared
// to use on the wire (spec §4.7's "Reliability" column).
type Reliability int

const (
	ReliabilityReliable Reliability = iota
	ReliabilityUnreliable
	ReliabilityUnsequenced
)

// reliabilityOf is the catalog's fixed mapping from message type to
// declared delivery semantics; the transport layer is told which flags
// to use per send based on this table rather than ad hoc per-call choices.
var reliabilityOf = map[MessageType]Reliability{
	HandshakeRequest:   ReliabilityReliable,
	S2CHandshakeAck:    ReliabilityReliable,
	RegisterAccount:    ReliabilityReliable,
	LoginAccount:       ReliabilityReliable,
	S2CAuthResult:      ReliabilityReliable,
	C2SRequestRoomList: ReliabilityReliable,
	S2CRoomList:        ReliabilityReliable,
	C2SCreateRoom:      ReliabilityReliable,
	C2SJoinRoom:        ReliabilityReliable,
	C2SLeaveRoom:       ReliabilityReliable,
	S2CRoomState:       ReliabilityReliable,
	S2CLeftRoom:        ReliabilityReliable,
	C2SStartGame:       ReliabilityReliable,
	S2CGameStart:       ReliabilityReliable,
	C2SPlayerInput:     ReliabilityUnreliable,
	S2CGameState:       ReliabilityUnsequenced,
	S2CGameruleUpdate:  ReliabilityReliable,
	C2SChatMessage:     ReliabilityReliable,
	S2CChatMessage:     ReliabilityReliable,
	Ping:               ReliabilityUnreliable,
	Pong:               ReliabilityUnreliable,
}

// ReliabilityOf returns the declared delivery semantics for mt, or
// ReliabilityReliable if mt is not in the catalog (a safe default: never
// silently downgrade an unrecognized type to best-effort).
func ReliabilityOf(mt MessageType) Reliability {
	if r, ok := reliabilityOf[mt]; ok {
		return r
	}
	return ReliabilityReliable
}

func (mt MessageType) String() string {
	switch mt {
	case HandshakeRequest:
		return "HANDSHAKE_REQUEST"
	case S2CHandshakeAck:
		return "S2C_HANDSHAKE_ACK"
	case RegisterAccount:
		return "REGISTER_ACCOUNT"
	case LoginAccount:
		return "LOGIN_ACCOUNT"
	case S2CAuthResult:
		return "S2C_AUTH_RESULT"
	case C2SRequestRoomList:
		return "C2S_REQUEST_ROOM_LIST"
	case S2CRoomList:
		return "S2C_ROOM_LIST"
	case C2SCreateRoom:
		return "C2S_CREATE_ROOM"
	case C2SJoinRoom:
		return "C2S_JOIN_ROOM"
	case C2SLeaveRoom:
		return "C2S_LEAVE_ROOM"
	case S2CRoomState:
		return "S2C_ROOM_STATE"
	case S2CLeftRoom:
		return "S2C_LEFT_ROOM"
	case C2SStartGame:
		return "C2S_START_GAME"
	case S2CGameStart:
		return "S2C_GAME_START"
	case C2SPlayerInput:
		return "C2S_PLAYER_INPUT"
	case S2CGameState:
		return "S2C_GAME_STATE"
	case S2CGameruleUpdate:
		return "S2C_GAMERULE_UPDATE"
	case C2SChatMessage:
		return "C2S_CHAT_MESSAGE"
	case S2CChatMessage:
		return "S2C_CHAT_MESSAGE"
	case Ping:
		return "PING"
	case Pong:
		return "PONG"
	default:
		return "UNKNOWN"
	}
}

// Frame prefixes an encoded payload with its message type byte, producing
// the full on-wire packet (one message per datagram, per §4.6).
func Frame(mt MessageType, payload []byte) []byte {
	out := make([]byte, 1+len(payload))
	out[0] = byte(mt)
	copy(out[1:], payload)
	return out
}

// Unframe splits a raw datagram into its message type and payload.
// Unknown message types are still returned (not an error) so the caller
// can log-and-drop per §4.6 while keeping the connection.
func Unframe(raw []byte) (MessageType, []byte, error) {
	if len(raw) < 1 {
		return 0, nil, errShortFrame
	}
	return MessageType(raw[0]), raw[1:], nil
}

var errShortFrame = errors.New("protocol: empty datagram, no message type byte")
