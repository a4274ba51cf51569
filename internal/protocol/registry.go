package protocol

import "fmt"

// Decoded is a successfully parsed packet: the message type plus the
// decoded payload as `any`, left to the caller to type-assert. Mirrors
// the teacher's opcode→handler registry shape, generalized here to a
// decode-only registry since dispatch (which room, which session) lives
// in the server façade, not in this package.
type Decoded struct {
	Type    MessageType
	Message any
}

type decodeFunc func([]byte) (any, error)

var decoders = map[MessageType]decodeFunc{
	HandshakeRequest:   wrap(DecodeHandshakeRequest),
	S2CHandshakeAck:    wrap(DecodeHandshakeAck),
	RegisterAccount:    wrap(DecodeRegisterAccount),
	LoginAccount:       wrap(DecodeLoginAccount),
	S2CAuthResult:      wrap(DecodeAuthResult),
	C2SRequestRoomList: func(b []byte) (any, error) { return struct{}{}, nil },
	S2CRoomList:        wrap(DecodeRoomList),
	C2SCreateRoom:      wrap(DecodeCreateRoom),
	C2SJoinRoom:        wrap(DecodeJoinRoom),
	C2SLeaveRoom:       func(b []byte) (any, error) { return struct{}{}, nil },
	S2CRoomState:       wrap(DecodeRoomState),
	S2CLeftRoom:        wrap(DecodeLeftRoom),
	C2SStartGame:       func(b []byte) (any, error) { return struct{}{}, nil },
	S2CGameStart:       wrap(DecodeGameStart),
	C2SPlayerInput:     wrap(DecodePlayerInput),
	S2CGameState:       wrap(DecodeGameState),
	S2CGameruleUpdate:  wrap(DecodeGameruleUpdate),
	C2SChatMessage:     wrap(DecodeChatMessageC2S),
	S2CChatMessage:     wrap(DecodeChatMessageS2C),
	Ping:               wrap(DecodePing),
	Pong:               wrap(DecodePong),
}

func wrap[T any](f func([]byte) (T, error)) decodeFunc {
	return func(b []byte) (any, error) { return f(b) }
}

// Decode splits a raw datagram into its message type and decodes the
// payload using the catalog above. An unknown message type is returned
// as an error the caller classifies as coreerr.ErrTransientNetwork and
// handles per §4.6: log and drop, keep the connection.
func Decode(raw []byte) (Decoded, error) {
	mt, payload, err := Unframe(raw)
	if err != nil {
		return Decoded{}, err
	}
	dec, ok := decoders[mt]
	if !ok {
		return Decoded{}, fmt.Errorf("protocol: unknown message type %d", mt)
	}
	msg, err := dec(payload)
	if err != nil {
		return Decoded{}, fmt.Errorf("protocol: decode %s: %w", mt, err)
	}
	return Decoded{Type: mt, Message: msg}, nil
}
