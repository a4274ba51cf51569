// Package transport implements the reliable-capable UDP datagram channel
// of spec §4.6: service(timeout) polling, peer.send(payload, flags) with
// RELIABLE/UNSEQUENCED delivery, and per-peer RTT measurement. No ENet (or
// equivalent) library appears anywhere in the retrieved corpus, so this
// package is the one stdlib-only (net.UDPConn) component of the stack —
// everything above it still follows the teacher's channel/goroutine idiom.
package transport

import (
	"encoding/binary"
	"fmt"
)

// envelopeKind tags the transport-level control meaning of a datagram.
// This sits below the application protocol (internal/protocol): a single
// envelope of kindDataReliable or kindDataUnsequenced carries one
// application-layer message as its payload.
type envelopeKind uint8

const (
	kindHandshakeSYN envelopeKind = iota
	kindHandshakeACK
	kindDisconnect
	kindDataReliable
	kindDataUnsequenced
	kindAck
	kindPing
	kindPong
)

// maxPacketSize bounds a single UDP datagram; comfortably under the
// common 1472-byte Ethernet MTU payload ceiling to avoid IP fragmentation.
const maxPacketSize = 1400

// encodeEnvelope builds the wire bytes for one transport-level datagram.
// seq is meaningful only for kindDataReliable and kindAck; it is ignored
// (and omitted) otherwise.
func encodeEnvelope(kind envelopeKind, seq uint32, payload []byte) []byte {
	switch kind {
	case kindDataReliable, kindAck:
		buf := make([]byte, 5+len(payload))
		buf[0] = byte(kind)
		binary.LittleEndian.PutUint32(buf[1:5], seq)
		copy(buf[5:], payload)
		return buf
	case kindPing, kindPong:
		buf := make([]byte, 1+len(payload))
		buf[0] = byte(kind)
		copy(buf[1:], payload)
		return buf
	default:
		buf := make([]byte, 1+len(payload))
		buf[0] = byte(kind)
		copy(buf[1:], payload)
		return buf
	}
}

// envelope is a decoded transport-level datagram.
type envelope struct {
	kind    envelopeKind
	seq     uint32
	payload []byte
}

func decodeEnvelope(raw []byte) (envelope, error) {
	if len(raw) < 1 {
		return envelope{}, fmt.Errorf("empty datagram")
	}
	kind := envelopeKind(raw[0])
	switch kind {
	case kindDataReliable, kindAck:
		if len(raw) < 5 {
			return envelope{}, fmt.Errorf("short reliable/ack envelope: %d bytes", len(raw))
		}
		return envelope{
			kind:    kind,
			seq:     binary.LittleEndian.Uint32(raw[1:5]),
			payload: raw[5:],
		}, nil
	case kindHandshakeSYN, kindHandshakeACK, kindDisconnect, kindDataUnsequenced, kindPing, kindPong:
		return envelope{kind: kind, payload: raw[1:]}, nil
	default:
		return envelope{}, fmt.Errorf("unknown envelope kind %d", raw[0])
	}
}
