package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// EventType enumerates what Host.Service can report, per spec §4.6:
// one of {CONNECT, RECEIVE(peer, payload), DISCONNECT(peer), NONE}.
type EventType int

const (
	EventNone EventType = iota
	EventConnect
	EventReceive
	EventDisconnect
)

// Event is the result of one Host.Service call.
type Event struct {
	Type    EventType
	Peer    *Peer
	Payload []byte
}

const peerTimeout = 15 * time.Second

// Host is a UDP endpoint that can act as either the server side (accepting
// new peers on first SYN) or the client side (dialing one peer). Service
// is the only entry point; it is meant to be called in a tight loop from
// a single dedicated goroutine (the "network thread" of spec §5).
type Host struct {
	conn   *net.UDPConn
	isServer bool

	mu    sync.Mutex
	peers map[string]*Peer // keyed by addr.String()
	byID  map[uint64]*Peer
	nextID atomic.Uint64

	log *zap.Logger

	closed  atomic.Bool
	backlog []backlogEntry
}

// Listen creates a server-side Host bound to bindAddr.
func Listen(bindAddr string, log *zap.Logger) (*Host, error) {
	addr, err := net.ResolveUDPAddr("udp", bindAddr)
	if err != nil {
		return nil, fmt.Errorf("resolve bind addr %s: %w", bindAddr, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen udp %s: %w", bindAddr, err)
	}
	return &Host{
		conn:     conn,
		isServer: true,
		peers:    make(map[string]*Peer),
		byID:     make(map[uint64]*Peer),
		log:      log,
	}, nil
}

// Dial creates a client-side Host and sends the initial handshake SYN to
// the given remote address. The resulting EventConnect (when the SYN/ACK
// completes) surfaces the Peer representing the server.
func Dial(remoteAddr string, log *zap.Logger) (*Host, *Peer, error) {
	addr, err := net.ResolveUDPAddr("udp", remoteAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve remote addr %s: %w", remoteAddr, err)
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return nil, nil, fmt.Errorf("open client socket: %w", err)
	}
	h := &Host{
		conn:  conn,
		peers: make(map[string]*Peer),
		byID:  make(map[uint64]*Peer),
		log:   log,
	}
	peer := h.addPeer(addr)
	if err := h.writeTo(addr, encodeEnvelope(kindHandshakeSYN, 0, nil)); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("send handshake syn: %w", err)
	}
	return h, peer, nil
}

func (h *Host) addPeer(addr *net.UDPAddr) *Peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p, ok := h.peers[addr.String()]; ok {
		return p
	}
	id := h.nextID.Add(1)
	p := newPeer(id, addr, h)
	h.peers[addr.String()] = p
	h.byID[id] = p
	return p
}

func (h *Host) removePeer(p *Peer) {
	h.mu.Lock()
	delete(h.peers, p.Addr.String())
	delete(h.byID, p.ID)
	h.mu.Unlock()
}

func (h *Host) writeTo(addr *net.UDPAddr, data []byte) error {
	if h.closed.Load() {
		return errors.New("transport: host closed")
	}
	_, err := h.conn.WriteToUDP(data, addr)
	return err
}

// Service blocks for up to timeout waiting for one event: a new peer
// connecting, a payload arriving, a peer disconnecting, or NONE if
// nothing happened within the budget. Internal control traffic (acks,
// pings/pongs, duplicate reliable resends) is absorbed without being
// surfaced, and retransmission/timeout bookkeeping runs inline so a
// single goroutine calling Service in a loop drives the whole transport.
func (h *Host) Service(timeout time.Duration) (Event, error) {
	h.mu.Lock()
	if len(h.backlog) > 0 {
		entry := h.backlog[0]
		h.backlog = h.backlog[1:]
		h.mu.Unlock()
		return Event{Type: EventReceive, Peer: entry.peer, Payload: entry.payload}, nil
	}
	h.mu.Unlock()

	deadline := time.Now().Add(timeout)
	buf := make([]byte, maxPacketSize)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			h.sweepTimeouts()
			return Event{Type: EventNone}, nil
		}
		h.conn.SetReadDeadline(time.Now().Add(remaining))
		n, addr, err := h.conn.ReadFromUDP(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				h.sweepTimeouts()
				return Event{Type: EventNone}, nil
			}
			if h.closed.Load() {
				return Event{}, errors.New("transport: host closed")
			}
			return Event{}, fmt.Errorf("read udp: %w", err)
		}

		env, err := decodeEnvelope(buf[:n])
		if err != nil {
			h.log.Debug("dropped malformed datagram", zap.String("addr", addr.String()), zap.Error(err))
			continue
		}

		ev, deliver := h.handleEnvelope(addr, env)
		if deliver {
			return ev, nil
		}
		// Control traffic handled internally; loop again within the budget.
		if time.Now().After(deadline) {
			return Event{Type: EventNone}, nil
		}
	}
}

func (h *Host) handleEnvelope(addr *net.UDPAddr, env envelope) (Event, bool) {
	switch env.kind {
	case kindHandshakeSYN:
		p := h.addPeer(addr)
		p.touch()
		_ = h.writeTo(addr, encodeEnvelope(kindHandshakeACK, 0, nil))
		return Event{Type: EventConnect, Peer: p}, true

	case kindHandshakeACK:
		h.mu.Lock()
		p := h.peers[addr.String()]
		h.mu.Unlock()
		if p == nil {
			return Event{}, false
		}
		p.mu.Lock()
		alreadySeen := p.handshakeAckSeen
		p.handshakeAckSeen = true
		p.mu.Unlock()
		p.touch()
		if alreadySeen {
			return Event{}, false
		}
		return Event{Type: EventConnect, Peer: p}, true

	case kindDisconnect:
		h.mu.Lock()
		p := h.peers[addr.String()]
		h.mu.Unlock()
		if p == nil {
			return Event{}, false
		}
		h.removePeer(p)
		return Event{Type: EventDisconnect, Peer: p}, true

	case kindDataReliable:
		h.mu.Lock()
		p := h.peers[addr.String()]
		h.mu.Unlock()
		if p == nil {
			p = h.addPeer(addr) // lost SYN but data arrived; admit the peer
		}
		p.touch()
		_ = h.writeTo(addr, encodeEnvelope(kindAck, env.seq, nil))
		ready := p.acceptReliable(env.seq, env.payload)
		if len(ready) == 0 {
			return Event{}, false
		}
		// Deliver the first ready payload now; any further in-order
		// payloads unblocked by filling a gap are queued so the next
		// Service calls return them in order without re-reading the
		// socket.
		if len(ready) > 1 {
			h.queueBacklog(p, ready[1:])
		}
		return Event{Type: EventReceive, Peer: p, Payload: ready[0]}, true

	case kindDataUnsequenced:
		h.mu.Lock()
		p := h.peers[addr.String()]
		h.mu.Unlock()
		if p == nil {
			return Event{}, false
		}
		p.touch()
		return Event{Type: EventReceive, Peer: p, Payload: env.payload}, true

	case kindAck:
		h.mu.Lock()
		p := h.peers[addr.String()]
		h.mu.Unlock()
		if p != nil {
			p.ackReliable(env.seq)
			p.touch()
		}
		return Event{}, false

	case kindPing:
		h.mu.Lock()
		p := h.peers[addr.String()]
		h.mu.Unlock()
		if p != nil {
			p.touch()
			_ = h.writeTo(addr, encodeEnvelope(kindPong, 0, env.payload))
		}
		return Event{}, false

	case kindPong:
		h.mu.Lock()
		p := h.peers[addr.String()]
		h.mu.Unlock()
		if p != nil && len(env.payload) == 8 {
			sentNanos := int64(binary.LittleEndian.Uint64(env.payload))
			rtt := time.Duration(time.Now().UnixNano() - sentNanos)
			if rtt > 0 {
				p.rttNanos.Store(int64(rtt))
			}
			p.touch()
		}
		return Event{}, false

	default:
		return Event{}, false
	}
}

// backlog holds reliable payloads whose delivery was unblocked by filling
// a reorder gap but could not be returned from the same Service call.
type backlogEntry struct {
	peer    *Peer
	payload []byte
}

func (h *Host) queueBacklog(p *Peer, payloads [][]byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, pl := range payloads {
		h.backlog = append(h.backlog, backlogEntry{peer: p, payload: pl})
	}
}

// sweepTimeouts retransmits due reliable payloads for every peer and
// disconnects peers that have gone silent past peerTimeout. Called once
// per Service timeout tick. It does not send Ping.
func (h *Host) sweepTimeouts() {
	now := time.Now()
	h.mu.Lock()
	peers := make([]*Peer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		last := time.Unix(0, p.lastActivity.Load())
		if now.Sub(last) > peerTimeout {
			h.removePeer(p)
			continue
		}
		p.retransmitDue(func(attempt int, seq uint32) {
			h.log.Debug("retransmitting reliable payload",
				zap.Uint64("peer", p.ID), zap.Uint32("seq", seq), zap.Int("attempt", attempt))
		})
	}
}

// Ping sends a PING carrying the current timestamp to peer; RTT updates
// when the PONG arrives and is processed by a later Service call.
func (h *Host) Ping(p *Peer) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(time.Now().UnixNano()))
	return h.writeTo(p.Addr, encodeEnvelope(kindPing, 0, buf))
}

// Peers returns a snapshot of currently known peers.
func (h *Host) Peers() []*Peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Peer, 0, len(h.peers))
	for _, p := range h.peers {
		out = append(out, p)
	}
	return out
}

// PeerByID looks up a peer by its stable id.
func (h *Host) PeerByID(id uint64) (*Peer, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.byID[id]
	return p, ok
}

// Disconnect notifies the peer and removes it locally.
func (h *Host) Disconnect(p *Peer) {
	_ = h.writeTo(p.Addr, encodeEnvelope(kindDisconnect, 0, nil))
	h.removePeer(p)
}

// Close shuts down the underlying socket, unblocking any in-flight
// Service call.
func (h *Host) Close() error {
	h.closed.Store(true)
	return h.conn.Close()
}

// LocalAddr returns the bound local address.
func (h *Host) LocalAddr() net.Addr {
	return h.conn.LocalAddr()
}
