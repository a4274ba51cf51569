package transport

import (
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Flags selects delivery semantics for Peer.Send, mirroring ENet's
// RELIABLE/UNSEQUENCED channel flags referenced in spec §4.6.
type Flags uint8

const (
	// Reliable messages are delivered at most once per send, in order,
	// retransmitted until acknowledged or until maxReliableAttempts sends
	// have been made, after which the payload is dropped (spec §6).
	Reliable Flags = 1 << iota
	// Unsequenced messages may be reordered and/or lost; no retransmission.
	Unsequenced
)

const (
	maxReliableAttempts = 8
	initialRTO          = 120 * time.Millisecond
	maxReorderWait      = 2 * time.Second
)

type pendingReliable struct {
	data     []byte
	attempts int
	sentAt   time.Time
}

type bufferedReliable struct {
	seq      uint32
	payload  []byte
	received time.Time
}

// Peer is one connected remote endpoint. All mutable state is protected by
// mu; Send and the host's receive path may run from different goroutines.
type Peer struct {
	ID   uint64
	Addr *net.UDPAddr

	host *Host

	mu              sync.Mutex
	nextOutSeq      uint32
	pending         map[uint32]*pendingReliable
	nextInSeq       uint32
	reorderBuf      map[uint32]bufferedReliable
	lastPingSentAt  time.Time
	lastPingNonce   uint64
	rttNanos        atomic.Int64
	lastActivity    atomic.Int64 // unix nanos
	handshakeAckSeen bool
}

func newPeer(id uint64, addr *net.UDPAddr, h *Host) *Peer {
	p := &Peer{
		ID:         id,
		Addr:       addr,
		host:       h,
		nextOutSeq: 1,
		nextInSeq:  1,
		pending:    make(map[uint32]*pendingReliable),
		reorderBuf: make(map[uint32]bufferedReliable),
	}
	p.touch()
	return p
}

func (p *Peer) touch() {
	p.lastActivity.Store(time.Now().UnixNano())
}

// RTT returns the most recently measured round-trip time, or zero if no
// PING/PONG round trip has completed yet.
func (p *Peer) RTT() time.Duration {
	return time.Duration(p.rttNanos.Load())
}

// Send transmits payload to the peer under the requested delivery flags.
// Reliable sends are tracked for retransmission until acked; unsequenced
// sends are fire-and-forget.
func (p *Peer) Send(payload []byte, flags Flags) error {
	if flags&Reliable != 0 {
		p.mu.Lock()
		seq := p.nextOutSeq
		p.nextOutSeq++
		env := encodeEnvelope(kindDataReliable, seq, payload)
		p.pending[seq] = &pendingReliable{data: env, attempts: 1, sentAt: time.Now()}
		p.mu.Unlock()
		return p.host.writeTo(p.Addr, env)
	}
	env := encodeEnvelope(kindDataUnsequenced, 0, payload)
	return p.host.writeTo(p.Addr, env)
}

// ackReliable is called when a kindAck envelope referencing seq arrives
// for this peer; it clears the retransmission entry.
func (p *Peer) ackReliable(seq uint32) {
	p.mu.Lock()
	delete(p.pending, seq)
	p.mu.Unlock()
}

// retransmitDue resends any reliable payloads whose retransmit timeout has
// elapsed, using an RTT-scaled backoff; payloads exceeding
// maxReliableAttempts are dropped (spec §7 TRANSIENT_NETWORK: logged,
// ignored, connection retained).
func (p *Peer) retransmitDue(log func(attempt int, seq uint32)) {
	now := time.Now()
	rto := initialRTO
	if rtt := p.RTT(); rtt > 0 {
		rto = rtt*2 + 20*time.Millisecond
	}
	p.mu.Lock()
	var toSend []pendingReliable
	for seq, pr := range p.pending {
		if now.Sub(pr.sentAt) < rto {
			continue
		}
		pr.attempts++
		pr.sentAt = now
		if pr.attempts > maxReliableAttempts {
			delete(p.pending, seq)
			continue
		}
		toSend = append(toSend, *pr)
		if log != nil {
			log(pr.attempts, seq)
		}
	}
	p.mu.Unlock()
	for _, pr := range toSend {
		_ = p.host.writeTo(p.Addr, pr.data)
	}
}

// acceptReliable implements the in-order delivery + dedup + reorder-buffer
// logic for an incoming reliable envelope. It returns the payloads that
// are now ready for delivery, in order (zero, one, or many if a gap was
// just filled).
func (p *Peer) acceptReliable(seq uint32, payload []byte) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq < p.nextInSeq {
		return nil // duplicate retransmit, already delivered
	}
	if seq > p.nextInSeq {
		p.reorderBuf[seq] = bufferedReliable{seq: seq, payload: payload, received: time.Now()}
		p.evictStaleReorder()
		return nil
	}

	ready := [][]byte{payload}
	p.nextInSeq++
	for {
		buffered, ok := p.reorderBuf[p.nextInSeq]
		if !ok {
			break
		}
		delete(p.reorderBuf, p.nextInSeq)
		ready = append(ready, buffered.payload)
		p.nextInSeq++
	}
	return ready
}

// evictStaleReorder drops buffered out-of-order packets that have sat
// unfilled past maxReorderWait, so a permanently-lost lower seq cannot
// block delivery forever (the sender's own retransmit loop will re-send
// the gap; this only bounds memory for pathological peers).
func (p *Peer) evictStaleReorder() {
	cutoff := time.Now().Add(-maxReorderWait)
	for seq, b := range p.reorderBuf {
		if b.received.Before(cutoff) {
			delete(p.reorderBuf, seq)
		}
	}
}
