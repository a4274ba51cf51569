// Package replicator is the client's network thread (spec §5: "Network
// thread: owns the client socket; fills the inbox queue"), grounded on
// original_source/client/Network/Replicator.{hpp,cpp}'s dedicated
// networkThreadLoop + ThreadSafeQueue-of-incoming-messages design,
// rebuilt atop transport.Host/Peer instead of the original's raw ENet +
// Cap'n Proto stack.
package replicator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hexateam/rtype-core/internal/protocol"
	"github.com/hexateam/rtype-core/internal/transport"
)

// serviceTimeout bounds each transport.Host.Service poll so the network
// goroutine can notice ctx cancellation promptly (spec §5: "Stop is
// cooperative: a stop token is checked at each loop iteration").
const serviceTimeout = 100 * time.Millisecond

// handshakePolls/handshakePollInterval implement spec §5's "≈5s (50 ×
// 100ms polls)" client handshake timeout.
const (
	handshakePolls        = 50
	handshakePollInterval = 100 * time.Millisecond
)

// Inbound is one decoded server→client message paired with its type, as
// delivered to the main thread each frame.
type Inbound struct {
	Type    protocol.MessageType
	Message any
}

// ErrHandshakeTimeout is returned by Connect when no S2C_HANDSHAKE_ACK
// arrives within the spec's ~5s budget.
var ErrHandshakeTimeout = fmt.Errorf("replicator: handshake timed out")

// Replicator owns the client-side transport.Host and runs its Service
// loop on a dedicated goroutine, publishing decoded messages into Inbox
// for the main thread to drain once per frame (spec §5).
type Replicator struct {
	host *transport.Host
	peer *transport.Peer
	log  *zap.Logger

	Inbox       chan Inbound
	Disconnected chan struct{}
}

// Connect dials remoteAddr, performs the HANDSHAKE_REQUEST/ACK exchange
// synchronously (bounded by the spec's handshake timeout), and starts the
// background network goroutine on success.
func Connect(ctx context.Context, remoteAddr, playerName string, log *zap.Logger) (*Replicator, error) {
	host, peer, err := transport.Dial(remoteAddr, log)
	if err != nil {
		return nil, fmt.Errorf("replicator: dial: %w", err)
	}

	req := protocol.HandshakeRequestMsg{PlayerName: playerName}
	if err := peer.Send(req.Encode(), transport.Reliable); err != nil {
		host.Close()
		return nil, fmt.Errorf("replicator: send handshake: %w", err)
	}

	ack, err := awaitHandshakeAck(host)
	if err != nil {
		host.Close()
		return nil, err
	}
	_ = ack // assigned player id is surfaced via the first Inbox message below

	r := &Replicator{
		host:         host,
		peer:         peer,
		log:          log,
		Inbox:        make(chan Inbound, 256),
		Disconnected: make(chan struct{}),
	}
	r.Inbox <- Inbound{Type: protocol.S2CHandshakeAck, Message: ack}
	go r.networkLoop(ctx)
	return r, nil
}

// awaitHandshakeAck polls Service for up to handshakePolls iterations
// looking for the S2C_HANDSHAKE_ACK reply, per spec §5's fixed handshake
// budget.
func awaitHandshakeAck(host *transport.Host) (protocol.HandshakeAckMsg, error) {
	for i := 0; i < handshakePolls; i++ {
		ev, err := host.Service(handshakePollInterval)
		if err != nil {
			return protocol.HandshakeAckMsg{}, fmt.Errorf("replicator: handshake service: %w", err)
		}
		if ev.Type != transport.EventReceive {
			continue
		}
		decoded, err := protocol.Decode(ev.Payload)
		if err != nil {
			continue
		}
		if ack, ok := decoded.Message.(protocol.HandshakeAckMsg); ok {
			return ack, nil
		}
	}
	return protocol.HandshakeAckMsg{}, ErrHandshakeTimeout
}

// networkLoop is the dedicated network thread: it only services the
// transport and forwards decoded payloads into Inbox, exactly mirroring
// the original Replicator's networkThreadLoop/ThreadSafeQueue split.
func (r *Replicator) networkLoop(ctx context.Context) {
	defer close(r.Disconnected)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		ev, err := r.host.Service(serviceTimeout)
		if err != nil {
			r.log.Debug("replicator service error", zap.Error(err))
			return
		}
		switch ev.Type {
		case transport.EventNone:
			continue
		case transport.EventDisconnect:
			return
		case transport.EventReceive:
			decoded, err := protocol.Decode(ev.Payload)
			if err != nil {
				r.log.Debug("dropping undecodable packet", zap.Error(err))
				continue
			}
			select {
			case r.Inbox <- Inbound{Type: decoded.Type, Message: decoded.Message}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Send transmits a pre-encoded, framed message under the catalog's
// declared reliability for mt.
func (r *Replicator) Send(mt protocol.MessageType, framed []byte) error {
	flags := transport.Unsequenced
	if protocol.ReliabilityOf(mt) == protocol.ReliabilityReliable {
		flags = transport.Reliable
	}
	return r.peer.Send(framed, flags)
}

// RTT returns the transport-measured round-trip time to the server.
func (r *Replicator) RTT() time.Duration { return r.peer.RTT() }

// Close tears down the client socket.
func (r *Replicator) Close() error { return r.host.Close() }
