// Package inputhistory is the client's redundant input ring (spec §4.5
// step 1/3), grounded on original_source/client/Input/InputBuffer.{hpp,cpp}:
// a deque of (seq, action) samples kept for replay and for the redundant
// C2S_PLAYER_INPUT packet.
package inputhistory

import "github.com/hexateam/rtype-core/internal/protocol"

// DefaultSize mirrors the original client's INPUT_HISTORY_SIZE: roughly
// 200ms of ticks at a 60Hz fixed step.
const DefaultSize = 12

// History is a bounded FIFO of recently-sent input snapshots, in
// increasing seq order. It is written only by the fixed-tick input
// sampler and trimmed by DropThroughSeq after each authoritative snapshot.
type History struct {
	maxSize int
	entries []protocol.InputSnapshot
	nextSeq uint32
}

// New returns an empty History capped at maxSize entries. A non-positive
// maxSize falls back to DefaultSize.
func New(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultSize
	}
	return &History{maxSize: maxSize}
}

// Push assigns the next monotonically increasing seq to (dx, dy, shoot),
// appends it, and returns the stamped snapshot so the caller can both
// predict locally and enqueue it for sending.
func (h *History) Push(dx, dy int8, shoot bool) protocol.InputSnapshot {
	h.nextSeq++
	snap := protocol.InputSnapshot{Seq: h.nextSeq, DX: dx, DY: dy, Shoot: shoot}
	h.entries = append(h.entries, snap)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
	return snap
}

// Recent returns up to the last n entries (the redundancy window for the
// outgoing C2S_PLAYER_INPUT packet), oldest first.
func (h *History) Recent(n int) []protocol.InputSnapshot {
	if n <= 0 || n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]protocol.InputSnapshot, n)
	copy(out, h.entries[len(h.entries)-n:])
	return out
}

// DropThroughSeq removes every entry with Seq <= processed (spec §4.5
// reconciliation step a), leaving only inputs the server has not yet
// acknowledged.
func (h *History) DropThroughSeq(processed uint32) {
	i := 0
	for i < len(h.entries) && h.entries[i].Seq <= processed {
		i++
	}
	h.entries = h.entries[i:]
}

// Remaining returns the entries still pending acknowledgement, oldest
// first — the set Reconciliation step c replays from the server position.
func (h *History) Remaining() []protocol.InputSnapshot {
	out := make([]protocol.InputSnapshot, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports how many unacknowledged entries are buffered.
func (h *History) Len() int { return len(h.entries) }
