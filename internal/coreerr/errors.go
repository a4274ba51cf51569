// Package coreerr holds the sentinel errors for the error taxonomy of
// spec §7, checked with errors.Is at call sites instead of a custom
// exception hierarchy (§9 design note: explicit result values, not
// exceptions unwinding across system boundaries).
package coreerr

import "errors"

var (
	// ErrTransientNetwork: packet decode failed, unknown message type, peer
	// unreachable for a single send. Logged and ignored; connection kept.
	ErrTransientNetwork = errors.New("transient network error")

	// ErrProtocolViolation: input with seq regression, join attempt
	// violating room state. The action is refused; the peer stays
	// connected unless the violation repeats past a threshold.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrResourceExhaustion: room full, server at max connections. An
	// explicit refusal is sent; the peer stays connected.
	ErrResourceExhaustion = errors.New("resource exhaustion")

	// ErrInvariantViolation: component missing where required, entity id
	// collision. Logged; the tick completes best-effort and the affected
	// entity is reaped.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrFatalInit: network binding failed, required subsystem failed to
	// start. The process exits non-zero.
	ErrFatalInit = errors.New("fatal initialization error")
)
