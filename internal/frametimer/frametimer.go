// Package frametimer provides the monotonic elapsed-time source the
// server's simulation loop builds its fixed-timestep accumulator on,
// grounded on original_source/server/Core/Clock/FrameTimer.hpp.
package frametimer

import "time"

// FrameTimer measures elapsed wall-clock time between successive calls to
// Tick, using the monotonic clock reading time.Now() already carries.
type FrameTimer struct {
	last time.Time
}

// New returns a FrameTimer whose first Tick() call measures elapsed time
// from the moment New was called.
func New() *FrameTimer {
	return &FrameTimer{last: time.Now()}
}

// Tick returns the elapsed time since the previous Tick (or since New, for
// the first call) and resets the internal reference point.
func (f *FrameTimer) Tick() time.Duration {
	now := time.Now()
	elapsed := now.Sub(f.last)
	f.last = now
	return elapsed
}

// Peek returns the elapsed time since the last Tick without resetting it.
func (f *FrameTimer) Peek() time.Duration {
	return time.Since(f.last)
}
