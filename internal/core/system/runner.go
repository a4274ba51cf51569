package system

import (
	"fmt"
	"sort"
	"time"
)

// Runner executes systems in phase order each tick. A panic inside one
// system's Update is recovered at the system boundary (spec §4.2 failure
// semantics / §7 INVARIANT_VIOLATION): the tick still completes, and the
// error is retained for the caller to surface on the next snapshot.
type Runner struct {
	systems  []System
	sorted   bool
	lastErrs []error
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs every registered system once, in phase order.
func (r *Runner) Tick(dt time.Duration) {
	if !r.sorted {
		sort.Slice(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
	r.lastErrs = r.lastErrs[:0]
	for _, s := range r.systems {
		r.runOne(s, dt)
	}
}

// TickPhase runs only the systems registered under the given phase. Unlike
// Tick it does not clear the errors recorded by the previous Tick.
func (r *Runner) TickPhase(p Phase, dt time.Duration) {
	if !r.sorted {
		sort.Slice(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
	for _, s := range r.systems {
		if s.Phase() == p {
			r.runOne(s, dt)
		}
	}
}

func (r *Runner) runOne(s System, dt time.Duration) {
	defer func() {
		if rec := recover(); rec != nil {
			r.lastErrs = append(r.lastErrs, fmt.Errorf("system %T panicked: %v", s, rec))
		}
	}()
	s.Update(dt)
}

// Errors returns the failures recorded during the most recent Tick, if
// any. Callers (GameLogic) attach these to the next snapshot per §7.
func (r *Runner) Errors() []error {
	return r.lastErrs
}
