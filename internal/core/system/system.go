package system

import "time"

// Phase defines execution ordering within a single tick, fixed per spec
// §4.2: InputApplication, Buff, Movement, Collision, Health, AI, Spawn,
// Boundary, Reaping, Snapshot.
type Phase int

const (
	PhaseInputApplication Phase = iota // 0: consume queued input, set Velocity
	PhaseBuff                          // 1: decrement timers, apply/undo modifiers
	PhaseMovement                      // 2: Transform += Velocity · dt
	PhaseCollision                     // 3: pairwise broad-phase, emit damage events
	PhaseHealth                        // 4: apply queued damage, tick invincibility
	PhaseAI                            // 5: drive Enemy behavior
	PhaseSpawn                         // 6: consume spawn requests, instantiate entities
	PhaseBoundary                      // 7: destroy out-of-bounds entities
	PhaseReaping                       // 8: materialize deletions scheduled this tick
	PhaseSnapshot                      // 9: advance tick counter
)

// System is the interface every ECS system implements. Update receives the
// fixed timestep duration; systems that need the absolute tick number read
// it from the GameLogic that owns them rather than through this interface,
// keeping System itself tick-agnostic and easy to unit test in isolation.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
