// Package gamerules is the client-side replacement for the original
// client's global ClientGameRules singleton
// (original_source/client/Core/ClientGameRules.hpp): a small mutex-guarded
// key→float map updated by S2C_GAMERULE_UPDATE on the network thread and
// read by prediction/rendering on the main thread (spec §5 shared-resource
// policy).
package gamerules

import (
	"sync"

	"github.com/hexateam/rtype-core/internal/protocol"
)

// defaults mirror the server's DefaultStrategy/ECS starting values so the
// client has sane behavior before its first GAMERULE_UPDATE arrives.
var defaults = map[protocol.GameruleKey]float64{
	protocol.GamerulePlayerSpeed:    200.0,
	protocol.GamerulePlayerHealth:   100.0,
	protocol.GamerulePlayerFireRate: 4.0,
	protocol.GamerulePlayerDamage:   10.0,
}

// Rules is the live, mutable set of gamerule values a connected client
// has learned from the server.
type Rules struct {
	mu     sync.RWMutex
	values map[protocol.GameruleKey]float64
}

// New returns a Rules seeded with the documented defaults.
func New() *Rules {
	r := &Rules{values: make(map[protocol.GameruleKey]float64, len(defaults))}
	for k, v := range defaults {
		r.values[k] = v
	}
	return r
}

// Apply folds an S2C_GAMERULE_UPDATE's entries into the rule set.
// GameruleUnknown entries are kept out of the map entirely (spec §4.7:
// unknown keys are ignored, not stored under a sentinel).
func (r *Rules) Apply(entries []protocol.GameruleEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		if e.Key == protocol.GameruleUnknown {
			continue
		}
		r.values[e.Key] = e.Value
	}
}

// Get returns the current value for key, or ok=false if never set.
func (r *Rules) Get(key protocol.GameruleKey) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

// PlayerSpeed is a convenience accessor for the value prediction.Engine
// needs every tick.
func (r *Rules) PlayerSpeed() float64 {
	v, _ := r.Get(protocol.GamerulePlayerSpeed)
	return v
}
