package spawnstrategy

import "github.com/hexateam/rtype-core/internal/ecsgame"

// DefaultStrategy deterministically replays a WaveTable: for a fixed seed
// wave-script + fixed input stream, two simulations must produce
// pointwise-identical Transforms (spec §8 property 7) — a shared,
// immutable WaveTable with no internal randomness satisfies that for any
// number of rooms running it concurrently.
type DefaultStrategy struct {
	table *WaveTable
	fired map[string]map[int]bool // roomID -> entry index -> already fired
}

func NewDefaultStrategy(table *WaveTable) *DefaultStrategy {
	return &DefaultStrategy{
		table: table,
		fired: make(map[string]map[int]bool),
	}
}

func (s *DefaultStrategy) OnGameStart(roomID string, ctx SpawnContext) {
	s.fired[roomID] = make(map[int]bool)
}

func (s *DefaultStrategy) OnTick(roomID string, tick uint64, ctx SpawnContext) {
	firedForRoom := s.fired[roomID]
	if firedForRoom == nil {
		firedForRoom = make(map[int]bool)
		s.fired[roomID] = firedForRoom
	}
	for i, entry := range s.table.Entries {
		if firedForRoom[i] || entry.TickOffset != tick {
			continue
		}
		firedForRoom[i] = true
		for n := 0; n < entry.Count; n++ {
			ctx.RequestSpawn(ecsgame.SpawnRequest{
				Kind:      ecsgame.SpawnEnemy,
				X:         entry.X,
				Y:         entry.Y,
				EnemyType: entry.Type,
			})
		}
	}
}

// done reports whether every scheduled wave for a room has fired, used by
// tests to assert the default strategy terminates.
func (s *DefaultStrategy) done(roomID string) bool {
	firedForRoom := s.fired[roomID]
	return len(firedForRoom) == len(s.table.Entries)
}
