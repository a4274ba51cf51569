package spawnstrategy

import (
	"github.com/hexateam/rtype-core/internal/ecsgame"
	"github.com/hexateam/rtype-core/internal/scripting"
)

// LuaStrategy adapts a Lua wave script (spec §1: "Spawn strategy...may be
// supplied as a scripted plugin") to the Strategy interface, translating
// each requested spawn into a SpawnContext.RequestSpawn call. Grounded on
// internal/scripting.Engine's OnGameStart/OnTick pair and on
// DefaultStrategy's RequestSpawn wiring, which this type otherwise
// mirrors.
type LuaStrategy struct {
	engine *scripting.Engine
}

// NewLuaStrategy wraps an already-loaded Lua engine. The caller owns the
// engine's lifetime (including Close).
func NewLuaStrategy(engine *scripting.Engine) *LuaStrategy {
	return &LuaStrategy{engine: engine}
}

func (s *LuaStrategy) OnGameStart(roomID string, ctx SpawnContext) {
	s.dispatch(s.engine.OnGameStart(roomID), ctx)
}

func (s *LuaStrategy) OnTick(roomID string, tick uint64, ctx SpawnContext) {
	s.dispatch(s.engine.OnTick(roomID, tick), ctx)
}

func (s *LuaStrategy) dispatch(calls []scripting.SpawnCall, ctx SpawnContext) {
	for _, call := range calls {
		count := call.Count
		if count <= 0 {
			count = 1
		}
		for n := 0; n < count; n++ {
			ctx.RequestSpawn(ecsgame.SpawnRequest{
				Kind:      ecsgame.SpawnEnemy,
				X:         call.X,
				Y:         call.Y,
				EnemyType: call.EnemyType,
			})
		}
	}
}
