package spawnstrategy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hexateam/rtype-core/internal/ecsgame"
	"github.com/hexateam/rtype-core/internal/scripting"
	"github.com/hexateam/rtype-core/internal/spawnstrategy"
)

type recordingCtx struct {
	spawns []ecsgame.SpawnRequest
}

func (c *recordingCtx) RequestSpawn(req ecsgame.SpawnRequest) { c.spawns = append(c.spawns, req) }
func (c *recordingCtx) BoundsWidth() float64                  { return 800 }
func (c *recordingCtx) BoundsHeight() float64                 { return 600 }

func TestLuaStrategyDispatchesRequestedSpawns(t *testing.T) {
	dir := t.TempDir()
	script := `
function on_tick(room_id, tick)
	if tick == 5 then
		return {
			{ type = "drone", x = 10, y = 20, count = 3 },
		}
	end
	return {}
end
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wave.lua"), []byte(script), 0o644))

	engine, err := scripting.NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer engine.Close()

	strategy := spawnstrategy.NewLuaStrategy(engine)
	ctx := &recordingCtx{}

	strategy.OnTick("room-1", 4, ctx)
	require.Empty(t, ctx.spawns)

	strategy.OnTick("room-1", 5, ctx)
	require.Len(t, ctx.spawns, 3)
	for _, sp := range ctx.spawns {
		require.Equal(t, "drone", sp.EnemyType)
		require.Equal(t, ecsgame.SpawnEnemy, sp.Kind)
		require.Equal(t, 10.0, sp.X)
		require.Equal(t, 20.0, sp.Y)
	}
}

func TestLuaStrategyOnGameStartWithoutFunctionYieldsNoSpawns(t *testing.T) {
	dir := t.TempDir() // no scripts at all

	engine, err := scripting.NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer engine.Close()

	strategy := spawnstrategy.NewLuaStrategy(engine)
	ctx := &recordingCtx{}

	strategy.OnGameStart("room-1", ctx)

	require.Empty(t, ctx.spawns)
}
