package spawnstrategy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexateam/rtype-core/internal/spawnstrategy"
)

func TestLoadWaveTableMissingFileYieldsEmptyTable(t *testing.T) {
	wt, err := spawnstrategy.LoadWaveTable(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Empty(t, wt.Entries)
}

func TestLoadWaveTableParsesEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "waves.yaml")
	yamlContent := `
waves:
  - tick_offset: 10
    type: drone
    count: 2
    x: 100
    y: 50
  - tick_offset: 20
    type: turret
    count: 1
    x: 200
    y: 60
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	wt, err := spawnstrategy.LoadWaveTable(path)

	require.NoError(t, err)
	require.Len(t, wt.Entries, 2)
	assert.Equal(t, "drone", wt.Entries[0].Type)
	assert.Equal(t, uint64(20), wt.Entries[1].TickOffset)
}

func TestLoadWaveTableMalformedYamlErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "waves.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0o644))

	_, err := spawnstrategy.LoadWaveTable(path)

	assert.Error(t, err)
}
