package spawnstrategy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WaveEntry describes one scheduled enemy spawn: at tick TickOffset after
// game start, spawn Count enemies of Type at (X, Y).
type WaveEntry struct {
	TickOffset uint64  `yaml:"tick_offset"`
	Type       string  `yaml:"type"`
	Count      int     `yaml:"count"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
}

// WaveTable is an ordered list of wave entries, loaded once at server boot
// and shared (read-only) across every room's default strategy instance.
type WaveTable struct {
	Entries []WaveEntry `yaml:"waves"`
}

// LoadWaveTable reads a YAML wave table. A missing file yields an empty
// table rather than an error, so a fresh checkout still boots.
func LoadWaveTable(path string) (*WaveTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &WaveTable{}, nil
		}
		return nil, fmt.Errorf("load wave table %s: %w", path, err)
	}
	var wt WaveTable
	if err := yaml.Unmarshal(data, &wt); err != nil {
		return nil, fmt.Errorf("parse wave table %s: %w", path, err)
	}
	return &wt, nil
}
