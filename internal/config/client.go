package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// ClientConfig is the root client configuration document.
type ClientConfig struct {
	Connection ConnectionConfig `toml:"connection"`
	Prediction PredictionConfig `toml:"prediction"`
	Logging    LoggingConfig    `toml:"logging"`
}

type ConnectionConfig struct {
	Host             string        `toml:"host"`
	Port             int           `toml:"port"`
	HandshakeTimeout time.Duration `toml:"handshake_timeout"`
	TickRate         time.Duration `toml:"tick_rate"`
}

// PredictionConfig exposes the client game rules as an explicit value
// passed into the client façade (spec §9 design note: replace the
// source's global "client game rules" singleton with an explicit config
// value plus a small sync primitive for live updates — see
// internal/client/gamerules).
type PredictionConfig struct {
	InputHistorySize    int     `toml:"input_history_size"`
	MicroJitterPx       float64 `toml:"micro_jitter_px"`
	AdaptiveBasePx      float64 `toml:"adaptive_base_px"`
	AdaptivePerMsPx     float64 `toml:"adaptive_per_ms_px"`
	AdaptiveMaxPx       float64 `toml:"adaptive_max_px"`
}

func LoadClientConfig(path string) (*ClientConfig, error) {
	cfg := clientDefaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func clientDefaults() *ClientConfig {
	return &ClientConfig{
		Connection: ConnectionConfig{
			Host:             "127.0.0.1",
			Port:             4242,
			HandshakeTimeout: 5 * time.Second,
			TickRate:         time.Second / 60,
		},
		Prediction: PredictionConfig{
			InputHistorySize: 12, // ~200ms at 60Hz
			MicroJitterPx:    2.0,
			AdaptiveBasePx:   5.0,
			AdaptivePerMsPx:  0.25,
			AdaptiveMaxPx:    30.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
