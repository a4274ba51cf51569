// Command server is the authoritative room/match server (spec §6):
// positional `<port>` and optional `<max_clients>`, TOML configuration
// for everything else. Exit code 0 on clean shutdown, 1 on
// initialization failure — grounded on the teacher's main.go config-load
// / logger-init / signal-driven shutdown shape.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hexateam/rtype-core/internal/config"
	"github.com/hexateam/rtype-core/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	port, maxClients, err := parseArgs(os.Args[1:])
	if err != nil {
		return err
	}

	cfgPath := "config/server.toml"
	if p := os.Getenv("RTYPE_SERVER_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServerConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Network.BindAddress = fmt.Sprintf("0.0.0.0:%d", port)
	if maxClients > 0 {
		cfg.Server.MaxClients = maxClients
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	srv, err := server.New(cfg, log)
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("server listening",
		zap.String("bind_address", cfg.Network.BindAddress),
		zap.Int("max_clients", cfg.Server.MaxClients))

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server run: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// parseArgs implements spec §6's server CLI surface: positional
// `<port>` and optional `<max_clients>`.
func parseArgs(args []string) (port, maxClients int, err error) {
	if len(args) < 1 {
		return 0, 0, fmt.Errorf("usage: server <port> [max_clients]")
	}
	port, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid port %q: %w", args[0], err)
	}
	if len(args) >= 2 {
		maxClients, err = strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid max_clients %q: %w", args[1], err)
		}
	}
	return port, maxClients, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
