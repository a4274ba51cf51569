// Command client is a headless driver for GameLoopClient (spec §6):
// positional `<host> <port>`, exit code 0 on clean shutdown. The core
// exposes no Graphics/Audio implementation (spec §6: "opaque; only used
// after snapshots are interpreted") — this binary wires a no-op
// InputSource/Renderer pair so the replicator/prediction/reconciliation
// stack is exercised end-to-end without a concrete UI collaborator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hexateam/rtype-core/internal/client/entitycache"
	"github.com/hexateam/rtype-core/internal/client/gameloop"
	"github.com/hexateam/rtype-core/internal/client/replicator"
	"github.com/hexateam/rtype-core/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	host, port, err := parseArgs(os.Args[1:])
	if err != nil {
		return err
	}

	cfgPath := "config/client.toml"
	if p := os.Getenv("RTYPE_CLIENT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadClientConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", host, port)
	repl, err := replicator.Connect(ctx, addr, "player", log)
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}

	loop := gameloop.New(repl, *cfg, noopInput{}, loggingRenderer{log: log})
	log.Info("connected", zap.String("addr", addr))

	ticker := time.NewTicker(cfg.Connection.TickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			loop.Close()
			log.Info("client stopped")
			return nil
		case <-repl.Disconnected:
			loop.Close()
			log.Warn("server disconnected")
			return nil
		case <-ticker.C:
			loop.Tick(cfg.Connection.TickRate)
		}
	}
}

// parseArgs implements spec §6's client CLI surface: positional
// `<host> <port>`.
func parseArgs(args []string) (host string, port int, err error) {
	if len(args) < 2 {
		return "", 0, fmt.Errorf("usage: client <host> <port>")
	}
	port, err = strconv.Atoi(args[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q: %w", args[1], err)
	}
	return args[0], port, nil
}

// noopInput reports no movement and no shoot; a concrete UI collaborator
// replaces this with real keyboard/controller sampling.
type noopInput struct{}

func (noopInput) Sample() (dx, dy int8, shoot bool) { return 0, 0, false }

// loggingRenderer stands in for the opaque Graphics/Audio collaborator:
// it logs entity updates instead of drawing them.
type loggingRenderer struct{ log *zap.Logger }

func (r loggingRenderer) UpdateEntity(e *entitycache.Entity) {
	r.log.Debug("entity update",
		zap.Uint64("id", e.ID),
		zap.String("type", e.Type),
		zap.Float64("x", e.X()),
		zap.Float64("y", e.Y()))
}

func (r loggingRenderer) RemoveEntity(id uint64) {
	r.log.Debug("entity removed", zap.Uint64("id", id))
}
