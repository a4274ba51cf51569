// Package server implements the Server façade of spec §4.4/§5: it owns
// RoomManager, NetworkManager-equivalent transport.Host, SessionManager,
// and the AuthProvider/MatchHistoryRepo collaborators, and supervises the
// network thread and the simulation thread via an errgroup.
package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hexateam/rtype-core/internal/auth"
	"github.com/hexateam/rtype-core/internal/config"
	"github.com/hexateam/rtype-core/internal/core/event"
	"github.com/hexateam/rtype-core/internal/corepool"
	"github.com/hexateam/rtype-core/internal/frametimer"
	"github.com/hexateam/rtype-core/internal/gamelogic"
	"github.com/hexateam/rtype-core/internal/persist"
	"github.com/hexateam/rtype-core/internal/room"
	"github.com/hexateam/rtype-core/internal/roommanager"
	"github.com/hexateam/rtype-core/internal/scripting"
	"github.com/hexateam/rtype-core/internal/sessionmgr"
	"github.com/hexateam/rtype-core/internal/spawnstrategy"
	"github.com/hexateam/rtype-core/internal/transport"
)

// Server is the top-level composition root: it owns every long-running
// subsystem and is the only type cmd/server wires up directly.
type Server struct {
	cfg *config.ServerConfig
	log *zap.Logger

	host           *transport.Host
	rooms          *roommanager.Manager
	sessions       *sessionmgr.Manager
	authp          auth.Provider
	history        *persist.MatchHistoryRepo // nil when database.enabled=false
	pool           *corepool.Pool
	waves          *spawnstrategy.WaveTable
	hasWaveScripts bool

	events chan transport.Event
}

// New constructs a Server bound to cfg.Network.BindAddress. It does not
// start any goroutine; call Run for that.
func New(cfg *config.ServerConfig, log *zap.Logger) (*Server, error) {
	host, err := transport.Listen(cfg.Network.BindAddress, log)
	if err != nil {
		return nil, fmt.Errorf("server init: %w", err)
	}

	waves, err := spawnstrategy.LoadWaveTable(cfg.Scripting.WaveTable)
	if err != nil {
		host.Close()
		return nil, fmt.Errorf("server init: %w", err)
	}

	pool := corepool.New(4, cfg.Network.OutQueueSize)
	pool.Start(4)

	s := &Server{
		cfg:            cfg,
		log:            log,
		host:           host,
		sessions:       sessionmgr.New(),
		authp:          auth.NewInMemoryProvider(),
		pool:           pool,
		waves:          waves,
		hasWaveScripts: dirHasLuaFiles(cfg.Scripting.ScriptsDir),
		events:         make(chan transport.Event, cfg.Network.InQueueSize),
	}
	s.rooms = roommanager.New(s.newRoom, cfg.Room.DefaultMaxPlayers, roommanager.FIFOPolicy{})

	if cfg.Database.Enabled {
		db, err := persist.NewDB(context.Background(), cfg.Database, log)
		if err != nil {
			host.Close()
			return nil, fmt.Errorf("server init: %w", err)
		}
		if err := persist.RunMigrations(context.Background(), db.Pool); err != nil {
			host.Close()
			return nil, fmt.Errorf("server init: %w", err)
		}
		s.history = persist.NewMatchHistoryRepo(db)
	}

	return s, nil
}

// newRoom is the roommanager.LogicFactory: it builds a fresh event bus and
// GameLogic for roomID and wraps them in a room.Room. Each room gets its
// own strategy instance: a DefaultStrategy sharing the immutable
// WaveTable (spec §8 property 7: no cross-room randomness to
// desynchronize) unless scripting.scripts_dir holds a Lua wave script,
// in which case each room gets its own scripting.Engine (single-goroutine
// only, so it cannot be shared across rooms) wrapped in a LuaStrategy.
func (s *Server) newRoom(id, name string, maxPlayers int, private bool) *room.Room {
	bus := event.NewBus()
	strategy := s.newStrategy(id)
	logic := gamelogic.New(gamelogic.Config{
		RoomID: id,
		Bounds: gamelogic.Bounds{Width: s.cfg.Room.BoundsWidth, Height: s.cfg.Room.BoundsHeight},
		Strategy: strategy,
	}, bus, s.log)
	logic.SetSnapshotPool(s.pool)
	if name == "" {
		name = id
	}
	return room.New(id, name, maxPlayers, private, logic)
}

// newStrategy picks a room's spawn strategy, falling back to
// DefaultStrategy if no wave script is configured or the script engine
// fails to load.
func (s *Server) newStrategy(roomID string) spawnstrategy.Strategy {
	if !s.hasWaveScripts {
		return spawnstrategy.NewDefaultStrategy(s.waves)
	}
	engine, err := scripting.NewEngine(s.cfg.Scripting.ScriptsDir, s.log)
	if err != nil {
		s.log.Error("lua wave script load failed, falling back to default strategy",
			zap.String("room_id", roomID), zap.Error(err))
		return spawnstrategy.NewDefaultStrategy(s.waves)
	}
	return spawnstrategy.NewLuaStrategy(engine)
}

// dirHasLuaFiles reports whether dir exists and contains at least one
// .lua file directly inside it.
func dirHasLuaFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".lua" {
			return true
		}
	}
	return false
}

// Run drives the server until ctx is cancelled: a network goroutine
// servicing the transport, and a simulation goroutine ticking every room
// and broadcasting snapshots. Either goroutine's fatal error cancels the
// other via the errgroup's derived context; all errors are joined so
// callers see every failure, not just the first (spec §5 cooperative
// shutdown: "the main thread joins all workers on shutdown").
func (s *Server) Run(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error { return s.networkLoop(egctx) })
	eg.Go(func() error { return s.simulationLoop(egctx) })

	err := eg.Wait()
	closeErr := s.host.Close()
	s.pool.Stop()
	return multierr.Append(err, closeErr)
}

// networkLoop is spec §5's network thread: it only runs Service() and
// forwards events into a queue for the game thread.
func (s *Server) networkLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		ev, err := s.host.Service(200 * time.Millisecond)
		if err != nil {
			return fmt.Errorf("network loop: %w", err)
		}
		if ev.Type == transport.EventNone {
			continue
		}
		select {
		case s.events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

// simulationLoop is spec §5's simulation thread: fixed-timestep room
// ticking, draining the network event queue first, then broadcasting
// each in-progress room's snapshot.
func (s *Server) simulationLoop(ctx context.Context) error {
	timer := frametimer.New()
	tick := uint64(0)
	step := s.cfg.Network.TickRate
	var accumulator time.Duration

	ticker := time.NewTicker(step)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.events:
			s.handleTransportEvent(ev)
			continue
		case <-ticker.C:
		}

		// Drain any events queued since the last tick without blocking the
		// fixed-step cadence.
		drained := true
		for drained {
			select {
			case ev := <-s.events:
				s.handleTransportEvent(ev)
			default:
				drained = false
			}
		}

		accumulator += timer.Tick()
		for accumulator >= step {
			accumulator -= step
			tick++
			s.tickRooms(step, tick)
			s.broadcastSnapshots()
			s.sweepFinishedRooms(ctx)
		}

		// Avoid busy-looping when the accumulator is already caught up
		// (spec §5: "Simulation sleeps 1ms after each iteration").
		time.Sleep(time.Millisecond)
	}
}

func (s *Server) tickRooms(dt time.Duration, tick uint64) {
	for _, r := range s.rooms.All() {
		r.Update(dt, tick)
	}
}
