// Package gameloop implements GameLoopClient (spec §2): fixed-tick input
// emission plus variable-tick visual interpolation, draining the
// Replicator's inbox once per frame and surfacing a narrow API to a
// rendering collaborator. Grounded on
// original_source/client/Core/GameLoop/GameLoop.{hpp,cpp}'s
// accumulator-driven run()/update()/fixedUpdate() split, adapted from a
// blocking raylib render loop into an explicit Tick(dt) the host
// application drives.
package gameloop

import (
	"time"

	"github.com/hexateam/rtype-core/internal/client/entitycache"
	"github.com/hexateam/rtype-core/internal/client/gamerules"
	"github.com/hexateam/rtype-core/internal/client/inputhistory"
	"github.com/hexateam/rtype-core/internal/client/prediction"
	"github.com/hexateam/rtype-core/internal/client/replicator"
	"github.com/hexateam/rtype-core/internal/config"
	"github.com/hexateam/rtype-core/internal/protocol"
)

// InputSource is the narrow collaborator GameLoopClient pulls the local
// player's desired movement/shoot state from once per fixed tick; the
// rendering/input layer (not built here — spec Non-goals exclude a
// concrete UI) implements this.
type InputSource interface {
	// Sample returns the current directional input in {-1,0,1}^2 and
	// whether the shoot action is held.
	Sample() (dx, dy int8, shoot bool)
}

// Renderer is the narrow collaborator GameLoopClient hands interpolated
// entity state to once per frame.
type Renderer interface {
	UpdateEntity(e *entitycache.Entity)
	RemoveEntity(id uint64)
}

// GameLoopClient owns every client-side subsystem named in spec §2
// (Replicator, InputHistory, PredictionEngine, EntityCache) and drives
// them through a fixed-timestep input/network step plus a variable-step
// visual step, mirroring the original's run() loop structure without
// owning a window or render backend itself.
type GameLoopClient struct {
	repl   *replicator.Replicator
	rules  *gamerules.Rules
	hist   *inputhistory.History
	pred   *prediction.Engine
	cache  *entitycache.Cache
	input  InputSource
	render Renderer

	tickDt      time.Duration
	accumulator time.Duration

	myEntityID     uint64
	entityAssigned bool
	gameOver       bool
}

// New wires a GameLoopClient around an already-connected Replicator. cfg
// supplies the prediction thresholds and fixed tick rate. The local
// avatar's predicted position starts at the origin.
func New(repl *replicator.Replicator, cfg config.ClientConfig, input InputSource, render Renderer) *GameLoopClient {
	rules := gamerules.New()
	return &GameLoopClient{
		repl:   repl,
		rules:  rules,
		hist:   inputhistory.New(cfg.Prediction.InputHistorySize),
		pred:   prediction.New(cfg.Prediction, rules.PlayerSpeed(), prediction.Position{}),
		cache:  entitycache.New(),
		input:  input,
		render: render,
		tickDt: cfg.Connection.TickRate,
	}
}

// Tick advances the client by frameDt of real time: drains the
// Replicator's inbox, runs zero or more fixed prediction/input-emission
// steps, then advances the variable-rate interpolation (spec §5: "Main
// thread: drives GameLoopClient, draining the inbox once per frame; all
// ECS-analogue mutation and prediction happens here").
func (g *GameLoopClient) Tick(frameDt time.Duration) {
	g.drainInbox()

	g.accumulator += frameDt
	for g.accumulator >= g.tickDt {
		g.fixedStep()
		g.accumulator -= g.tickDt
	}

	g.pred.Advance(frameDt)
	g.cache.Advance(frameDt)
	g.publishRenderState()
}

// fixedStep is one deterministic simulation tick: sample input, stamp it
// into history, predict locally, and send the redundant input packet
// (spec §4.5 steps 1-3).
func (g *GameLoopClient) fixedStep() {
	if g.input == nil {
		return
	}
	dx, dy, shoot := g.input.Sample()
	snap := g.hist.Push(dx, dy, shoot)
	g.pred.Predict(snap, g.tickDt)

	msg := protocol.PlayerInputMsg{Snapshots: g.hist.Recent(g.hist.Len())}
	_ = g.repl.Send(protocol.C2SPlayerInput, msg.Encode())
}

// drainInbox pulls every currently-queued Inbound message without
// blocking and routes it by type.
func (g *GameLoopClient) drainInbox() {
	for {
		select {
		case in := <-g.repl.Inbox:
			g.handle(in)
		default:
			return
		}
	}
}

func (g *GameLoopClient) handle(in replicator.Inbound) {
	switch msg := in.Message.(type) {
	case protocol.GameStartMsg:
		g.myEntityID = msg.YourEntityID
		g.entityAssigned = true
		for _, e := range msg.Entities {
			if e.EntityID == g.myEntityID {
				g.pred.Position = prediction.Position{X: e.X, Y: e.Y}
			}
		}
		g.cache.Apply(msg.Entities, g.isLocalEntity)
	case protocol.GameStateMsg:
		g.gameOver = msg.IsGameOver
		for _, e := range msg.Entities {
			if g.isLocalEntity(e.EntityID) {
				g.reconcileFromSnapshot(e)
			}
		}
		g.cache.Apply(msg.Entities, g.isLocalEntity)
	case protocol.GameruleUpdateMsg:
		g.rules.Apply(msg.Entries)
		g.pred.SetSpeed(g.rules.PlayerSpeed())
	}
}

func (g *GameLoopClient) isLocalEntity(id uint64) bool {
	return g.entityAssigned && id == g.myEntityID
}

// reconcileFromSnapshot implements spec §4.5's reconciliation for the
// local avatar: drop acknowledged history, then re-simulate the rest from
// the server-reported position.
func (g *GameLoopClient) reconcileFromSnapshot(e protocol.EntityState) {
	g.hist.DropThroughSeq(e.LastProcessedInputSeq)
	remaining := g.hist.Remaining()
	g.pred.Reconcile(prediction.Position{X: e.X, Y: e.Y}, remaining, g.repl.RTT(), g.tickDt)
}

// publishRenderState hands the current interpolated state of every known
// entity, plus the locally-predicted avatar, to the rendering
// collaborator.
func (g *GameLoopClient) publishRenderState() {
	if g.render == nil {
		return
	}
	for _, e := range g.cache.All() {
		g.render.UpdateEntity(e)
	}
	if g.entityAssigned {
		g.render.UpdateEntity(&entitycache.Entity{
			ID:      g.myEntityID,
			PrevX:   g.pred.Position.X,
			PrevY:   g.pred.Position.Y,
			TargetX: g.pred.Position.X,
			TargetY: g.pred.Position.Y,
		})
	}
}

// GameOver reports whether the most recent snapshot flagged the match as
// finished.
func (g *GameLoopClient) GameOver() bool { return g.gameOver }

// Close disconnects the underlying Replicator.
func (g *GameLoopClient) Close() error { return g.repl.Close() }
