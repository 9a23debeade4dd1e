// Package game runs a proximity field inside a host: it owns the node set,
// the per-frame pipeline and the activation lifecycle.
package game

import (
	"image"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/synapse/config"
	"github.com/pthm-cable/synapse/host"
	"github.com/pthm-cable/synapse/renderer"
	"github.com/pthm-cable/synapse/systems"
	"github.com/pthm-cable/synapse/telemetry"
)

// Options configures a Game beyond the loaded config.
type Options struct {
	Seed     int64 // RNG seed (0 = time-based)
	LogStats bool  // Log graph and perf windows via slog

	Output        *telemetry.OutputManager // CSV output, nil to disable
	SnapshotDir   string                   // Snapshot directory, empty to disable
	SnapshotEvery int                      // Frames between snapshots (0 = only on window flush)

	// OnStats receives every flushed stats window.
	OnStats func(telemetry.GraphStats)
	// AfterFrame runs at the end of every frame, before the next one is
	// requested. It may call Deactivate.
	AfterFrame func(frame int)
}

// Game is the lifecycle controller of a field.
type Game struct {
	cfg    *config.Config
	host   host.Host
	canvas renderer.Canvas
	opts   Options

	renderer *renderer.FrameRenderer
	builder  systems.EdgeBuilder
	rng      *rand.Rand
	seed     int64

	// Lifecycle state
	active     bool
	frameID    host.FrameID
	listenerID host.ListenerID

	// Surface and field state, valid while active
	nodes  *systems.NodeSet
	bounds systems.Bounds

	// Per-frame scratch
	positions []r2.Vec
	edges     []systems.Edge
	frame     int

	// Telemetry
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	windows   []telemetry.GraphStats
}

// New creates an inactive game that will run in h and draw to canvas.
func New(cfg *config.Config, h host.Host, canvas renderer.Canvas, opts Options) *Game {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Game{
		cfg:       cfg,
		host:      h,
		canvas:    canvas,
		opts:      opts,
		renderer:  renderer.NewFrameRenderer(renderer.StyleFromConfig(cfg)),
		builder:   newBuilder(cfg.Graph.Index),
		rng:       rand.New(rand.NewSource(seed)),
		seed:      seed,
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
	}
}

// newBuilder selects the edge builder for a graph.index value.
func newBuilder(index string) systems.EdgeBuilder {
	if index == config.IndexGrid {
		return systems.NewGridBuilder()
	}
	return systems.ScanBuilder{}
}

// config returns the game's configuration.
func (g *Game) config() *config.Config {
	return g.cfg
}

// Active reports whether the game is running.
func (g *Game) Active() bool { return g.active }

// Seed returns the resolved RNG seed.
func (g *Game) Seed() int64 { return g.seed }

// Frame returns the number of frames run since New.
func (g *Game) Frame() int { return g.frame }

// Nodes returns the current node set, or nil while inactive.
func (g *Game) Nodes() *systems.NodeSet { return g.nodes }

// Bounds returns the current surface bounds.
func (g *Game) Bounds() systems.Bounds { return g.bounds }

// Edges returns the edges computed for the last frame. The slice is reused
// by the next frame.
func (g *Game) Edges() []systems.Edge { return g.edges }

// Windows returns every stats window flushed so far.
func (g *Game) Windows() []telemetry.GraphStats { return g.windows }

// PerfStats returns frame timing over the rolling window.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perf.Stats() }

// step runs one frame and schedules the next.
func (g *Game) step(time.Time) {
	if !g.active {
		return
	}
	// This request has been consumed
	g.frameID = 0

	g.perf.StartFrame()

	g.perf.StartPhase(telemetry.PhaseAdvance)
	systems.Advance(g.nodes, g.bounds)

	g.perf.StartPhase(telemetry.PhaseEdges)
	g.positions = g.nodes.Positions(g.positions)
	g.edges = g.builder.Build(g.edges, g.positions, g.config().Graph.MaxDistance)

	g.perf.StartPhase(telemetry.PhaseDraw)
	g.renderer.Draw(g.canvas, g.positions, g.edges)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.frame++
	g.collector.RecordFrame(g.edges)
	g.flushTelemetry()
	if g.opts.SnapshotEvery > 0 && g.frame%g.opts.SnapshotEvery == 0 {
		g.saveSnapshot()
	}

	g.perf.EndFrame()

	if g.opts.AfterFrame != nil {
		g.opts.AfterFrame(g.frame)
	}
	if g.active {
		g.frameID = g.host.RequestFrame(g.step)
	}
}

// surfaceImage returns the canvas pixels when the canvas keeps them in memory.
func (g *Game) surfaceImage() image.Image {
	if c, ok := g.canvas.(interface{ Image() *image.RGBA }); ok {
		return c.Image()
	}
	return nil
}
