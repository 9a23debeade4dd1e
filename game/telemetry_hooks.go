package game

import (
	"log/slog"
	"slices"

	"github.com/pthm-cable/synapse/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.frame) {
		return
	}

	w, h := g.canvas.Size()
	stats := g.collector.Flush(g.frame, g.nodes.Len(), g.edges, w, h)
	perfStats := g.perf.Stats()
	g.windows = append(g.windows, stats)

	if g.opts.OnStats != nil {
		g.opts.OnStats(stats)
	}

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.opts.Output != nil {
		if err := g.opts.Output.WriteGraph(stats); err != nil {
			slog.Error("failed to write graph stats", "error", err)
		}
		if err := g.opts.Output.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	if g.opts.SnapshotDir != "" && g.opts.SnapshotEvery == 0 {
		g.saveSnapshot()
	}
}

// saveSnapshot writes the current field state and surface image.
func (g *Game) saveSnapshot() {
	if g.opts.SnapshotDir == "" {
		return
	}

	path, err := telemetry.SaveSnapshot(g.createSnapshot(), g.surfaceImage(), g.opts.SnapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "frame", g.frame)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot() *telemetry.Snapshot {
	w, h := g.canvas.Size()
	return &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		Seed:        g.seed,
		Frame:       g.frame,
		Width:       w,
		Height:      h,
		MaxDistance: g.config().Graph.MaxDistance,
		Nodes:       telemetry.CaptureNodes(g.nodes),
		Edges:       slices.Clone(g.edges),
	}
}
