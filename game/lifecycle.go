package game

import (
	"log/slog"

	"github.com/pthm-cable/synapse/systems"
)

// Activate sizes the surface from the host, seeds the node set and starts
// the frame loop. Activating an active game does nothing.
func (g *Game) Activate() {
	if g.active {
		return
	}
	cfg := g.config()

	w, h := g.host.Size()
	g.setSurface(w, h)

	g.nodes = systems.SeedNodes(g.rng, cfg.Nodes.Count, g.bounds, cfg.Nodes.MaxSpeed)
	g.active = true

	g.listenerID = g.host.OnResize(g.resize)
	g.frameID = g.host.RequestFrame(g.step)

	slog.Info("field activated",
		"nodes", g.nodes.Len(),
		"width", g.bounds.Width,
		"height", g.bounds.Height,
		"index", cfg.Graph.Index,
		"seed", g.seed,
	)
}

// Deactivate cancels the pending frame, removes the resize listener and
// discards the node set. Deactivating an inactive game does nothing.
func (g *Game) Deactivate() {
	if !g.active {
		return
	}

	g.host.CancelFrame(g.frameID)
	g.host.RemoveResizeListener(g.listenerID)
	g.frameID, g.listenerID = 0, 0

	g.nodes = nil
	g.edges = g.edges[:0]
	g.active = false

	slog.Info("field deactivated", "frames", g.frame)
}

// resize updates the surface between frames. Nodes keep their positions;
// any left outside drift back through reflection.
func (g *Game) resize(w, h int) {
	if !g.active {
		return
	}
	g.setSurface(w, h)
	slog.Debug("surface resized", "width", g.bounds.Width, "height", g.bounds.Height)
}

// setSurface clamps a host size and applies it to the bounds and canvas.
func (g *Game) setSurface(w, h int) {
	w, h = max(w, 0), max(h, 0)
	g.bounds = systems.Bounds{Width: float64(w), Height: float64(h)}
	g.canvas.Resize(w, h)
}
