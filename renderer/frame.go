package renderer

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/synapse/config"
	"github.com/pthm-cable/synapse/systems"
)

// Style holds the fixed drawing parameters of the field.
type Style struct {
	Background color.NRGBA
	Accent     color.NRGBA
	TrailAlpha float64 // Alpha of the per-frame background fill
	NodeRadius float64
	EdgeAlpha  float64 // Edge opacity before distance falloff
	EdgeWidth  float64
}

// StyleFromConfig builds a Style from the render section of cfg.
func StyleFromConfig(cfg *config.Config) Style {
	return Style{
		Background: cfg.Derived.Background,
		Accent:     cfg.Derived.Accent,
		TrailAlpha: cfg.Render.TrailAlpha,
		NodeRadius: cfg.Render.NodeRadius,
		EdgeAlpha:  cfg.Render.EdgeAlpha,
		EdgeWidth:  cfg.Render.EdgeWidth,
	}
}

// FrameRenderer paints nodes and edges with a trail effect.
type FrameRenderer struct {
	style Style
	fade  color.NRGBA
	node  color.NRGBA
}

// NewFrameRenderer creates a renderer for the given style.
func NewFrameRenderer(style Style) *FrameRenderer {
	return &FrameRenderer{
		style: style,
		fade:  withAlpha(style.Background, style.TrailAlpha),
		node:  withAlpha(style.Accent, 1),
	}
}

// Style returns the renderer's style.
func (r *FrameRenderer) Style() Style {
	return r.style
}

// Draw paints one frame.
//
// The surface is never cleared: a translucent background fill goes down
// first so earlier frames fade out instead of vanishing, then nodes, then
// edges on top. Reordering the fill breaks the trail.
func (r *FrameRenderer) Draw(c Canvas, nodes []r2.Vec, edges []systems.Edge) {
	c.Begin()
	defer c.End()

	c.Fill(r.fade)

	for _, p := range nodes {
		c.FillCircle(p, r.style.NodeRadius, r.node)
	}

	for _, e := range edges {
		col := withAlpha(r.style.Accent, e.Weight*r.style.EdgeAlpha)
		c.StrokeLine(nodes[e.I], nodes[e.J], r.style.EdgeWidth, col)
	}
}
