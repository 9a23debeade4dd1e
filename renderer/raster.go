package renderer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"
)

// kappa places cubic control points for a quarter-circle approximation.
const kappa = 0.5522847498

// RasterCanvas is an in-memory Canvas backed by an RGBA image. Shapes are
// antialiased by a vector rasterizer sized to each shape's bounding box, so
// drawing cost scales with the shape rather than the surface.
type RasterCanvas struct {
	img *image.RGBA
	ras *vector.Rasterizer
	src image.Uniform
	box image.Rectangle // pixel box of the shape being drawn
}

// NewRasterCanvas creates a canvas of the given size. Negative sizes are
// treated as zero.
func NewRasterCanvas(width, height int) *RasterCanvas {
	c := &RasterCanvas{}
	c.Resize(width, height)
	return c
}

// Size implements Canvas.
func (c *RasterCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize implements Canvas.
func (c *RasterCanvas) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	if c.ras == nil {
		c.ras = vector.NewRasterizer(width, height)
	} else {
		c.ras.Reset(width, height)
	}
}

// Image returns the backing image. It is replaced on Resize.
func (c *RasterCanvas) Image() *image.RGBA {
	return c.img
}

// Begin implements Canvas.
func (c *RasterCanvas) Begin() {}

// End implements Canvas.
func (c *RasterCanvas) End() {}

func (c *RasterCanvas) empty() bool {
	b := c.img.Bounds()
	return b.Dx() == 0 || b.Dy() == 0
}

// Fill implements Canvas.
func (c *RasterCanvas) Fill(col color.NRGBA) {
	if c.empty() || col.A == 0 {
		return
	}
	c.src.C = col
	draw.Draw(c.img, c.img.Bounds(), &c.src, image.Point{}, draw.Over)
}

// FillCircle implements Canvas.
func (c *RasterCanvas) FillCircle(center r2.Vec, radius float64, col color.NRGBA) {
	if c.empty() || radius <= 0 || col.A == 0 {
		return
	}
	z, ok := c.begin(center.X-radius, center.Y-radius, center.X+radius, center.Y+radius)
	if !ok {
		return
	}

	x, y := c.local(center)
	r := float32(radius)
	k := float32(kappa) * r

	z.MoveTo(x+r, y)
	z.CubeTo(x+r, y+k, x+k, y+r, x, y+r)
	z.CubeTo(x-k, y+r, x-r, y+k, x-r, y)
	z.CubeTo(x-r, y-k, x-k, y-r, x, y-r)
	z.CubeTo(x+k, y-r, x+r, y-k, x+r, y)
	z.ClosePath()
	c.paint(col)
}

// StrokeLine implements Canvas.
func (c *RasterCanvas) StrokeLine(a, b r2.Vec, width float64, col color.NRGBA) {
	if c.empty() || width <= 0 || col.A == 0 {
		return
	}

	d := r2.Sub(b, a)
	length := r2.Norm(d)
	if length == 0 {
		return
	}
	// Half-width normal
	n := r2.Scale(width/(2*length), r2.Vec{X: -d.Y, Y: d.X})
	corners := [4]r2.Vec{r2.Add(a, n), r2.Add(b, n), r2.Sub(b, n), r2.Sub(a, n)}

	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, p := range corners[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	z, ok := c.begin(minX, minY, maxX, maxY)
	if !ok {
		return
	}

	z.MoveTo(c.local(corners[0]))
	for _, p := range corners[1:] {
		z.LineTo(c.local(p))
	}
	z.ClosePath()
	c.paint(col)
}

// begin resets the rasterizer to the pixel box covering the given extent,
// clipped to the image. It reports false when nothing would be visible.
func (c *RasterCanvas) begin(minX, minY, maxX, maxY float64) (*vector.Rasterizer, bool) {
	w, h := float64(c.img.Rect.Dx()), float64(c.img.Rect.Dy())
	box := image.Rect(
		int(math.Floor(clampf(minX, w))), int(math.Floor(clampf(minY, h))),
		int(math.Ceil(clampf(maxX, w))), int(math.Ceil(clampf(maxY, h))),
	).Intersect(c.img.Bounds())
	if box.Empty() {
		return nil, false
	}

	c.box = box
	c.ras.Reset(box.Dx(), box.Dy())
	c.ras.DrawOp = draw.Over
	return c.ras, true
}

// clampf limits v to [-1, n+1] so far-off shapes convert to int safely.
func clampf(v, n float64) float64 {
	return min(max(v, -1), n+1)
}

// local converts a surface point to rasterizer coordinates for the current box.
func (c *RasterCanvas) local(p r2.Vec) (float32, float32) {
	return float32(p.X - float64(c.box.Min.X)), float32(p.Y - float64(c.box.Min.Y))
}

func (c *RasterCanvas) paint(col color.NRGBA) {
	c.src.C = col
	c.ras.Draw(c.img, c.box, &c.src, c.box.Min)
}
