// Package renderer draws the node field onto a pixel surface.
package renderer

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Canvas is a persistent pixel surface. Drawing composites over what is
// already there; nothing clears it except Resize.
type Canvas interface {
	// Size returns the surface size in pixels.
	Size() (width, height int)
	// Resize reallocates the surface. Previous contents are discarded.
	Resize(width, height int)

	// Begin and End bracket the drawing of one frame.
	Begin()
	End()

	// Fill composites c over the whole surface.
	Fill(c color.NRGBA)
	// FillCircle composites a filled disk.
	FillCircle(center r2.Vec, radius float64, c color.NRGBA)
	// StrokeLine composites a straight segment of the given width.
	StrokeLine(a, b r2.Vec, width float64, c color.NRGBA)
}

// withAlpha returns c with its alpha replaced by a in [0, 1].
func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = alpha8(a)
	return c
}

// alpha8 converts a unit alpha to 8 bits, rounding to nearest.
func alpha8(a float64) uint8 {
	switch {
	case a <= 0:
		return 0
	case a >= 1:
		return 255
	}
	return uint8(a*255 + 0.5)
}
