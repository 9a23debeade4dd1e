package renderer

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// upperHalf renders two vertically stacked pixels in one cell: foreground
// on top, background below.
const upperHalf = '▀'

// CellSetter is the part of a tcell screen the terminal blit writes to.
type CellSetter interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
}

// TerminalBlitter copies a raster image into terminal cells, two pixel
// rows per cell row.
type TerminalBlitter struct {
	background colorful.Color
	opacity    float64
}

// NewTerminalBlitter creates a blitter that composites the image over
// background at the given opacity.
func NewTerminalBlitter(background color.NRGBA, opacity float64) *TerminalBlitter {
	bg, _ := colorful.MakeColor(withAlpha(background, 1))
	return &TerminalBlitter{background: bg, opacity: min(max(opacity, 0), 1)}
}

// Blit writes img to screen starting at cell (0, 0).
func (t *TerminalBlitter) Blit(screen CellSetter, img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := t.pixel(img, x, y)
			bottom := t.background
			if y+1 < b.Max.Y {
				bottom = t.pixel(img, x, y+1)
			}
			style := tcell.StyleDefault.Foreground(cellColor(top)).Background(cellColor(bottom))
			screen.SetContent(x-b.Min.X, (y-b.Min.Y)/2, upperHalf, nil, style)
		}
	}
}

// pixel resolves one pixel against the background and page opacity.
func (t *TerminalBlitter) pixel(img *image.RGBA, x, y int) colorful.Color {
	p := img.RGBAAt(x, y)
	a := float64(p.A) / 255
	// Premultiplied source over opaque background
	over := colorful.Color{
		R: float64(p.R)/255 + t.background.R*(1-a),
		G: float64(p.G)/255 + t.background.G*(1-a),
		B: float64(p.B)/255 + t.background.B*(1-a),
	}
	return t.background.BlendRgb(over, t.opacity).Clamped()
}

func cellColor(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
