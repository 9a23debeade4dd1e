package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// TextureCanvas is a Canvas backed by a raylib render texture. The texture
// persists between frames so the trail fill accumulates on the GPU.
// All methods must be called on the thread that owns the window.
type TextureCanvas struct {
	target        rl.RenderTexture2D
	width, height int
	background    rl.Color
	loaded        bool
}

// NewTextureCanvas creates a render target of the given size, cleared to
// background.
func NewTextureCanvas(width, height int, background color.NRGBA) *TextureCanvas {
	c := &TextureCanvas{background: rlColor(withAlpha(background, 1))}
	c.Resize(width, height)
	return c
}

// Size implements Canvas.
func (c *TextureCanvas) Size() (int, int) {
	return c.width, c.height
}

// Resize implements Canvas. The texture is recreated and cleared.
func (c *TextureCanvas) Resize(width, height int) {
	c.Unload()
	c.width, c.height = max(width, 0), max(height, 0)
	if c.width == 0 || c.height == 0 {
		return
	}

	c.target = rl.LoadRenderTexture(int32(c.width), int32(c.height))
	c.loaded = true

	// Opaque start keeps the alpha channel stable under repeated blending
	rl.BeginTextureMode(c.target)
	rl.ClearBackground(c.background)
	rl.EndTextureMode()
}

// Begin implements Canvas.
func (c *TextureCanvas) Begin() {
	if c.loaded {
		rl.BeginTextureMode(c.target)
	}
}

// End implements Canvas.
func (c *TextureCanvas) End() {
	if c.loaded {
		rl.EndTextureMode()
	}
}

// Fill implements Canvas.
func (c *TextureCanvas) Fill(col color.NRGBA) {
	if !c.loaded {
		return
	}
	rl.DrawRectangle(0, 0, int32(c.width), int32(c.height), rlColor(col))
}

// FillCircle implements Canvas.
func (c *TextureCanvas) FillCircle(center r2.Vec, radius float64, col color.NRGBA) {
	if !c.loaded {
		return
	}
	rl.DrawCircleV(rlVec(center), float32(radius), rlColor(col))
}

// StrokeLine implements Canvas.
func (c *TextureCanvas) StrokeLine(a, b r2.Vec, width float64, col color.NRGBA) {
	if !c.loaded {
		return
	}
	rl.DrawLineEx(rlVec(a), rlVec(b), float32(width), rlColor(col))
}

// Blit draws the texture to the current framebuffer at the given opacity.
func (c *TextureCanvas) Blit(opacity float64) {
	if !c.loaded {
		return
	}
	srcRect := rl.Rectangle{
		X:      0,
		Y:      float32(c.height),
		Width:  float32(c.width),
		Height: -float32(c.height), // Negative to flip
	}
	dstRect := rl.Rectangle{
		Width:  float32(c.width),
		Height: float32(c.height),
	}
	tint := rl.Color{R: 255, G: 255, B: 255, A: alpha8(opacity)}
	rl.DrawTexturePro(c.target.Texture, srcRect, dstRect, rl.Vector2{}, 0, tint)
}

// Unload releases the render texture.
func (c *TextureCanvas) Unload() {
	if c.loaded {
		rl.UnloadRenderTexture(c.target)
		c.loaded = false
	}
}

func rlColor(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func rlVec(v r2.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}
