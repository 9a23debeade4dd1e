package host

import (
	"context"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/synapse/config"
)

// Window is a host backed by a raylib window. Frames run inside the
// window's draw pass, so the raylib calls they make are valid.
type Window struct {
	*Scheduler

	background rl.Color
	layers     []func()
}

// NewWindow opens a window configured by screen. The caller must call Close.
func NewWindow(screen config.ScreenConfig, background rl.Color) *Window {
	if screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(screen.Width), int32(screen.Height), screen.Title)
	rl.SetTargetFPS(int32(screen.TargetFPS))

	return &Window{
		Scheduler:  NewScheduler(rl.GetScreenWidth(), rl.GetScreenHeight()),
		background: background,
	}
}

// AddLayer registers fn to draw to the window after each frame, in
// registration order.
func (w *Window) AddLayer(fn func()) {
	w.layers = append(w.layers, fn)
}

// Run drives frames until the window is closed or ctx is cancelled.
// It must be called on the thread that opened the window.
func (w *Window) Run(ctx context.Context) error {
	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}

		if rl.IsWindowResized() {
			w.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
		}

		rl.BeginDrawing()
		rl.ClearBackground(w.background)
		w.Tick(time.Now())
		for _, layer := range w.layers {
			layer()
		}
		rl.EndDrawing()
	}
	return nil
}

// Close closes the window.
func (w *Window) Close() {
	rl.CloseWindow()
}
