// Field tuner - runs the proximity field in a window with sliders for the
// node, graph and render parameters.
//
// Usage: go run ./cmd/tuner [-config file] [-out tuned.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/synapse/config"
	"github.com/pthm-cable/synapse/game"
	"github.com/pthm-cable/synapse/host"
	"github.com/pthm-cable/synapse/renderer"
)

const (
	panelWidth  = 300
	panelMargin = 10
	sliderWidth = panelWidth - 90
)

// slider binds one raygui slider to a config field.
type slider struct {
	label    string
	min, max float32
	format   string
	get      func(c *config.Config) float32
	set      func(c *config.Config, v float32)
}

func sliders() []slider {
	return []slider{
		{
			label: "Node count", min: 0, max: 400, format: "%.0f",
			get: func(c *config.Config) float32 { return float32(c.Nodes.Count) },
			set: func(c *config.Config, v float32) { c.Nodes.Count = int(v) },
		},
		{
			label: "Max speed (px/frame)", min: 0, max: 3, format: "%.2f",
			get: func(c *config.Config) float32 { return float32(c.Nodes.MaxSpeed) },
			set: func(c *config.Config, v float32) { c.Nodes.MaxSpeed = float64(v) },
		},
		{
			label: "Max distance (px)", min: 10, max: 600, format: "%.0f",
			get: func(c *config.Config) float32 { return float32(c.Graph.MaxDistance) },
			set: func(c *config.Config, v float32) { c.Graph.MaxDistance = float64(v) },
		},
		{
			label: "Trail alpha", min: 0, max: 1, format: "%.3f",
			get: func(c *config.Config) float32 { return float32(c.Render.TrailAlpha) },
			set: func(c *config.Config, v float32) { c.Render.TrailAlpha = float64(v) },
		},
		{
			label: "Edge alpha", min: 0, max: 1, format: "%.2f",
			get: func(c *config.Config) float32 { return float32(c.Render.EdgeAlpha) },
			set: func(c *config.Config, v float32) { c.Render.EdgeAlpha = float64(v) },
		},
		{
			label: "Node radius", min: 0, max: 10, format: "%.1f",
			get: func(c *config.Config) float32 { return float32(c.Render.NodeRadius) },
			set: func(c *config.Config, v float32) { c.Render.NodeRadius = float64(v) },
		},
	}
}

// tuner owns the running field and the edited config.
type tuner struct {
	win    *host.Window
	canvas *renderer.TextureCanvas
	game   *game.Game

	running *config.Config // config of the active field
	edited  *config.Config // slider state, applied on restart
	dirty   bool
	outPath string
	status  string
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "tuned_config.yaml", "Where Save writes the edited config")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	cfg.Screen.Resizable = true

	bg := cfg.Derived.Background
	win := host.NewWindow(cfg.Screen, rl.Color{R: bg.R, G: bg.G, B: bg.B, A: 255})
	defer win.Close()

	canvas := renderer.NewTextureCanvas(0, 0, bg)
	defer canvas.Unload()

	edited := *cfg
	t := &tuner{
		win:     win,
		canvas:  canvas,
		running: cfg,
		edited:  &edited,
		outPath: *outPath,
	}
	t.start()
	defer func() { t.game.Deactivate() }()

	win.AddLayer(func() { canvas.Blit(t.running.Render.Opacity) })
	win.AddLayer(t.drawPanel)

	if err := win.Run(context.Background()); err != nil {
		slog.Error("window", "error", err)
	}
}

// start builds and activates a field for the running config.
func (t *tuner) start() {
	t.game = game.New(t.running, t.win, t.canvas, game.Options{})
	t.game.Activate()
}

// restart tears down the field and starts one from the edited config.
func (t *tuner) restart() {
	next := *t.edited
	if err := next.Finalize(); err != nil {
		t.status = err.Error()
		return
	}

	t.game.Deactivate()
	t.running = &next
	t.start()
	t.dirty = false
	t.status = fmt.Sprintf("restarted, seed %d", t.game.Seed())
}

func (t *tuner) save() {
	if err := t.edited.WriteYAML(t.outPath); err != nil {
		t.status = err.Error()
		return
	}
	t.status = "saved " + t.outPath
}

func (t *tuner) drawPanel() {
	x := float32(panelMargin)
	y := float32(panelMargin)

	rl.DrawRectangle(0, 0, panelWidth+2*panelMargin, int32(rl.GetScreenHeight()), rl.Fade(rl.Black, 0.7))
	rl.DrawText("Proximity Field", int32(x), int32(y), 20, rl.RayWhite)
	y += 30

	rl.DrawText(fmt.Sprintf("FPS: %d  Frame: %d  Edges: %d", rl.GetFPS(), t.game.Frame(), len(t.game.Edges())),
		int32(x), int32(y), 14, rl.LightGray)
	y += 28

	for _, s := range sliders() {
		rl.DrawText(s.label, int32(x), int32(y), 14, rl.Gray)
		y += 18

		cur := s.get(t.edited)
		next := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: sliderWidth, Height: 20},
			"", "",
			cur, s.min, s.max,
		)
		rl.DrawText(fmt.Sprintf(s.format, next), int32(x+sliderWidth+10), int32(y+2), 16, rl.RayWhite)
		if next != cur {
			s.set(t.edited, next)
			t.dirty = true
		}
		y += 35
	}

	y += 10
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 30}, toggleText(t.dirty, "Restart *", "Restart")) {
		t.restart()
	}
	if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 120, Height: 30}, "Save YAML") {
		t.save()
	}
	y += 45

	if rl.IsKeyPressed(rl.KeyR) {
		t.restart()
	}

	rl.DrawText(t.status, int32(x), int32(y), 12, rl.LightGray)
	rl.DrawText("R restarts, Esc quits", int32(x), int32(rl.GetScreenHeight()-30), 12, rl.Gray)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
