package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/synapse/config"
	"github.com/pthm-cable/synapse/game"
	"github.com/pthm-cable/synapse/host"
	"github.com/pthm-cable/synapse/renderer"
	"github.com/pthm-cable/synapse/telemetry"
)

// Host modes
const (
	modeWindow   = "window"
	modeHeadless = "headless"
	modeTerminal = "terminal"
)

type runOptions struct {
	plot bool
	fps  int
}

func main() {
	if err := run(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mode := flag.String("mode", modeWindow, "Host: window, headless or terminal")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	snapshotEvery := flag.Int("snapshot-every", 0, "Frames between snapshots (0 = once per stats window)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	plot := flag.Bool("plot", false, "Print an edge count chart after a headless run")
	fps := flag.Int("fps", 0, "Headless frame rate (0 = use config)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	logFile, err := setupLogging(*mode, *outputDir)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	opts := game.Options{
		Seed:          rngSeed,
		LogStats:      *logStats,
		Output:        output,
		SnapshotDir:   *snapshotDir,
		SnapshotEvery: *snapshotEvery,
	}
	if *maxFrames > 0 {
		opts.AfterFrame = func(frame int) {
			if frame >= *maxFrames {
				slog.Info("max frames reached", "frame", frame)
				stop()
			}
		}
	}

	ro := runOptions{plot: *plot, fps: *fps}

	switch *mode {
	case modeHeadless:
		return runHeadless(ctx, cfg, opts, ro)
	case modeWindow:
		return runWindow(ctx, cfg, opts)
	case modeTerminal:
		return runTerminal(ctx, cfg, opts)
	}
	return fmt.Errorf("unknown mode %q", *mode)
}

// setupLogging installs a JSON slog handler. The terminal host owns stdout,
// so its logs go to the output directory or nowhere.
func setupLogging(mode, outputDir string) (*os.File, error) {
	var w io.Writer = os.Stdout
	var f *os.File

	if mode == modeTerminal {
		w = io.Discard
		if outputDir != "" {
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return nil, fmt.Errorf("creating output directory: %w", err)
			}
			var err error
			f, err = os.Create(filepath.Join(outputDir, "run.log"))
			if err != nil {
				return nil, fmt.Errorf("creating run.log: %w", err)
			}
			w = f
		}
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(w, nil)))
	return f, nil
}

func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options, ro runOptions) error {
	fps := cfg.Screen.TargetFPS
	if ro.fps > 0 {
		fps = ro.fps
	}

	ticker := host.NewTicker(cfg.Screen.Width, cfg.Screen.Height, fps)
	g := game.New(cfg, ticker, renderer.NewRasterCanvas(0, 0), opts)

	slog.Info("starting headless run",
		"seed", g.Seed(),
		"fps", fps,
		"nodes", cfg.Nodes.Count,
		"index", cfg.Graph.Index,
	)

	g.Activate()
	defer g.Deactivate()

	if err := ticker.Run(ctx); err != nil {
		return err
	}

	if ro.plot {
		if chart := telemetry.Plot(g.Windows(), "mean edges per frame, by stats window"); chart != "" {
			fmt.Println(chart)
		}
	}
	return nil
}

func runWindow(ctx context.Context, cfg *config.Config, opts game.Options) error {
	bg := cfg.Derived.Background
	win := host.NewWindow(cfg.Screen, rl.Color{R: bg.R, G: bg.G, B: bg.B, A: 255})
	defer win.Close()

	canvas := renderer.NewTextureCanvas(0, 0, bg)
	defer canvas.Unload()

	g := game.New(cfg, win, canvas, opts)
	win.AddLayer(func() { canvas.Blit(cfg.Render.Opacity) })

	g.Activate()
	defer g.Deactivate()

	return win.Run(ctx)
}

func runTerminal(ctx context.Context, cfg *config.Config, opts game.Options) error {
	term, err := host.NewTerminal(cfg.Terminal.TargetFPS)
	if err != nil {
		return err
	}
	defer term.Close()

	tcfg := cfg.ForTerminal()
	canvas := renderer.NewRasterCanvas(0, 0)
	blitter := renderer.NewTerminalBlitter(tcfg.Derived.Background, tcfg.Render.Opacity)
	term.AddLayer(func(s tcell.Screen) { blitter.Blit(s, canvas.Image()) })

	g := game.New(tcfg, term, canvas, opts)
	g.Activate()
	defer g.Deactivate()

	return term.Run(ctx)
}
