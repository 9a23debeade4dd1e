package main

import (
	"image/color"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/synapse/config"
	"github.com/pthm-cable/synapse/game"
	"github.com/pthm-cable/synapse/host"
	"github.com/pthm-cable/synapse/telemetry"
)

// nullCanvas tracks a surface size, clamped like the real canvases, and
// drops all drawing.
type nullCanvas struct{ w, h int }

func (c *nullCanvas) Size() (int, int)                                { return c.w, c.h }
func (c *nullCanvas) Resize(w, h int)                                 { c.w, c.h = max(w, 0), max(h, 0) }
func (c *nullCanvas) Begin()                                          {}
func (c *nullCanvas) End()                                            {}
func (c *nullCanvas) Fill(color.NRGBA)                                {}
func (c *nullCanvas) FillCircle(r2.Vec, float64, color.NRGBA)         {}
func (c *nullCanvas) StrokeLine(r2.Vec, r2.Vec, float64, color.NRGBA) {}

// statsWindowFrames is the window size used while calibrating. The first
// window is discarded as warmup.
const statsWindowFrames = 60

// FitnessEvaluator runs headless fields and scores how far their mean node
// degree is from a target.
type FitnessEvaluator struct {
	params     *ParamVector
	frames     int
	seeds      []int64
	baseConfig *config.Config
	target     float64

	mu         sync.Mutex
	lastDegree float64 // mean degree from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, frames int, seeds []int64, baseCfg *config.Config, targetDegree float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		frames:     frames,
		seeds:      seeds,
		baseConfig: baseCfg,
		target:     targetDegree,
	}
}

// LastDegree returns the mean degree measured by the most recent evaluation.
func (fe *FitnessEvaluator) LastDegree() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDegree
}

// Evaluate computes fitness for a raw parameter vector (lower = better):
// the squared distance between the measured and target mean degree.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	degrees := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			degrees[idx] = fe.runField(x, s)
		}(i, seed)
	}
	wg.Wait()

	degree := stat.Mean(degrees, nil)

	fe.mu.Lock()
	fe.lastDegree = degree
	fe.mu.Unlock()

	d := degree - fe.target
	return d * d
}

// runField runs one headless field and returns its mean degree after warmup.
func (fe *FitnessEvaluator) runField(x []float64, seed int64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Telemetry.StatsWindow = statsWindowFrames

	var windows []telemetry.GraphStats
	sched := host.NewScheduler(cfg.Screen.Width, cfg.Screen.Height)
	g := game.New(cfg, sched, &nullCanvas{}, game.Options{
		Seed: seed,
		OnStats: func(s telemetry.GraphStats) {
			windows = append(windows, s)
		},
	})

	g.Activate()
	now := time.Now()
	for i := 0; i < fe.frames; i++ {
		sched.Tick(now)
	}
	g.Deactivate()

	if len(windows) < 2 {
		return math.NaN()
	}
	degrees := make([]float64, len(windows)-1)
	for i, w := range windows[1:] {
		degrees[i] = w.MeanDegree
	}
	return stat.Mean(degrees, nil)
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
