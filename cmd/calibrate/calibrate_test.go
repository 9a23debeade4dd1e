package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/synapse/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector()
	spec := pv.Specs[0]

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below", spec.Min - 5, spec.Min},
		{"inside", 200, 200},
		{"above", spec.Max * 2, spec.Max},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pv.Clamp([]float64{tt.in})[0]; got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestApplyToConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{9999})
	if cfg.Graph.MaxDistance != pv.Specs[0].Max {
		t.Errorf("max_distance = %v, want clamped %v", cfg.Graph.MaxDistance, pv.Specs[0].Max)
	}
	if got := pv.ExtractFromConfig(cfg)[0]; got != cfg.Graph.MaxDistance {
		t.Errorf("extract = %v", got)
	}
}

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Nodes.Count = 40
	cfg.Screen.Width = 300
	cfg.Screen.Height = 200
	return cfg
}

func TestDegreeGrowsWithDistance(t *testing.T) {
	fe := NewFitnessEvaluator(NewParamVector(), 2*statsWindowFrames, []int64{1, 2}, smallConfig(), 0)

	fe.Evaluate([]float64{20})
	near := fe.LastDegree()
	fe.Evaluate([]float64{300})
	far := fe.LastDegree()

	if !(far > near) {
		t.Errorf("degree at 300 = %v, at 20 = %v; want growth", far, near)
	}
	// 300 covers the whole 300x200 surface's diagonal almost entirely
	if far < 20 {
		t.Errorf("degree at 300 = %v, want most of the 39 possible neighbours", far)
	}
}

func TestEvaluateIsSquaredError(t *testing.T) {
	fe := NewFitnessEvaluator(NewParamVector(), 2*statsWindowFrames, []int64{3}, smallConfig(), 5)

	fitness := fe.Evaluate([]float64{120})
	d := fe.LastDegree() - 5
	if math.Abs(fitness-d*d) > 1e-9 {
		t.Errorf("fitness = %v, want (%v-5)^2", fitness, fe.LastDegree())
	}
}

func TestShortRunIsUnscored(t *testing.T) {
	fe := NewFitnessEvaluator(NewParamVector(), statsWindowFrames, []int64{1}, smallConfig(), 4)
	if f := fe.Evaluate([]float64{100}); !math.IsNaN(f) {
		t.Errorf("fitness = %v, want NaN without a post-warmup window", f)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{42 * time.Second, "0m42s"},
		{3*time.Minute + 5*time.Second, "3m05s"},
		{2*time.Hour + 1*time.Minute, "2h01m00s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNullCanvasClampsSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"positive", 320, 200, 320, 200},
		{"negative", -4, -9, 0, 0},
		{"mixed", 50, -1, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c nullCanvas
			c.Resize(tt.w, tt.h)
			if w, h := c.Size(); w != tt.wantW || h != tt.wantH {
				t.Errorf("Size() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
