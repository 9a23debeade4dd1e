package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/synapse/systems"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeCountStats(t *testing.T) {
	values := []float64{10, 2, 8, 4, 6}
	mean, std, p10, p50, p90 := ComputeCountStats(values)

	if mean != 6 {
		t.Errorf("mean = %v, want 6", mean)
	}
	// Population std of {2,4,6,8,10}
	if math.Abs(std-math.Sqrt(8)) > 1e-9 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(8))
	}
	if math.Abs(p10-2.8) > 1e-9 || p50 != 6 || math.Abs(p90-9.2) > 1e-9 {
		t.Errorf("percentiles = %v %v %v", p10, p50, p90)
	}
	// Input must not be reordered
	if values[0] != 10 {
		t.Error("ComputeCountStats sorted its input")
	}
}

func TestComputeCountStatsEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeCountStats(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("expected all zeros for empty input")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(3)

	frames := [][]systems.Edge{
		{{I: 0, J: 1, Weight: 0.5}},
		{{I: 0, J: 1, Weight: 0.5}, {I: 1, J: 2, Weight: 1}},
		{{I: 0, J: 1, Weight: 0.25}, {I: 1, J: 2, Weight: 0.25}, {I: 0, J: 2, Weight: 0.25}},
	}

	for i, edges := range frames {
		if c.ShouldFlush(i) {
			t.Fatalf("flush requested early at frame %d", i)
		}
		c.RecordFrame(edges)
	}
	if !c.ShouldFlush(3) {
		t.Fatal("expected flush at frame 3")
	}

	stats := c.Flush(3, 4, frames[2], 640, 480)

	if stats.Frames != 3 || stats.WindowStartFrame != 0 || stats.WindowEndFrame != 3 {
		t.Errorf("window = %+v", stats)
	}
	if stats.EdgesMean != 2 || stats.EdgesMax != 3 || stats.EdgesP50 != 2 {
		t.Errorf("edge counts: mean %v max %d p50 %v", stats.EdgesMean, stats.EdgesMax, stats.EdgesP50)
	}
	// 2 * mean edges / 4 nodes
	if stats.MeanDegree != 1 {
		t.Errorf("mean degree = %v, want 1", stats.MeanDegree)
	}
	// (0.5 + 0.5 + 1 + 0.75) / 6
	if math.Abs(stats.WeightMean-2.75/6) > 1e-12 {
		t.Errorf("weight mean = %v, want %v", stats.WeightMean, 2.75/6)
	}
	if stats.Isolated != 1 {
		t.Errorf("isolated = %d, want 1 (node 3)", stats.Isolated)
	}
	if stats.Width != 640 || stats.Height != 480 {
		t.Errorf("size = %dx%d", stats.Width, stats.Height)
	}

	// Window resets
	if c.ShouldFlush(5) {
		t.Error("expected new window to start at frame 3")
	}
	empty := c.Flush(6, 0, nil, 0, 0)
	if empty.Frames != 0 || empty.EdgesMean != 0 || empty.MeanDegree != 0 || empty.WeightMean != 0 {
		t.Errorf("empty window = %+v", empty)
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	if c := NewCollector(0); c.WindowFrames() != 1 {
		t.Errorf("window = %d, want 1", c.WindowFrames())
	}
}
