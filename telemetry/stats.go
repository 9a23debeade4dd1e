package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GraphStats holds aggregated proximity graph statistics for a frame window.
type GraphStats struct {
	WindowStartFrame int `csv:"-"`
	WindowEndFrame   int `csv:"window_end"`
	Frames           int `csv:"frames"`

	Nodes int `csv:"nodes"`

	// Edge counts per frame
	EdgesMean float64 `csv:"edges_mean"`
	EdgesStd  float64 `csv:"edges_std"`
	EdgesP10  float64 `csv:"edges_p10"`
	EdgesP50  float64 `csv:"edges_p50"`
	EdgesP90  float64 `csv:"edges_p90"`
	EdgesMax  int     `csv:"edges_max"`

	// Mean node degree over the window (2E/n)
	MeanDegree float64 `csv:"mean_degree"`

	// Edge weights over the window
	WeightMean float64 `csv:"weight_mean"`

	// Nodes without any edge in the last frame of the window
	Isolated int `csv:"isolated"`

	// Surface size at window end
	Width  int `csv:"width"`
	Height int `csv:"height"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeCountStats calculates mean, population std, and percentiles.
func ComputeCountStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	std = stat.PopStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GraphStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartFrame),
		slog.Int("window_end", s.WindowEndFrame),
		slog.Int("frames", s.Frames),
		slog.Int("nodes", s.Nodes),
		slog.Float64("edges_mean", s.EdgesMean),
		slog.Float64("edges_std", s.EdgesStd),
		slog.Float64("edges_p10", s.EdgesP10),
		slog.Float64("edges_p50", s.EdgesP50),
		slog.Float64("edges_p90", s.EdgesP90),
		slog.Int("edges_max", s.EdgesMax),
		slog.Float64("mean_degree", s.MeanDegree),
		slog.Float64("weight_mean", s.WeightMean),
		slog.Int("isolated", s.Isolated),
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
	)
}

// LogStats logs the window stats using slog.
func (s GraphStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"nodes", s.Nodes,
		"edges_mean", s.EdgesMean,
		"edges_p50", s.EdgesP50,
		"edges_max", s.EdgesMax,
		"mean_degree", s.MeanDegree,
		"weight_mean", s.WeightMean,
		"isolated", s.Isolated,
	)
}
