package telemetry

import "github.com/pthm-cable/synapse/systems"

// Collector accumulates per-frame graph measurements and produces
// GraphStats once per window.
type Collector struct {
	windowFrames int

	windowStartFrame int

	// Per-frame samples for the current window
	edgeCounts []float64
	weightSum  float64
	weightN    int

	degree []int
}

// NewCollector creates a collector that flushes every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: windowFrames,
		edgeCounts:   make([]float64, 0, windowFrames),
	}
}

// RecordFrame records the edges produced for one frame.
func (c *Collector) RecordFrame(edges []systems.Edge) {
	c.edgeCounts = append(c.edgeCounts, float64(len(edges)))
	for _, e := range edges {
		c.weightSum += e.Weight
	}
	c.weightN += len(edges)
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(frame int) bool {
	return frame-c.windowStartFrame >= c.windowFrames
}

// Flush produces GraphStats and resets for the next window. nodes and
// lastEdges describe the final frame of the window.
func (c *Collector) Flush(frame, nodes int, lastEdges []systems.Edge, width, height int) GraphStats {
	mean, std, p10, p50, p90 := ComputeCountStats(c.edgeCounts)

	maxEdges := 0
	for _, n := range c.edgeCounts {
		maxEdges = max(maxEdges, int(n))
	}

	var meanDegree float64
	if nodes > 0 {
		meanDegree = 2 * mean / float64(nodes)
	}

	var weightMean float64
	if c.weightN > 0 {
		weightMean = c.weightSum / float64(c.weightN)
	}

	stats := GraphStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   frame,
		Frames:           len(c.edgeCounts),
		Nodes:            nodes,
		EdgesMean:        mean,
		EdgesStd:         std,
		EdgesP10:         p10,
		EdgesP50:         p50,
		EdgesP90:         p90,
		EdgesMax:         maxEdges,
		MeanDegree:       meanDegree,
		WeightMean:       weightMean,
		Isolated:         c.isolated(nodes, lastEdges),
		Width:            width,
		Height:           height,
	}

	// Reset for next window
	c.windowStartFrame = frame
	c.edgeCounts = c.edgeCounts[:0]
	c.weightSum = 0
	c.weightN = 0

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int {
	return c.windowFrames
}

func (c *Collector) isolated(nodes int, edges []systems.Edge) int {
	if cap(c.degree) < nodes {
		c.degree = make([]int, nodes)
	}
	c.degree = c.degree[:nodes]
	clear(c.degree)

	for _, e := range edges {
		c.degree[e.I]++
		c.degree[e.J]++
	}

	n := 0
	for _, d := range c.degree {
		if d == 0 {
			n++
		}
	}
	return n
}
