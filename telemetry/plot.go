package telemetry

import "github.com/guptarohit/asciigraph"

// Plot renders the mean edge count of each window as an ASCII chart.
// Returns an empty string when there is nothing to plot.
func Plot(windows []GraphStats, caption string) string {
	if len(windows) == 0 {
		return ""
	}

	data := make([]float64, len(windows))
	for i, w := range windows {
		data[i] = w.EdgesMean
	}

	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}
