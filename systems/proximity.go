package systems

import "gonum.org/v1/gonum/spatial/r2"

// Edge links two nodes closer than the connection distance.
// I < J always holds; each qualifying pair appears exactly once.
type Edge struct {
	I        int     `json:"i"`
	J        int     `json:"j"`
	Distance float64 `json:"distance"`
	Weight   float64 `json:"weight"` // 1 - Distance/maxDistance, in (0, 1]
}

// EdgeBuilder computes the proximity graph for one frame.
type EdgeBuilder interface {
	// Build appends the edges for positions to dst and returns it.
	Build(dst []Edge, positions []r2.Vec, maxDistance float64) []Edge
}

// link returns the edge between nodes i and j if they are close enough.
// Both builders share it so their inclusion rule is identical.
func link(positions []r2.Vec, i, j int, maxDistance float64) (Edge, bool) {
	d := r2.Norm(r2.Sub(positions[i], positions[j]))
	if d >= maxDistance {
		return Edge{}, false
	}
	w := 1 - d/maxDistance
	if w <= 0 {
		// d rounds to maxDistance; such a line would be invisible anyway
		return Edge{}, false
	}
	return Edge{I: i, J: j, Distance: d, Weight: w}, true
}

// ComputeEdges runs an exhaustive pairwise scan over positions.
//
// This is O(n²) and is the scalability ceiling of the field: at 60 frames
// per second it fits the frame budget up to a few hundred nodes. Use
// GridBuilder beyond that.
func ComputeEdges(dst []Edge, positions []r2.Vec, maxDistance float64) []Edge {
	dst = dst[:0]
	if maxDistance <= 0 {
		return dst
	}

	n := len(positions)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if e, ok := link(positions, i, j, maxDistance); ok {
				dst = append(dst, e)
			}
		}
	}
	return dst
}

// ScanBuilder is the pairwise EdgeBuilder.
type ScanBuilder struct{}

// Build implements EdgeBuilder.
func (ScanBuilder) Build(dst []Edge, positions []r2.Vec, maxDistance float64) []Edge {
	return ComputeEdges(dst, positions, maxDistance)
}
