package systems

import "math"

// Advance integrates every node by one frame and reflects velocities off the
// surface bounds.
//
// The boundary is reflective, not clamping: a node that crosses an edge keeps
// its overshooting position for the frame and only its velocity component on
// that axis changes sign. The reflected component always points back toward
// the surface, so a node left outside by a shrinking resize flips once and
// drifts back in instead of oscillating in place. Sign flips preserve speed
// exactly.
func Advance(nodes *NodeSet, b Bounds) {
	if nodes == nil {
		return
	}

	query := nodes.filter.Query()
	for query.Next() {
		pos, vel := query.Get()

		pos.X += vel.X
		pos.Y += vel.Y

		vel.X = reflect(pos.X, vel.X, b.Width)
		vel.Y = reflect(pos.Y, vel.Y, b.Height)
	}
}

// reflect returns the velocity component after the boundary test on one axis.
func reflect(p, v, limit float64) float64 {
	switch {
	case p < 0:
		return math.Abs(v)
	case p > limit:
		return -math.Abs(v)
	}
	return v
}
