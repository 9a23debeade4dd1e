// Package components defines ECS components for the node field.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents a node's surface position in pixels.
type Position struct {
	X, Y float64
}

// Velocity represents a node's displacement per frame.
type Velocity struct {
	X, Y float64
}

// Vec returns the position as a gonum vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Vec returns the velocity as a gonum vector.
func (v Velocity) Vec() r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

// Speed returns the velocity magnitude.
func (v Velocity) Speed() float64 {
	return r2.Norm(v.Vec())
}
