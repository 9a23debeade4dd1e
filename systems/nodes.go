// Package systems provides the per-frame systems of the node field.
package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/synapse/components"
)

// Bounds represents the drawing surface extent in pixels.
type Bounds struct {
	Width, Height float64
}

// NodeSet is an ordered, fixed-size collection of nodes stored in an ECS world.
// Index order is insertion order and is the order used for pairwise iteration.
type NodeSet struct {
	world    *ecs.World
	mapper   *ecs.Map2[components.Position, components.Velocity]
	filter   *ecs.Filter2[components.Position, components.Velocity]
	entities []ecs.Entity
}

// NewNodeSet creates an empty node set with room for capacity nodes.
func NewNodeSet(capacity int) *NodeSet {
	world := ecs.NewWorld()
	return &NodeSet{
		world:    world,
		mapper:   ecs.NewMap2[components.Position, components.Velocity](world),
		filter:   ecs.NewFilter2[components.Position, components.Velocity](world),
		entities: make([]ecs.Entity, 0, capacity),
	}
}

// SeedNodes creates count nodes uniformly distributed over bounds with velocity
// components uniform in [-maxSpeed, maxSpeed).
// Each axis is widened to at least one unit so a zero-sized surface still
// yields valid (degenerate) placements.
func SeedNodes(rng *rand.Rand, count int, bounds Bounds, maxSpeed float64) *NodeSet {
	w := max(bounds.Width, 1)
	h := max(bounds.Height, 1)

	s := NewNodeSet(count)
	for i := 0; i < count; i++ {
		pos := components.Position{X: rng.Float64() * w, Y: rng.Float64() * h}
		vel := components.Velocity{
			X: (rng.Float64()*2 - 1) * maxSpeed,
			Y: (rng.Float64()*2 - 1) * maxSpeed,
		}
		s.Add(pos, vel)
	}
	return s
}

// Add appends a node and returns its index.
func (s *NodeSet) Add(pos components.Position, vel components.Velocity) int {
	e := s.mapper.NewEntity(&pos, &vel)
	s.entities = append(s.entities, e)
	return len(s.entities) - 1
}

// Len returns the number of nodes.
func (s *NodeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entities)
}

// Get returns the components of node i. The pointers stay valid until the
// next structural change to the world; nodes are never added mid-frame.
func (s *NodeSet) Get(i int) (*components.Position, *components.Velocity) {
	return s.mapper.Get(s.entities[i])
}

// Positions appends node positions in index order to dst and returns it.
// Reuse dst across frames to avoid allocations.
func (s *NodeSet) Positions(dst []r2.Vec) []r2.Vec {
	dst = dst[:0]
	if s == nil {
		return dst
	}
	for _, e := range s.entities {
		pos, _ := s.mapper.Get(e)
		dst = append(dst, pos.Vec())
	}
	return dst
}
