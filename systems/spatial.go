package systems

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// SpatialGrid buckets node indices into square cells for neighbor lookups.
// With the cell size equal to the connection distance, every linked pair
// lies in the same or an adjacent cell.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	width    float64
	height   float64
	cells    [][]int // flat grid of node index lists
}

// maxCells caps grid storage when nodes stray far off the surface.
const maxCells = 1 << 14

// NewSpatialGrid creates a spatial grid covering the given surface size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{}
	g.reset(width, height, cellSize)
	return g
}

// reset resizes the grid, reusing cell storage where possible.
// Cell counts are sized in float64 so a tiny cell size cannot overflow int.
func (g *SpatialGrid) reset(width, height, cellSize float64) {
	width, height = max(width, 0), max(height, 0)

	// Coarser cells keep the adjacency guarantee, so grow them instead of the grid
	for (math.Floor(width/cellSize)+1)*(math.Floor(height/cellSize)+1) > maxCells {
		cellSize *= 2
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	if cols*rows != len(g.cells) {
		g.cells = make([][]int, cols*rows)
		for i := range g.cells {
			g.cells[i] = make([]int, 0, 8) // pre-allocate small capacity
		}
	}

	g.cellSize = cellSize
	g.cols = cols
	g.rows = rows
	g.width = width
	g.height = height
}

// Clear removes all nodes from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds node i to the grid at the given position.
func (g *SpatialGrid) Insert(i int, p r2.Vec) {
	col, row := g.cell(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], i)
}

// cell returns the cell coordinates for a position.
// Positions off the surface are clamped into the border cells. Clamping only
// shrinks the cell gap between two points, so adjacent-cell coverage holds.
func (g *SpatialGrid) cell(p r2.Vec) (col, row int) {
	col = clampIndex(p.X/g.cellSize, g.cols)
	row = clampIndex(p.Y/g.cellSize, g.rows)
	return col, row
}

// clampIndex maps a fractional cell coordinate into [0, n). The comparison
// happens before the int conversion so far-off positions cannot overflow.
func clampIndex(v float64, n int) int {
	if n <= 0 || !(v >= 0) {
		return 0
	}
	if v >= float64(n) {
		return n - 1
	}
	return int(v)
}

// forward lists the neighbor offsets visited from each cell. Together with
// the cell itself they cover every adjacent pair once.
var forward = [...][2]int{{1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// GridBuilder is an EdgeBuilder backed by a SpatialGrid.
// For the same positions it returns exactly the edges ComputeEdges returns,
// in the same order.
type GridBuilder struct {
	grid *SpatialGrid
}

// NewGridBuilder creates a grid builder. The grid is sized lazily per frame.
func NewGridBuilder() *GridBuilder {
	return &GridBuilder{grid: &SpatialGrid{}}
}

// Build implements EdgeBuilder.
func (b *GridBuilder) Build(dst []Edge, positions []r2.Vec, maxDistance float64) []Edge {
	dst = dst[:0]
	if maxDistance <= 0 || len(positions) < 2 {
		return dst
	}

	// Size the grid to the occupied extent so drifted nodes still bucket well
	var w, h float64
	for _, p := range positions {
		w = max(w, p.X)
		h = max(h, p.Y)
	}
	g := b.grid
	g.reset(w, h, maxDistance)
	g.Clear()
	for i, p := range positions {
		g.Insert(i, p)
	}

	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			cell := g.cells[row*g.cols+col]

			// Pairs within the cell
			for a := 0; a < len(cell); a++ {
				for c := a + 1; c < len(cell); c++ {
					dst = appendLink(dst, positions, cell[a], cell[c], maxDistance)
				}
			}

			// Pairs with forward neighbors
			for _, off := range forward {
				nc, nr := col+off[0], row+off[1]
				if nc < 0 || nc >= g.cols || nr >= g.rows {
					continue
				}
				other := g.cells[nr*g.cols+nc]
				for _, i := range cell {
					for _, j := range other {
						dst = appendLink(dst, positions, i, j, maxDistance)
					}
				}
			}
		}
	}

	// Match the scan's (I, J) ordering
	slices.SortFunc(dst, func(x, y Edge) int {
		if x.I != y.I {
			return x.I - y.I
		}
		return x.J - y.J
	})
	return dst
}

func appendLink(dst []Edge, positions []r2.Vec, i, j int, maxDistance float64) []Edge {
	if i > j {
		i, j = j, i
	}
	if e, ok := link(positions, i, j, maxDistance); ok {
		dst = append(dst, e)
	}
	return dst
}
