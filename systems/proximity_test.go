package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestComputeEdgesSinglePair(t *testing.T) {
	positions := []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}}

	edges := ComputeEdges(nil, positions, 20)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}

	e := edges[0]
	if e.I != 0 || e.J != 1 {
		t.Errorf("edge = (%d, %d), want (0, 1)", e.I, e.J)
	}
	if e.Distance != 10 {
		t.Errorf("distance = %v, want 10", e.Distance)
	}
	if math.Abs(e.Weight-0.5) > 1e-12 {
		t.Errorf("weight = %v, want 0.5", e.Weight)
	}
}

func TestComputeEdgesThreshold(t *testing.T) {
	const maxDistance = 150.0
	tests := []struct {
		name string
		dx   float64
		want int
	}{
		{"exactly max distance", maxDistance, 0},
		{"just below max distance", maxDistance - 1e-9, 1},
		{"beyond max distance", maxDistance + 1, 0},
		{"coincident", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions := []r2.Vec{{X: 3, Y: 4}, {X: 3 + tt.dx, Y: 4}}
			if got := len(ComputeEdges(nil, positions, maxDistance)); got != tt.want {
				t.Errorf("got %d edges, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeEdgesCoincidentWeight(t *testing.T) {
	edges := ComputeEdges(nil, []r2.Vec{{X: 5, Y: 5}, {X: 5, Y: 5}}, 10)
	if len(edges) != 1 || edges[0].Weight != 1 {
		t.Errorf("coincident nodes should link with weight 1, got %+v", edges)
	}
}

func TestComputeEdgesEmpty(t *testing.T) {
	if edges := ComputeEdges(nil, nil, 150); len(edges) != 0 {
		t.Errorf("expected no edges for empty set, got %d", len(edges))
	}
	if edges := ComputeEdges(nil, []r2.Vec{{X: 1, Y: 1}}, 150); len(edges) != 0 {
		t.Errorf("expected no edges for a single node, got %d", len(edges))
	}
	if edges := ComputeEdges(nil, []r2.Vec{{}, {X: 1}}, 0); len(edges) != 0 {
		t.Errorf("expected no edges for zero distance, got %d", len(edges))
	}
}

func randomPositions(rng *rand.Rand, n int, w, h float64) []r2.Vec {
	positions := make([]r2.Vec, n)
	for i := range positions {
		positions[i] = r2.Vec{X: rng.Float64() * w, Y: rng.Float64() * h}
	}
	return positions
}

func TestComputeEdgesProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	positions := randomPositions(rng, 120, 800, 600)
	const maxDistance = 150.0

	edges := ComputeEdges(nil, positions, maxDistance)
	if len(edges) == 0 {
		t.Fatal("expected some edges in a dense field")
	}

	seen := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		if e.I >= e.J {
			t.Errorf("edge (%d, %d) not ordered I < J", e.I, e.J)
		}
		if seen[[2]int{e.I, e.J}] || seen[[2]int{e.J, e.I}] {
			t.Errorf("pair (%d, %d) reported twice", e.I, e.J)
		}
		seen[[2]int{e.I, e.J}] = true

		if e.Weight <= 0 || e.Weight > 1 {
			t.Errorf("edge (%d, %d) weight %v outside (0, 1]", e.I, e.J, e.Weight)
		}
		if e.Distance >= maxDistance {
			t.Errorf("edge (%d, %d) distance %v not below threshold", e.I, e.J, e.Distance)
		}
	}

	// Every qualifying pair is present
	want := 0
	for i := range positions {
		for j := i + 1; j < len(positions); j++ {
			if r2.Norm(r2.Sub(positions[i], positions[j])) < maxDistance {
				want++
			}
		}
	}
	if len(edges) != want {
		t.Errorf("got %d edges, want %d", len(edges), want)
	}
}

func TestComputeEdgesReusesBuffer(t *testing.T) {
	positions := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	buf := make([]Edge, 0, 16)

	first := ComputeEdges(buf, positions, 10)
	second := ComputeEdges(first, positions[:2], 10)
	if len(second) != 1 {
		t.Fatalf("stale edges kept: %d", len(second))
	}
	if &second[0] != &buf[:1][0] {
		t.Error("expected buffer reuse")
	}
}

func TestGridBuilderMatchesScan(t *testing.T) {
	tests := []struct {
		name        string
		n           int
		w, h        float64
		maxDistance float64
	}{
		{"default field", 100, 1280, 720, 150},
		{"dense", 300, 400, 300, 60},
		{"sparse", 50, 2000, 2000, 10},
		{"tiny surface", 20, 5, 5, 150},
		{"distance larger than surface", 40, 100, 80, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(tt.n)))
			positions := randomPositions(rng, tt.n, tt.w, tt.h)

			want := ComputeEdges(nil, positions, tt.maxDistance)
			got := NewGridBuilder().Build(nil, positions, tt.maxDistance)
			assertSameEdges(t, got, want)
		})
	}
}

func TestGridBuilderOffSurfacePositions(t *testing.T) {
	// Overshoot and post-resize leftovers put nodes outside the surface
	positions := []r2.Vec{
		{X: -3, Y: 10},
		{X: -140, Y: 12},
		{X: 5, Y: -1},
		{X: 900, Y: 900},
		{X: 1000, Y: 950},
		{X: 100, Y: 100},
	}

	want := ComputeEdges(nil, positions, 150)
	got := NewGridBuilder().Build(nil, positions, 150)
	assertSameEdges(t, got, want)
}

func TestGridBuilderTinyDistance(t *testing.T) {
	positions := []r2.Vec{
		{X: 100, Y: 100},
		{X: 1200, Y: 700},
		{X: 640, Y: 360},
		{X: 640, Y: 360}, // coincident pair links at any positive distance
		{X: -50, Y: 800},
	}

	tests := []struct {
		name        string
		maxDistance float64
	}{
		{"1e-7", 1e-7},
		{"1e-18", 1e-18},
		{"smallest float", math.SmallestNonzeroFloat64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewGridBuilder().Build(nil, positions, tt.maxDistance)
			want := ComputeEdges(nil, positions, tt.maxDistance)
			assertSameEdges(t, got, want)
			if len(got) != 1 || got[0].I != 2 || got[0].J != 3 {
				t.Errorf("edges = %+v, want only the coincident pair", got)
			}
		})
	}
}

func TestClampIndex(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		n    int
		want int
	}{
		{"inside", 2.7, 5, 2},
		{"negative", -3, 5, 0},
		{"past end", 9, 5, 4},
		{"huge", 1e300, 5, 4},
		{"nan", math.NaN(), 5, 0},
		{"empty grid", 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampIndex(tt.v, tt.n); got != tt.want {
				t.Errorf("clampIndex(%v, %d) = %d, want %d", tt.v, tt.n, got, tt.want)
			}
		})
	}
}

func TestGridBuilderReuseAcrossFrames(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	b := NewGridBuilder()
	var buf []Edge

	for frame := 0; frame < 5; frame++ {
		positions := randomPositions(rng, 80, 400+float64(frame)*100, 300)
		buf = b.Build(buf, positions, 90)
		assertSameEdges(t, buf, ComputeEdges(nil, positions, 90))
	}
}

func TestScanBuilder(t *testing.T) {
	var b EdgeBuilder = ScanBuilder{}
	edges := b.Build(nil, []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}}, 20)
	if len(edges) != 1 {
		t.Errorf("expected 1 edge, got %d", len(edges))
	}
}

func assertSameEdges(t *testing.T, got, want []Edge) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d edges, want %d", len(got), len(want))
	}
	for k := range want {
		if got[k] != want[k] {
			t.Fatalf("edge %d = %+v, want %+v", k, got[k], want[k])
		}
	}
}

func BenchmarkComputeEdges(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	positions := randomPositions(rng, 100, 1280, 720)
	var buf []Edge

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		buf = ComputeEdges(buf, positions, 150)
	}
}

func BenchmarkGridBuilder(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	positions := randomPositions(rng, 500, 1280, 720)
	builder := NewGridBuilder()
	var buf []Edge

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		buf = builder.Build(buf, positions, 150)
	}
}
