package renderer

import (
	"image/color"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/synapse/config"
	"github.com/pthm-cable/synapse/systems"
)

type op struct {
	kind  string
	col   color.NRGBA
	a, b  r2.Vec
	width float64
}

// recordingCanvas captures draw calls in order.
type recordingCanvas struct {
	w, h int
	ops  []op
}

func (c *recordingCanvas) Size() (int, int) { return c.w, c.h }
func (c *recordingCanvas) Resize(w, h int)  { c.w, c.h = w, h }
func (c *recordingCanvas) Begin()           { c.ops = append(c.ops, op{kind: "begin"}) }
func (c *recordingCanvas) End()             { c.ops = append(c.ops, op{kind: "end"}) }

func (c *recordingCanvas) Fill(col color.NRGBA) {
	c.ops = append(c.ops, op{kind: "fill", col: col})
}

func (c *recordingCanvas) FillCircle(center r2.Vec, radius float64, col color.NRGBA) {
	c.ops = append(c.ops, op{kind: "circle", col: col, a: center, width: radius})
}

func (c *recordingCanvas) StrokeLine(a, b r2.Vec, width float64, col color.NRGBA) {
	c.ops = append(c.ops, op{kind: "line", col: col, a: a, b: b, width: width})
}

func (c *recordingCanvas) kinds() []string {
	out := make([]string, len(c.ops))
	for i, o := range c.ops {
		out[i] = o.kind
	}
	return out
}

var testStyle = Style{
	Background: color.NRGBA{A: 255},
	Accent:     color.NRGBA{R: 0x00, G: 0xBC, B: 0xD4, A: 255},
	TrailAlpha: 0.05,
	NodeRadius: 2,
	EdgeAlpha:  0.3,
	EdgeWidth:  1,
}

func TestDrawOrder(t *testing.T) {
	nodes := []r2.Vec{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 300, Y: 300}}
	edges := []systems.Edge{{I: 0, J: 1, Distance: 10, Weight: 0.5}}

	c := &recordingCanvas{w: 400, h: 400}
	NewFrameRenderer(testStyle).Draw(c, nodes, edges)

	want := []string{"begin", "fill", "circle", "circle", "circle", "line", "end"}
	got := c.kinds()
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ops = %v, want %v", got, want)
		}
	}
}

func TestDrawColors(t *testing.T) {
	nodes := []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}}
	edges := []systems.Edge{{I: 0, J: 1, Distance: 10, Weight: 0.5}}

	c := &recordingCanvas{}
	NewFrameRenderer(testStyle).Draw(c, nodes, edges)

	fill := c.ops[1]
	if fill.col != (color.NRGBA{A: 13}) {
		t.Errorf("trail fill = %+v, want black at alpha 13", fill.col)
	}

	circle := c.ops[2]
	if circle.col != testStyle.Accent || circle.width != 2 || circle.a != nodes[0] {
		t.Errorf("node disk = %+v", circle)
	}

	line := c.ops[4]
	// 0.5 weight x 0.3 base alpha
	wantLine := color.NRGBA{R: 0x00, G: 0xBC, B: 0xD4, A: 38}
	if line.col != wantLine {
		t.Errorf("edge color = %+v, want %+v", line.col, wantLine)
	}
	if line.a != nodes[0] || line.b != nodes[1] || line.width != 1 {
		t.Errorf("edge geometry = %+v", line)
	}
}

func TestDrawNoNodes(t *testing.T) {
	c := &recordingCanvas{}
	NewFrameRenderer(testStyle).Draw(c, nil, nil)

	got := c.kinds()
	if len(got) != 3 || got[1] != "fill" {
		t.Errorf("empty frame should only fade, got %v", got)
	}
}

func TestStyleFromConfig(t *testing.T) {
	cfg := config.Default()
	s := StyleFromConfig(cfg)

	if s.Accent != testStyle.Accent {
		t.Errorf("accent = %+v, want %+v", s.Accent, testStyle.Accent)
	}
	if s.TrailAlpha != 0.05 || s.EdgeAlpha != 0.3 || s.NodeRadius != 2 || s.EdgeWidth != 1 {
		t.Errorf("style = %+v", s)
	}
}

func TestAlpha8(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{0.05, 13},
		{0.5, 128},
		{1, 255},
		{2, 255},
	}
	for _, tt := range tests {
		if got := alpha8(tt.in); got != tt.want {
			t.Errorf("alpha8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
