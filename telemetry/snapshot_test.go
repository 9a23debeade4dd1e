package telemetry

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/synapse/components"
	"github.com/pthm-cable/synapse/systems"
)

func TestSnapshotSaveLoad(t *testing.T) {
	dir := t.TempDir()

	nodes := systems.NewNodeSet(2)
	nodes.Add(components.Position{X: 1, Y: 2}, components.Velocity{X: 0.1, Y: -0.2})
	nodes.Add(components.Position{X: 3, Y: 4}, components.Velocity{X: -0.3, Y: 0.4})

	snap := &Snapshot{
		Version:     SnapshotVersion,
		Seed:        42,
		Frame:       7,
		Width:       100,
		Height:      50,
		MaxDistance: 150,
		Nodes:       CaptureNodes(nodes),
		Edges:       []systems.Edge{{I: 0, J: 1, Distance: 2.83, Weight: 0.98}},
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.SetRGBA(1, 1, color.RGBA{G: 200, A: 255})

	path, err := SaveSnapshot(snap, img, dir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if filepath.Base(path) != "snapshot_000007.json" {
		t.Errorf("path = %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Seed != 42 || loaded.Frame != 7 || len(loaded.Nodes) != 2 || len(loaded.Edges) != 1 {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded.Nodes[1] != (NodeState{X: 3, Y: 4, VelX: -0.3, VelY: 0.4}) {
		t.Errorf("node 1 = %+v", loaded.Nodes[1])
	}
	if p := loaded.Positions(); p[0].X != 1 || p[0].Y != 2 {
		t.Errorf("positions = %v", p)
	}

	f, err := os.Open(filepath.Join(dir, "snapshot_000007.png"))
	if err != nil {
		t.Fatalf("png not written: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 3 {
		t.Errorf("png bounds = %v", decoded.Bounds())
	}
	if _, g, _, _ := decoded.At(1, 1).RGBA(); g>>8 != 200 {
		t.Errorf("png pixel green = %d, want 200", g>>8)
	}
}

func TestSnapshotSkipsEmptyImage(t *testing.T) {
	dir := t.TempDir()
	snap := &Snapshot{Version: SnapshotVersion, Frame: 1}

	if _, err := SaveSnapshot(snap, image.NewRGBA(image.Rect(0, 0, 0, 0)), dir); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "snapshot_000001.png")); !os.IsNotExist(err) {
		t.Error("png written for empty surface")
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing snapshot")
	}
}
