package telemetry

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/synapse/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the field state at one frame for offline inspection.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Frame   int   `json:"frame"`

	Width  int `json:"width"`
	Height int `json:"height"`

	MaxDistance float64 `json:"max_distance"`

	Nodes []NodeState    `json:"nodes"`
	Edges []systems.Edge `json:"edges"`
}

// NodeState holds one node's kinematic state.
type NodeState struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VelX float64 `json:"vel_x"`
	VelY float64 `json:"vel_y"`
}

// CaptureNodes copies the state of every node in index order.
func CaptureNodes(nodes *systems.NodeSet) []NodeState {
	out := make([]NodeState, nodes.Len())
	for i := range out {
		pos, vel := nodes.Get(i)
		out[i] = NodeState{X: pos.X, Y: pos.Y, VelX: vel.X, VelY: vel.Y}
	}
	return out
}

// Positions returns the node positions of the snapshot.
func (s *Snapshot) Positions() []r2.Vec {
	out := make([]r2.Vec, len(s.Nodes))
	for i, n := range s.Nodes {
		out[i] = r2.Vec{X: n.X, Y: n.Y}
	}
	return out
}

// SaveSnapshot writes a snapshot to dir as JSON, plus a PNG of img when img
// is non-nil and non-empty. Returns the path of the JSON file.
func SaveSnapshot(snapshot *Snapshot, img image.Image, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%06d", snapshot.Frame)
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	if img != nil && !img.Bounds().Empty() {
		if err := WritePNG(filepath.Join(dir, name+".png"), img); err != nil {
			return "", err
		}
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}
