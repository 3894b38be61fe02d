package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a point-in-time dump of the simulation for offline inspection:
// the field, the obstacle mask, every agent in storage order and the RNG
// state. Dumps are never loaded back into a running simulation.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id,omitempty"`
	Seed    string `json:"seed"`

	// RNGState is the generator's internal state at Tick, not the seed hash.
	RNGState uint32 `json:"rng_state"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Tick   uint64 `json:"tick"`
	Births uint64 `json:"births"`
	Deaths uint64 `json:"deaths"`

	Field     []float32 `json:"field"`
	Obstacles []int     `json:"obstacles,omitempty"` // Indices of obstacle cells

	Agents []AgentState `json:"agents"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// AgentState holds one agent's state.
type AgentState struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Energy float64 `json:"energy"`
}

// ObstacleMask expands the stored obstacle indices into a full mask.
func (s *Snapshot) ObstacleMask() ([]bool, error) {
	mask := make([]bool, s.Width*s.Height)
	for _, i := range s.Obstacles {
		if i < 0 || i >= len(mask) {
			return nil, fmt.Errorf("obstacle index %d outside %dx%d grid", i, s.Width, s.Height)
		}
		mask[i] = true
	}
	return mask, nil
}

// ObstacleIndices compresses an obstacle mask into the indices of set cells.
func ObstacleIndices(mask []bool) []int {
	var out []int
	for i, blocked := range mask {
		if blocked {
			out = append(out, i)
		}
	}
	return out
}

// SaveSnapshot writes a snapshot to dir.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a dump back for inspection.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	if len(snapshot.Field) != snapshot.Width*snapshot.Height {
		return nil, fmt.Errorf("snapshot field has %d cells for %dx%d grid", len(snapshot.Field), snapshot.Width, snapshot.Height)
	}

	return &snapshot, nil
}
