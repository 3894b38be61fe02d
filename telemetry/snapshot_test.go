package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		RunID:    "run-1",
		Seed:     "42",
		RNGState: 3735928559,
		Width:    3,
		Height:   2,
		Tick:     1000,
		Births:   12,
		Deaths:   7,
		Field:    []float32{0.1, 0.2, 0.30000001, 0, 1, 0.7},
		Obstacles: ObstacleIndices([]bool{
			false, true, false,
			false, false, true,
		}),
		Agents: []AgentState{
			{X: 0, Y: 1, Energy: 1.2345678901234567},
			{X: 2, Y: 0, Energy: 3},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkBloom,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.RNGState != snapshot.RNGState {
		t.Errorf("RNGState mismatch: got %d, want %d", loaded.RNGState, snapshot.RNGState)
	}
	if loaded.Tick != snapshot.Tick || loaded.Births != 12 || loaded.Deaths != 7 {
		t.Errorf("counters mismatch: %+v", loaded)
	}
	for i, v := range snapshot.Field {
		if loaded.Field[i] != v {
			t.Errorf("field[%d] = %v, want %v", i, loaded.Field[i], v)
		}
	}
	for i, a := range snapshot.Agents {
		if loaded.Agents[i] != a {
			t.Errorf("agent %d = %+v, want %+v", i, loaded.Agents[i], a)
		}
	}

	mask, err := loaded.ObstacleMask()
	if err != nil {
		t.Fatal(err)
	}
	if !mask[1] || !mask[5] || mask[0] || mask[4] {
		t.Errorf("unexpected obstacle mask %v", mask)
	}

	if loaded.Bookmark == nil {
		t.Error("Bookmark not loaded")
	} else if loaded.Bookmark.Type != snapshot.Bookmark.Type {
		t.Errorf("Bookmark type mismatch: got %s, want %s", loaded.Bookmark.Type, snapshot.Bookmark.Type)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		Tick:     5000,
		Bookmark: &Bookmark{Type: BookmarkCrash, Tick: 5000},
	}
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_5000_population_crash.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_3000.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotRejectsMismatchedField(t *testing.T) {
	tmpDir := t.TempDir()
	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Width: 4, Height: 4, Field: make([]float32, 3)}, tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected error for a field that does not match the grid")
	}
}

func TestObstacleMaskRejectsOutOfRange(t *testing.T) {
	s := &Snapshot{Width: 2, Height: 2, Obstacles: []int{4}}
	if _, err := s.ObstacleMask(); err == nil {
		t.Error("expected error for obstacle index outside the grid")
	}
}
