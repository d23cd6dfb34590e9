// Package snapshot persists the most recent assignment capture between
// daily-update runs. The cache is one JSON file, read wholesale at job
// start and replaced wholesale at job end; there is no incremental format
// and no locking, so concurrent daily runs are unsupported.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/canvas"
)

// Version is the current snapshot schema version. A file carrying any
// other version fails the read outright rather than being partially
// parsed.
const Version = 1

// ErrVersionMismatch is returned when the on-disk snapshot was written by
// an incompatible schema version.
var ErrVersionMismatch = errors.New("snapshot schema version mismatch")

// Snapshot is a point-in-time capture of all assignments, used only for
// diffing between runs.
type Snapshot struct {
	Version     int                 `json:"version"`
	CapturedAt  time.Time           `json:"captured_at"`
	Assignments []canvas.Assignment `json:"assignments"`
}

// Store reads and writes the snapshot file at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store for the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot from disk. A missing file is not an error: it
// returns an empty snapshot, so the first daily run treats every
// assignment as new.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Snapshot{Version: Version}, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snap.Version != Version {
		return nil, fmt.Errorf("%w: file has version %d, expected %d", ErrVersionMismatch, snap.Version, Version)
	}

	return &snap, nil
}

// Save replaces the snapshot wholesale. Written atomically via a temp
// file so a crash mid-write never leaves a torn cache.
func (s *Store) Save(assignments []canvas.Assignment) error {
	snap := Snapshot{
		Version:     Version,
		CapturedAt:  time.Now(),
		Assignments: assignments,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming snapshot: %w", err)
	}

	return nil
}
