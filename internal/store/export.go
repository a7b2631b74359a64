package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/foxerapp/foxer/internal/task"
)

// SnapshotFile is the on-disk export format: both collections plus a
// timestamp, as one JSON document.
type SnapshotFile struct {
	ExportedAt time.Time   `json:"exported_at"`
	Active     []task.Task `json:"active"`
	Completed  []task.Task `json:"completed"`
}

// Export writes both collections to path as JSON.
func (s *Store) Export(path string) error {
	snap := SnapshotFile{
		ExportedAt: time.Now(),
		Active:     s.Active(),
		Completed:  s.Completed(),
	}
	if snap.Active == nil {
		snap.Active = []task.Task{}
	}
	if snap.Completed == nil {
		snap.Completed = []task.Task{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Import replaces both collections from a file written by Export.
// Completion flags follow the collection each task sits in; an id listed in
// both arrays keeps only its active copy.
func (s *Store) Import(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap SnapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}

	for i := range snap.Active {
		snap.Active[i].Completed = false
	}
	for i := range snap.Completed {
		snap.Completed[i].Completed = true
	}
	snap.Completed = dropShared(snap.Active, snap.Completed)

	s.mu.Lock()
	s.active = snap.Active
	s.completed = snap.Completed
	s.commit()
	s.mu.Unlock()
	return nil
}
