package store

import (
	"github.com/foxerapp/foxer/internal/reorder"
	"github.com/foxerapp/foxer/internal/task"
)

// Reorder moves the dragged group as a contiguous block within one
// collection, per the group-reorder engine. Invalid input (drop target
// inside the group, unknown ids) leaves the collection untouched and
// returns false; that is the expected no-op, not an error.
func (s *Store) Reorder(groupIDs []string, activeID, overID string, inCompleted bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := &s.active
	if inCompleted {
		list = &s.completed
	}

	seq := make([]string, len(*list))
	byID := make(map[string]task.Task, len(*list))
	for i, t := range *list {
		seq[i] = t.ID
		byID[t.ID] = t
	}

	newSeq := reorder.GroupReorder(seq, groupIDs, activeID, overID)
	if sameOrder(seq, newSeq) {
		return false
	}

	updated := make([]task.Task, len(newSeq))
	for i, id := range newSeq {
		updated[i] = byID[id]
	}
	*list = updated

	s.commit()
	return true
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
