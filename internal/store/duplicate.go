package store

import "github.com/foxerapp/foxer/internal/task"

// Duplicate inserts a shallow copy of the task, with a new id and fresh
// timestamps, directly after the source item in the same collection.
// A missing id is a silent no-op (ok=false).
func (s *Store) Duplicate(id string, fromCompleted bool) (*task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := &s.active
	if fromCompleted {
		list = &s.completed
	}

	i := indexOf(*list, id)
	if i < 0 {
		return nil, false
	}

	src := (*list)[i]
	dup, err := src.Duplicate()
	if err != nil {
		return nil, false
	}

	updated := make([]task.Task, 0, len(*list)+1)
	updated = append(updated, (*list)[:i+1]...)
	updated = append(updated, *dup)
	updated = append(updated, (*list)[i+1:]...)
	*list = updated

	s.commit()
	return dup, true
}
