package store

import "github.com/foxerapp/foxer/internal/task"

// Add creates a task and prepends it to the active collection.
// Returns a validation error when the title trims to empty; the collections
// are left untouched in that case.
func (s *Store) Add(title, notes string, due task.Due) (*task.Task, error) {
	t, err := task.New(title, notes, due)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = append([]task.Task{*t}, s.active...)
	s.commit()
	return t, nil
}
