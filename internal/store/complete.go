package store

import (
	"time"

	"github.com/foxerapp/foxer/internal/task"
)

// SetCompleted moves a task between the two collections, flipping its flag.
// Completing inserts at the front of completed; un-completing appends to the
// back of active, so most-recently-completed surfaces first.
// A missing id or an already-satisfied state is a no-op (returns false).
func (s *Store) SetCompleted(id string, completed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if completed {
		i := indexOf(s.active, id)
		if i < 0 {
			return false
		}
		t := s.active[i]
		s.active = removeAt(s.active, i)
		t.Completed = true
		t.UpdatedAt = time.Now()
		s.completed = append([]task.Task{t}, s.completed...)
	} else {
		i := indexOf(s.completed, id)
		if i < 0 {
			return false
		}
		t := s.completed[i]
		s.completed = removeAt(s.completed, i)
		t.Completed = false
		t.UpdatedAt = time.Now()
		s.active = append(s.active, t)
	}

	s.commit()
	return true
}

// MoveGroup moves every listed task that belongs to the source collection
// into the destination as one batch, preserving their relative order within
// the batch. Used for cross-collection group drops. Returns how many tasks
// moved.
func (s *Store) MoveGroup(ids []string, toCompleted bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, dst := &s.active, &s.completed
	if !toCompleted {
		src, dst = &s.completed, &s.active
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	// Split the source in one pass so the batch keeps source order.
	batch := make([]task.Task, 0, len(ids))
	remain := make([]task.Task, 0, len(*src))
	now := time.Now()
	for _, t := range *src {
		if wanted[t.ID] {
			t.Completed = toCompleted
			t.UpdatedAt = now
			batch = append(batch, t)
		} else {
			remain = append(remain, t)
		}
	}
	if len(batch) == 0 {
		return 0
	}

	*src = remain
	if toCompleted {
		*dst = append(batch, *dst...)
	} else {
		*dst = append(*dst, batch...)
	}

	s.commit()
	return len(batch)
}
