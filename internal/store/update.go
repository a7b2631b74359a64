package store

import (
	"strings"
	"time"

	"github.com/foxerapp/foxer/internal/errors"
	"github.com/foxerapp/foxer/internal/task"
)

// UpdateTitle sets a task's title. A title that trims to empty is rejected
// with a validation error and the stored title is left as it was, so the UI
// can revert the displayed value. A missing id reports not-found.
func (s *Store) UpdateTitle(id, newTitle string) error {
	trimmed := strings.TrimSpace(newTitle)
	if trimmed == "" {
		return errors.NewValidation("title must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return errors.NewNotFound(id)
	}

	t.Title = trimmed
	t.UpdatedAt = time.Now()
	s.commit()
	return nil
}

// UpdateNotes replaces a task's markdown notes.
func (s *Store) UpdateNotes(id, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return errors.NewNotFound(id)
	}

	t.Notes = notes
	t.UpdatedAt = time.Now()
	s.commit()
	return nil
}

// UpdateDueDate merges a new calendar date onto the task's existing due
// instant, preserving the time-of-day. A missing id is a silent no-op.
func (s *Store) UpdateDueDate(id string, year int, month time.Month, day int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return false
	}

	t.MergeDueDate(year, month, day)
	s.commit()
	return true
}

// SetFocused flips the informational focus flag.
func (s *Store) SetFocused(id string, focused bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return false
	}

	t.Focused = focused
	t.UpdatedAt = time.Now()
	s.commit()
	return true
}

// find returns a pointer into whichever collection holds id.
// Caller must hold s.mu.
func (s *Store) find(id string) *task.Task {
	if i := indexOf(s.active, id); i >= 0 {
		return &s.active[i]
	}
	if i := indexOf(s.completed, id); i >= 0 {
		return &s.completed[i]
	}
	return nil
}
