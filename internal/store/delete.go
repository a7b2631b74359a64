package store

// Delete removes the task from the indicated collection. The removal is
// synchronous and immediate; any animate-then-commit staging is the
// interaction layer's job. A missing id is a silent no-op (returns false).
func (s *Store) Delete(id string, fromCompleted bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := &s.active
	if fromCompleted {
		list = &s.completed
	}

	i := indexOf(*list, id)
	if i < 0 {
		return false
	}

	*list = removeAt(*list, i)
	s.commit()
	return true
}
