package store

import (
	"testing"
)

func TestCompletionOrderingAsymmetry(t *testing.T) {
	s := New(nil, nil)
	ids := seed(t, s, "A", "B", "C") // active: C, B, A
	idA, idB := ids[0], ids[1]

	// Complete A then B: most recent first.
	s.SetCompleted(idA, true)
	s.SetCompleted(idB, true)

	completed := s.Completed()
	if len(completed) != 2 || completed[0].ID != idB || completed[1].ID != idA {
		t.Fatalf("completed order = %v, want [B, A]", titlesOf(s))
	}

	// Uncomplete B: appended to the back of active.
	s.SetCompleted(idB, false)

	active := s.Active()
	if active[len(active)-1].ID != idB {
		t.Errorf("uncompleted task should land last in active, got %v", activeTitles(s))
	}
}

func titlesOf(s *Store) []string {
	tasks := s.Completed()
	out := make([]string, len(tasks))
	for i, tk := range tasks {
		out[i] = tk.Title
	}
	return out
}

func TestSetCompletedMissingIsNoOp(t *testing.T) {
	s := New(nil, nil)
	seed(t, s, "a")
	before := s.Revision()

	if s.SetCompleted("ghost", true) {
		t.Error("SetCompleted(ghost) should report false")
	}
	if s.Revision() != before {
		t.Error("no-op must not bump the revision")
	}
}

func TestSetCompletedAlreadyThere(t *testing.T) {
	s := New(nil, nil)
	ids := seed(t, s, "a")

	// Task is active; asking to uncomplete it finds nothing in completed.
	if s.SetCompleted(ids[0], false) {
		t.Error("uncompleting an active task should be a no-op")
	}
}

func TestMoveGroupToCompleted(t *testing.T) {
	s := New(nil, nil)
	ids := seed(t, s, "a", "b", "c", "d") // active: d, c, b, a
	idA, idC := ids[0], ids[2]

	moved := s.MoveGroup([]string{idC, idA}, true)
	if moved != 2 {
		t.Fatalf("moved = %d, want 2", moved)
	}

	// Batch is prepended, keeping source (active) relative order: c before a.
	completed := s.Completed()
	if completed[0].ID != idC || completed[1].ID != idA {
		t.Errorf("completed = %v, want [c, a, ...]", titlesOf(s))
	}
	for _, tk := range completed {
		if !tk.Completed {
			t.Errorf("task %s should have Completed=true", tk.ID)
		}
	}
	if len(s.Active()) != 2 {
		t.Errorf("active should have 2 tasks left, got %v", activeTitles(s))
	}
}

func TestMoveGroupBackToActive(t *testing.T) {
	s := New(nil, nil)
	ids := seed(t, s, "a", "b", "c")
	s.MoveGroup(ids, true) // everything completed

	moved := s.MoveGroup([]string{ids[0], ids[1]}, false)
	if moved != 2 {
		t.Fatalf("moved = %d, want 2", moved)
	}

	// Batch is appended to active, relative order preserved.
	active := s.Active()
	if len(active) != 2 {
		t.Fatalf("active = %v", activeTitles(s))
	}
	for _, tk := range active {
		if tk.Completed {
			t.Errorf("task %s should have Completed=false", tk.ID)
		}
	}
}

func TestMoveGroupIgnoresForeignIDs(t *testing.T) {
	s := New(nil, nil)
	ids := seed(t, s, "a", "b")
	before := s.Revision()

	// None of these ids are in the source collection.
	if moved := s.MoveGroup([]string{"x", "y"}, true); moved != 0 {
		t.Errorf("moved = %d, want 0", moved)
	}
	if s.Revision() != before {
		t.Error("no-op must not bump the revision")
	}

	// Mixed batch: only the member of the source collection moves.
	if moved := s.MoveGroup([]string{ids[0], "ghost"}, true); moved != 1 {
		t.Errorf("moved = %d, want 1", moved)
	}
}
