// Package store owns the two ordered task collections. A task lives in
// exactly one of active or completed at any time; order within each is
// user-meaningful and persisted. All mutations are synchronous in-memory
// transformations; durability happens through a debounced snapshot flusher
// and change events go out on the bus.
package store

import (
	"log"
	"sync"

	"github.com/foxerapp/foxer/internal/bus"
	"github.com/foxerapp/foxer/internal/persist"
	"github.com/foxerapp/foxer/internal/task"
)

// TopicChanged is the bus topic published after every committed mutation.
// The payload is the store revision.
const TopicChanged = "tasks.changed"

// Store holds the active and completed collections.
type Store struct {
	mu        sync.RWMutex
	active    []task.Task
	completed []task.Task
	revision  uint64

	flusher *persist.Flusher
	events  *bus.Bus
}

// New creates an empty store. flusher and events may be nil (pure in-memory
// operation, used heavily in tests).
func New(flusher *persist.Flusher, events *bus.Bus) *Store {
	return &Store{flusher: flusher, events: events}
}

// Load replaces both collections from the adapter. Absent or malformed
// snapshots fall back to empty collections; a read error is logged and
// likewise degrades to empty (fail-open, never fail-closed to a crash).
// A torn snapshot pair can list the same id under both keys; the active
// copy wins and the duplicate is dropped.
func (s *Store) Load(adapter persist.Adapter) {
	active := loadCollection(adapter, persist.KeyActive, false)
	completed := loadCollection(adapter, persist.KeyCompleted, true)
	completed = dropShared(active, completed)

	s.mu.Lock()
	s.active = active
	s.completed = completed
	s.mu.Unlock()
}

// dropShared removes from completed every id that also appears in active,
// restoring the two-collection disjointness invariant.
func dropShared(active, completed []task.Task) []task.Task {
	if len(active) == 0 || len(completed) == 0 {
		return completed
	}

	inActive := make(map[string]bool, len(active))
	for _, t := range active {
		inActive[t.ID] = true
	}

	kept := completed[:0]
	for _, t := range completed {
		if inActive[t.ID] {
			log.Printf("WARNING: task %q present in both collections, keeping the active copy", t.ID)
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

func loadCollection(adapter persist.Adapter, key string, completed bool) []task.Task {
	tasks, ok, err := adapter.Load(key)
	if err != nil {
		log.Printf("WARNING: loading %q failed, starting empty: %v", key, err)
		return nil
	}
	if !ok {
		return nil
	}
	// The collection a task sits in is authoritative for its flag.
	for i := range tasks {
		tasks[i].Completed = completed
	}
	return tasks
}

// Active returns a copy of the active collection in order.
func (s *Store) Active() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]task.Task(nil), s.active...)
}

// Completed returns a copy of the completed collection in order.
func (s *Store) Completed() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]task.Task(nil), s.completed...)
}

// Get returns the task with the given id from either collection.
func (s *Store) Get(id string) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.active, id); i >= 0 {
		return s.active[i], true
	}
	if i := indexOf(s.completed, id); i >= 0 {
		return s.completed[i], true
	}
	return task.Task{}, false
}

// Has reports whether id exists in either collection.
func (s *Store) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Revision returns the current mutation counter.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// commit bumps the revision, hands the latest snapshots to the flusher, and
// publishes a change event. Caller must hold s.mu.
func (s *Store) commit() {
	s.revision++
	if s.flusher != nil {
		s.flusher.Enqueue(persist.KeyActive, append([]task.Task(nil), s.active...))
		s.flusher.Enqueue(persist.KeyCompleted, append([]task.Task(nil), s.completed...))
	}
	if s.events != nil {
		s.events.Publish(TopicChanged, s.revision)
	}
}

func indexOf(tasks []task.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func removeAt(tasks []task.Task, i int) []task.Task {
	return append(tasks[:i:i], tasks[i+1:]...)
}
