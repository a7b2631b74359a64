// Package persist is the durable snapshot layer for the two task
// collections. The store talks to an abstract adapter; the production
// adapter keeps one JSON snapshot row per collection in SQLite. Reads and
// writes fail open: a broken store never corrupts or blocks the in-memory
// model.
package persist

import "github.com/foxerapp/foxer/internal/task"

// Storage keys, one per collection.
const (
	KeyActive    = "tasks.active"
	KeyCompleted = "tasks.completed"
)

// Adapter loads and saves one collection snapshot per key.
type Adapter interface {
	// Load returns the stored collection for key. ok is false when nothing
	// usable is stored (absent or malformed), which callers treat as an
	// empty collection.
	Load(key string) (tasks []task.Task, ok bool, err error)

	// Save replaces the stored collection for key.
	Save(key string, tasks []task.Task) error
}
