package persist

import (
	"log"
	"sync"
	"time"

	"github.com/foxerapp/foxer/internal/task"
)

// Flusher debounces snapshot writes. Rapid successive mutations coalesce
// into one write per key; each write always carries the latest snapshot, so
// last-write-wins follows logical mutation order. A failed write degrades
// to a logged warning; the in-memory model is unaffected.
type Flusher struct {
	adapter  Adapter
	debounce time.Duration

	mu      sync.Mutex
	pending map[string][]task.Task
	timer   *time.Timer

	// writeMu serializes drain+write as one unit. It must be taken before
	// draining pending: a flush that drained first and then waited for the
	// writer could land a stale snapshot after a newer one.
	writeMu sync.Mutex
}

// NewFlusher creates a flusher writing through adapter after the debounce
// window.
func NewFlusher(adapter Adapter, debounce time.Duration) *Flusher {
	return &Flusher{
		adapter:  adapter,
		debounce: debounce,
		pending:  make(map[string][]task.Task),
	}
}

// Enqueue records the latest snapshot for key and (re)starts the debounce
// timer. The slice is the caller's snapshot copy; the flusher takes
// ownership.
func (f *Flusher) Enqueue(key string, tasks []task.Task) {
	f.mu.Lock()
	f.pending[key] = tasks
	if f.timer == nil {
		f.timer = time.AfterFunc(f.debounce, f.flush)
	} else {
		f.timer.Reset(f.debounce)
	}
	f.mu.Unlock()
}

// Flush writes everything pending immediately. Used on shutdown and in
// tests; the debounce timer calls the same path.
func (f *Flusher) Flush() {
	f.flush()
}

func (f *Flusher) flush() {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.mu.Lock()
	batch := f.pending
	f.pending = make(map[string][]task.Task)
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	for key, tasks := range batch {
		if err := f.adapter.Save(key, tasks); err != nil {
			log.Printf("WARNING: snapshot write failed for %q (keeping in-memory state): %v", key, err)
		}
	}
}
