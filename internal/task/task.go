package task

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/foxerapp/foxer/internal/errors"
)

// Due pairs the free text the user typed with the concrete instant resolved
// from it. ParsedDate is always set: a missing time-of-day defaults to local
// midnight and a missing date defaults to today.
type Due struct {
	// OriginalInput is the raw text the due date was inferred from (possibly empty)
	OriginalInput string `json:"original_input"`

	// ParsedDate is the resolved due instant
	ParsedDate time.Time `json:"parsed_date"`
}

// Task represents a single to-do item.
type Task struct {
	// ID is a ULID that uniquely identifies this task
	ID string `json:"id"`

	// Title is the display text; never empty after trim
	Title string `json:"title"`

	// Notes is optional markdown body text
	Notes string `json:"notes,omitempty"`

	// Due is the resolved due date for this task
	Due Due `json:"due"`

	// Completed decides which collection the task lives in
	Completed bool `json:"completed"`

	// Focused marks the task currently highlighted in the UI (informational)
	Focused bool `json:"focused,omitempty"`

	// CreatedAt is when the task was created
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed on any mutation
	UpdatedAt time.Time `json:"updated_at"`
}

// NewID generates a new ULID.
func NewID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// New creates a task with a fresh ID and timestamps.
// Returns a validation error if the title trims to empty.
func New(title, notes string, due Due) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidation("title must not be empty")
	}

	id, err := NewID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now()
	if due.ParsedDate.IsZero() {
		due.ParsedDate = now
	}

	return &Task{
		ID:        id,
		Title:     title,
		Notes:     notes,
		Due:       due,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Duplicate returns a shallow copy of t with a new ID and fresh timestamps.
func (t *Task) Duplicate() (*Task, error) {
	id, err := NewID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	copy := *t
	copy.ID = id
	now := time.Now()
	copy.CreatedAt = now
	copy.UpdatedAt = now
	return &copy, nil
}

// ValidTitle reports whether a proposed title survives trimming.
func ValidTitle(title string) bool {
	return strings.TrimSpace(title) != ""
}

// MergeDueDate replaces only the calendar-date portion of t.Due.ParsedDate,
// keeping the existing time-of-day.
func (t *Task) MergeDueDate(year int, month time.Month, day int) {
	prev := t.Due.ParsedDate
	t.Due.ParsedDate = time.Date(year, month, day,
		prev.Hour(), prev.Minute(), prev.Second(), prev.Nanosecond(), prev.Location())
	t.UpdatedAt = time.Now()
}
