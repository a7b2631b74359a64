package task

import (
	"testing"
	"time"

	"github.com/foxerapp/foxer/internal/errors"
)

func TestNew(t *testing.T) {
	due := Due{OriginalInput: "tomorrow", ParsedDate: time.Now().Add(24 * time.Hour)}
	tk, err := New("  Buy milk  ", "", due)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if tk.Title != "Buy milk" {
		t.Errorf("Title = %q, want %q", tk.Title, "Buy milk")
	}
	if len(tk.ID) != 26 {
		t.Errorf("ID length = %d, want 26 (ULID)", len(tk.ID))
	}
	if tk.Completed {
		t.Error("new task should not be completed")
	}
	if tk.Due.OriginalInput != "tomorrow" {
		t.Errorf("Due.OriginalInput = %q", tk.Due.OriginalInput)
	}
}

func TestNewEmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := New(title, "", Due{})
		if !errors.Is(err, errors.ErrValidation) {
			t.Errorf("New(%q) error = %v, want VALIDATION", title, err)
		}
	}
}

func TestNewZeroDueDefaultsToNow(t *testing.T) {
	before := time.Now()
	tk, err := New("x", "", Due{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if tk.Due.ParsedDate.Before(before) || tk.Due.ParsedDate.After(time.Now()) {
		t.Errorf("ParsedDate = %v, want roughly now", tk.Due.ParsedDate)
	}
}

func TestDuplicate(t *testing.T) {
	tk, err := New("original", "some notes", Due{ParsedDate: time.Now()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	dup, err := tk.Duplicate()
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if dup.ID == tk.ID {
		t.Error("duplicate must get a new ID")
	}
	if dup.Title != tk.Title || dup.Notes != tk.Notes {
		t.Error("duplicate should copy title and notes")
	}
	if !dup.Due.ParsedDate.Equal(tk.Due.ParsedDate) {
		t.Error("duplicate should copy the due date")
	}
}

func TestMergeDueDate(t *testing.T) {
	// Existing due: 2025-01-05 17:00 UTC; new calendar date 2025-01-10.
	tk := &Task{
		Due: Due{ParsedDate: time.Date(2025, 1, 5, 17, 0, 0, 0, time.UTC)},
	}
	tk.MergeDueDate(2025, time.January, 10)

	want := time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC)
	if !tk.Due.ParsedDate.Equal(want) {
		t.Errorf("ParsedDate = %v, want %v (time-of-day preserved)", tk.Due.ParsedDate, want)
	}
}

func TestClassifyUrgency(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		due       time.Time
		completed bool
		want      Urgency
	}{
		{"overdue", now.Add(-time.Hour), false, UrgencyLate},
		{"due in an hour", now.Add(time.Hour), false, UrgencyNear},
		{"due in exactly a day", now.Add(24 * time.Hour), false, UrgencyNear},
		{"due in two days", now.Add(48 * time.Hour), false, UrgencyNormal},
		{"completed overrides overdue", now.Add(-time.Hour), true, UrgencyCompleted},
		{"completed overrides future", now.Add(72 * time.Hour), true, UrgencyCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := &Task{Due: Due{ParsedDate: tt.due}, Completed: tt.completed}
			if got := ClassifyUrgency(tk, now); got != tt.want {
				t.Errorf("ClassifyUrgency = %q, want %q", got, tt.want)
			}
		})
	}
}
