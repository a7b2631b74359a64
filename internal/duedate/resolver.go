// Package duedate keeps a single authoritative (date, time) pair in sync
// with three independent signals: live natural-language parsing of the
// creation input, an explicit date-picker pick, and an explicit time-picker
// pick. Manual picks win over inference for the rest of the input session.
package duedate

import (
	"strings"
	"time"

	"github.com/foxerapp/foxer/internal/task"
)

// Clock is a time-of-day.
type Clock struct {
	Hour   int
	Minute int
}

// Resolver merges the three due-date signals for one creation-input session.
type Resolver struct {
	parser Parser
	now    func() time.Time

	naturalDate   *time.Time // last date inferred from text, midnight-normalized
	manualDateSet bool
	manualTimeSet bool
	selectedDate  *time.Time // midnight-normalized
	selectedTime  *Clock
}

// NewResolver creates a resolver using the given parser.
func NewResolver(parser Parser) *Resolver {
	return &Resolver{parser: parser, now: time.Now}
}

// SetText re-parses the full current input text. Called on every keystroke;
// parsing is from scratch, never incremental. Inference only ever touches
// axes that were not manually set. Clearing the text to empty ends the
// session and resets the manual flags.
func (r *Resolver) SetText(text string) {
	if strings.TrimSpace(text) == "" {
		r.Reset()
		return
	}

	matches := r.parser.Parse(text, r.now())
	if len(matches) == 0 {
		r.naturalDate = nil
		if !r.manualDateSet {
			r.selectedDate = nil
		}
		if !r.manualTimeSet {
			r.selectedTime = nil
		}
		return
	}

	// First match wins.
	m := matches[0]
	d := midnightOf(m.Time)
	r.naturalDate = &d

	if !r.manualDateSet {
		r.selectedDate = &d
	}
	if !r.manualTimeSet {
		if m.HasClock {
			r.selectedTime = &Clock{Hour: m.Time.Hour(), Minute: m.Time.Minute()}
		} else {
			r.selectedTime = nil
		}
	}
}

// PickDate records an explicit date-picker choice. It overwrites the date
// axis unconditionally and pins it against further inference.
func (r *Resolver) PickDate(year int, month time.Month, day int) {
	d := time.Date(year, month, day, 0, 0, 0, 0, r.now().Location())
	r.selectedDate = &d
	r.manualDateSet = true
}

// PickTime records an explicit time-picker choice, pinning the time axis.
func (r *Resolver) PickTime(hour, minute int) {
	r.selectedTime = &Clock{Hour: hour, Minute: minute}
	r.manualTimeSet = true
}

// Reset clears all state for a fresh input session. Call after the task is
// created; SetText("") calls it for the cleared-input case.
func (r *Resolver) Reset() {
	r.naturalDate = nil
	r.manualDateSet = false
	r.manualTimeSet = false
	r.selectedDate = nil
	r.selectedTime = nil
}

// SelectedDate returns the resolved date axis, if any.
func (r *Resolver) SelectedDate() (time.Time, bool) {
	if r.selectedDate == nil {
		return time.Time{}, false
	}
	return *r.selectedDate, true
}

// SelectedTime returns the resolved time axis, if any.
func (r *Resolver) SelectedTime() (Clock, bool) {
	if r.selectedTime == nil {
		return Clock{}, false
	}
	return *r.selectedTime, true
}

// Build constructs the due value for the task being created:
// date+time combined when both are set, midnight when only a date is set,
// today's date when only a time is set, and the current instant when
// neither is set.
func (r *Resolver) Build(originalInput string) task.Due {
	now := r.now()

	var instant time.Time
	switch {
	case r.selectedDate != nil:
		d := *r.selectedDate
		if r.selectedTime != nil {
			instant = time.Date(d.Year(), d.Month(), d.Day(),
				r.selectedTime.Hour, r.selectedTime.Minute, 0, 0, d.Location())
		} else {
			instant = d
		}
	case r.selectedTime != nil:
		instant = time.Date(now.Year(), now.Month(), now.Day(),
			r.selectedTime.Hour, r.selectedTime.Minute, 0, 0, now.Location())
	default:
		instant = now
	}

	return task.Due{OriginalInput: originalInput, ParsedDate: instant}
}

func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
