package task

import "time"

// Urgency classifies how pressing a task's due date is, for display only.
type Urgency string

const (
	UrgencyLate      Urgency = "late"      // due date has passed
	UrgencyNear      Urgency = "near"      // due within one calendar day
	UrgencyNormal    Urgency = "normal"    // due later than that
	UrgencyCompleted Urgency = "completed" // completed tasks, regardless of date
)

// ClassifyUrgency maps a task's due date to an urgency class relative to now.
// Completed always wins over the date comparison.
func ClassifyUrgency(t *Task, now time.Time) Urgency {
	if t.Completed {
		return UrgencyCompleted
	}
	diff := t.Due.ParsedDate.Sub(now)
	if diff < 0 {
		return UrgencyLate
	}
	if diff <= 24*time.Hour {
		return UrgencyNear
	}
	return UrgencyNormal
}
