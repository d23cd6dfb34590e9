package planner

import "time"

// Urgency buckets an assignment by time pressure. The tier is derived,
// never authoritative: it is recomputed from the due date on every run.
type Urgency string

const (
	Overdue  Urgency = "Overdue"
	Urgent   Urgency = "Urgent"
	ThisWeek Urgency = "ThisWeek"
	Upcoming Urgency = "Upcoming"
)

// Classify maps a due timestamp to an urgency tier relative to now.
// Cutoffs are fractional days with 2 and 7 as inclusive upper bounds; an
// assignment without a due date is Upcoming. Callers skip completed tasks
// before classifying; a done task keeps whatever tier it has.
func Classify(due *time.Time, now time.Time) Urgency {
	if due == nil {
		return Upcoming
	}

	daysUntil := due.Sub(now).Hours() / 24

	switch {
	case daysUntil < 0:
		return Overdue
	case daysUntil <= 2:
		return Urgent
	case daysUntil <= 7:
		return ThisWeek
	default:
		return Upcoming
	}
}
