package planner

import (
	"time"

	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/canvas"
)

// Changes holds the disjoint outcome of comparing two assignment
// snapshots. Assignments that disappeared upstream are deliberately not
// surfaced; the detector only reports additions and modifications.
type Changes struct {
	New     []canvas.Assignment
	Updated []canvas.Assignment
}

// Empty reports whether the comparison found nothing new or updated.
func (c Changes) Empty() bool {
	return len(c.New) == 0 && len(c.Updated) == 0
}

// DetectChanges compares the previous snapshot against the current fetch.
// An assignment is new when its id is absent from previous, updated when
// its due timestamp or points-possible differ, and unchanged otherwise.
// Output order follows current. Total: missing fields compare as absent,
// with both-absent counting as equal.
func DetectChanges(previous, current []canvas.Assignment) Changes {
	prevByID := make(map[int64]canvas.Assignment, len(previous))
	for _, a := range previous {
		prevByID[a.ID] = a
	}

	var changes Changes
	for _, a := range current {
		prev, ok := prevByID[a.ID]
		if !ok {
			changes.New = append(changes.New, a)
			continue
		}
		if !timesEqual(prev.DueAt, a.DueAt) || !pointsEqual(prev.PointsPossible, a.PointsPossible) {
			changes.Updated = append(changes.Updated, a)
		}
	}

	return changes
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func pointsEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
