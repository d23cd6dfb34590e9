package jobs

import (
	"context"
	"fmt"

	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/planner"
)

const weeklyNoteType = "Weekly Plan"

// Weekly fetches every assignment, groups them by urgency, and asks the
// completion backend for a plan for the coming week, written to the task
// store as a note page.
func (r *Runner) Weekly(ctx context.Context) error {
	log := r.jobLog("weekly")

	assignments, err := r.fetchAll(ctx, log)
	if err != nil {
		return err
	}

	system, user := planner.WeeklyPlanPrompts(assignments, r.now())
	plan, err := r.backend.Complete(ctx, system, user)
	if err != nil {
		return fmt.Errorf("generating weekly plan: %w", err)
	}

	title := fmt.Sprintf("Weekly plan, week of %s", r.now().Format("Jan 2"))
	if err := r.store.AppendNote(ctx, title, weeklyNoteType, plan); err != nil {
		return err
	}

	log.Info("weekly plan written")
	return nil
}
