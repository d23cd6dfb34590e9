package jobs

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/planner"
)

const dailyNoteType = "Daily Update"

// Daily compares the current assignment set against the cached snapshot,
// summarizes anything new or changed, and writes the update to the task
// store. When nothing changed the job returns early and the snapshot is
// left as is.
func (r *Runner) Daily(ctx context.Context) error {
	log := r.jobLog("daily")

	snap, err := r.snapshots.Load()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	current, err := r.fetchAll(ctx, log)
	if err != nil {
		return err
	}

	changes := planner.DetectChanges(snap.Assignments, current)
	if changes.Empty() {
		// Stale snapshot persists on purpose; it is only replaced when
		// the diff found something.
		log.Info("no changes detected")
		return nil
	}

	log.WithFields(logrus.Fields{
		"new":     len(changes.New),
		"updated": len(changes.Updated),
	}).Info("changes detected")

	system, user := planner.DailyUpdatePrompts(changes)
	summary, err := r.backend.Complete(ctx, system, user)
	if err != nil {
		return fmt.Errorf("summarizing changes: %w", err)
	}

	title := fmt.Sprintf("Daily update %s", r.now().Format("Jan 2"))
	if err := r.store.AppendNote(ctx, title, dailyNoteType, summary); err != nil {
		return err
	}

	if err := r.snapshots.Save(current); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	log.Info("daily update written")
	return nil
}
