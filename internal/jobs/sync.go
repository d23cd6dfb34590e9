package jobs

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/planner"
)

// Sync runs the full task synchronizer: fetch every assignment, reconcile
// each into the task store, then refresh stale urgency tiers across all
// stored records.
func (r *Runner) Sync(ctx context.Context, dryRun bool) error {
	log := r.jobLog("sync")

	assignments, err := r.fetchAll(ctx, log)
	if err != nil {
		return err
	}

	s := planner.NewSynchronizer(r.store, r.backend, r.cfg.Sync.RequestDelay, log)
	s.SetDryRun(dryRun)

	report, err := s.Sync(ctx, assignments)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"created": report.Created,
		"updated": report.Updated,
	}).Info("sync complete")

	return nil
}
