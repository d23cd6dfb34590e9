// Package jobs holds the three batch jobs: the weekly planner, the daily
// change detector, and the full task synchronizer. Each job run is a
// single logical thread of control; remote calls are sequential and the
// only rate-limit handling is the synchronizer's fixed inter-request
// delay.
package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/canvas"
	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/config"
	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/llm"
	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/notion"
	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/planner"
	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/snapshot"
)

// AssignmentSource is the slice of the Canvas client the jobs consume.
type AssignmentSource interface {
	ListActiveCourses(ctx context.Context) ([]canvas.Course, error)
	ListAssignments(ctx context.Context, courseID int64) ([]canvas.Assignment, error)
}

// TaskStore is the slice of the Notion client the jobs consume: the
// synchronizer's record operations plus free-form note pages.
type TaskStore interface {
	planner.TaskStore
	AppendNote(ctx context.Context, title, noteType, content string) error
}

// Runner owns the collaborators shared by all jobs. Built once from the
// configuration; no job reads the environment.
type Runner struct {
	cfg       *config.Config
	source    AssignmentSource
	store     TaskStore
	backend   llm.Backend
	snapshots *snapshot.Store
	log       *logrus.Logger

	now func() time.Time
}

// NewRunner wires the real collaborators from the configuration. An
// unknown completion-backend selector fails here, before any job starts.
func NewRunner(cfg *config.Config, log *logrus.Logger) (*Runner, error) {
	backend, err := llm.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:       cfg,
		source:    canvas.NewClient(cfg.Canvas.BaseURL, cfg.Canvas.Token),
		store:     notion.NewClient(cfg.Notion.Token, cfg.Notion.DatabaseID),
		backend:   backend,
		snapshots: snapshot.NewStore(cfg.Sync.SnapshotPath),
		log:       log,
		now:       time.Now,
	}, nil
}

// jobLog returns a log entry stamped with the job name and a fresh run id.
func (r *Runner) jobLog(job string) *logrus.Entry {
	return r.log.WithFields(logrus.Fields{
		"job":    job,
		"run_id": uuid.New().String(),
	})
}

// fetchAll collects assignments from every active course, annotating each
// with its course name and code. A failed per-course fetch degrades to an
// empty list for that course; a failed course list is fatal.
func (r *Runner) fetchAll(ctx context.Context, log *logrus.Entry) ([]canvas.Assignment, error) {
	courses, err := r.source.ListActiveCourses(ctx)
	if err != nil {
		return nil, err
	}

	var all []canvas.Assignment
	for _, course := range courses {
		assignments, err := r.source.ListAssignments(ctx, course.ID)
		if err != nil {
			log.WithField("course", course.CourseCode).WithError(err).Warn("course fetch failed, skipping")
			continue
		}
		for i := range assignments {
			assignments[i].CourseName = course.Name
			assignments[i].CourseCode = course.CourseCode
		}
		all = append(all, assignments...)
	}

	log.WithFields(logrus.Fields{
		"courses":     len(courses),
		"assignments": len(all),
	}).Info("fetched assignments")

	return all, nil
}

// RunAll runs the weekly, daily and sync jobs in sequence, stopping at
// the first failure.
func (r *Runner) RunAll(ctx context.Context) error {
	if err := r.Weekly(ctx); err != nil {
		return err
	}
	if err := r.Daily(ctx); err != nil {
		return err
	}
	return r.Sync(ctx, false)
}
