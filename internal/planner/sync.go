package planner

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/canvas"
	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/notion"
)

// minOverviewLength is the shortest stored overview considered usable.
// Anything shorter is regenerated on the next sync.
const minOverviewLength = 20

// TaskStore is the slice of the Notion client the synchronizer needs.
type TaskStore interface {
	QueryTasks(ctx context.Context) ([]notion.Task, error)
	CreateTask(ctx context.Context, t notion.Task) (notion.Task, error)
	UpdateTask(ctx context.Context, pageID string, t notion.Task) error
	UpdateUrgency(ctx context.Context, pageID, urgency string) error
}

// Completer is the slice of the completion backend the synchronizer needs.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// SyncReport counts the records touched by one sync pass.
type SyncReport struct {
	Created int
	Updated int
}

// Synchronizer reconciles Canvas assignments into the task store. One
// store row exists per assignment id; the id is recovered from each row's
// canonical URL.
type Synchronizer struct {
	store   TaskStore
	backend Completer
	delay   time.Duration
	dryRun  bool
	log     *logrus.Entry

	// now is swapped out by tests.
	now func() time.Time
}

// NewSynchronizer creates a synchronizer. delay is the fixed pause
// inserted between successive remote iterations of the assignment loop.
func NewSynchronizer(store TaskStore, backend Completer, delay time.Duration, log *logrus.Entry) *Synchronizer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Synchronizer{
		store:   store,
		backend: backend,
		delay:   delay,
		log:     log,
		now:     time.Now,
	}
}

// SetDryRun makes Sync compute and log its decisions without writing to
// the store.
func (s *Synchronizer) SetDryRun(dryRun bool) {
	s.dryRun = dryRun
}

// assignmentIDRe extracts the Canvas assignment id embedded in a
// canonical assignment URL (".../assignments/<digits>").
var assignmentIDRe = regexp.MustCompile(`/assignments/(\d+)`)

// ExternalID returns the assignment id embedded in a task's canonical
// URL, or "" when the URL does not carry one.
func ExternalID(url string) string {
	m := assignmentIDRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// buildTaskIndex maps assignment ids to existing store rows. Rows whose
// URL does not parse are excluded: they never match any assignment and
// are never cleaned up, a known gap in the matching policy.
func (s *Synchronizer) buildTaskIndex(tasks []notion.Task) map[string]notion.Task {
	index := make(map[string]notion.Task, len(tasks))
	for _, t := range tasks {
		id := ExternalID(t.URL)
		if id == "" {
			s.log.WithField("page_id", t.PageID).Debug("task URL has no assignment id, leaving unmatched")
			continue
		}
		index[id] = t
	}
	return index
}

// Sync reconciles the full assignment set against the task store, then
// sweeps every stored record to refresh stale urgency tiers. Store
// failures abort the run; overview-generation failures do not.
func (s *Synchronizer) Sync(ctx context.Context, assignments []canvas.Assignment) (SyncReport, error) {
	var report SyncReport

	existing, err := s.store.QueryTasks(ctx)
	if err != nil {
		return report, fmt.Errorf("querying existing tasks: %w", err)
	}
	index := s.buildTaskIndex(existing)

	for i, a := range assignments {
		if i > 0 && s.delay > 0 {
			time.Sleep(s.delay)
		}

		extID := strconv.FormatInt(a.ID, 10)
		urgency := Classify(a.DueAt, s.now())
		match, matched := index[extID]

		task := notion.Task{
			Name:    a.Name,
			Course:  courseLabel(a),
			Urgency: string(urgency),
			DueAt:   a.DueAt,
			URL:     a.HTMLURL,
		}

		if matched && len(match.Overview) >= minOverviewLength {
			task.Overview = match.Overview
		} else {
			task.Overview = s.generateOverview(ctx, a)
		}

		log := s.log.WithFields(logrus.Fields{
			"assignment_id": extID,
			"course":        a.CourseCode,
		})

		if s.dryRun {
			if matched {
				if taskUnchanged(match, task) {
					continue
				}
				log.Info("dry run: would update task")
				report.Updated++
			} else {
				log.Info("dry run: would create task")
				report.Created++
			}
			continue
		}

		if matched {
			if taskUnchanged(match, task) {
				log.Debug("task already up to date")
				continue
			}
			if err := s.store.UpdateTask(ctx, match.PageID, task); err != nil {
				return report, fmt.Errorf("updating task for assignment %s: %w", extID, err)
			}
			log.Info("updated task")
			report.Updated++
		} else {
			task.Done = false
			if _, err := s.store.CreateTask(ctx, task); err != nil {
				return report, fmt.Errorf("creating task for assignment %s: %w", extID, err)
			}
			log.Info("created task")
			report.Created++
		}
	}

	if !s.dryRun {
		if err := s.refreshUrgencies(ctx); err != nil {
			return report, err
		}
	}

	return report, nil
}

// generateOverview asks the backend for an overview, falling back to a
// deterministic template when generation fails. A dead backend must not
// abort the sync.
func (s *Synchronizer) generateOverview(ctx context.Context, a canvas.Assignment) string {
	overview, err := s.backend.Complete(ctx, overviewSystemPrompt, overviewPrompt(a))
	if err != nil {
		s.log.WithField("assignment_id", a.ID).WithError(err).Warn("overview generation failed, using fallback")
		return fallbackOverview(a)
	}
	return overview
}

// refreshUrgencies re-queries the store and recomputes the urgency of
// every record with a due date that is not marked done, patching only the
// records whose tier drifted since they were written.
func (s *Synchronizer) refreshUrgencies(ctx context.Context) error {
	tasks, err := s.store.QueryTasks(ctx)
	if err != nil {
		return fmt.Errorf("querying tasks for urgency refresh: %w", err)
	}

	now := s.now()
	for _, t := range tasks {
		if t.Done || t.DueAt == nil {
			continue
		}

		tier := Classify(t.DueAt, now)
		if string(tier) == t.Urgency {
			continue
		}

		if err := s.store.UpdateUrgency(ctx, t.PageID, string(tier)); err != nil {
			return fmt.Errorf("refreshing urgency of %s: %w", t.PageID, err)
		}
		s.log.WithFields(logrus.Fields{
			"page_id": t.PageID,
			"from":    t.Urgency,
			"to":      tier,
		}).Info("refreshed urgency")
	}

	return nil
}

// taskUnchanged reports whether the stored row already carries the target
// state, making a second sync pass a no-op for it. The completion flag is
// not compared; it is never written on update.
func taskUnchanged(stored, target notion.Task) bool {
	return stored.Name == target.Name &&
		stored.Course == target.Course &&
		stored.Overview == target.Overview &&
		stored.Urgency == target.Urgency &&
		stored.URL == target.URL &&
		timesEqual(stored.DueAt, target.DueAt)
}

func courseLabel(a canvas.Assignment) string {
	if a.CourseName != "" {
		return a.CourseName
	}
	return a.CourseCode
}
