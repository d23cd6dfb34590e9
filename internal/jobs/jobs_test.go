package jobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/canvas"
	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/config"
	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/notion"
	"github.com/MateusSousaSantos/CanvasAiPlanner/internal/snapshot"
)

var jobNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type fakeSource struct {
	courses     []canvas.Course
	assignments map[int64][]canvas.Assignment
	failCourse  int64
	failList    bool
}

func (f *fakeSource) ListActiveCourses(ctx context.Context) ([]canvas.Course, error) {
	if f.failList {
		return nil, fmt.Errorf("canvas unavailable")
	}
	return f.courses, nil
}

func (f *fakeSource) ListAssignments(ctx context.Context, courseID int64) ([]canvas.Assignment, error) {
	if courseID == f.failCourse {
		return nil, fmt.Errorf("course fetch failed")
	}
	return f.assignments[courseID], nil
}

type note struct {
	title    string
	noteType string
	content  string
}

type fakeJobStore struct {
	tasks  []notion.Task
	nextID int
	notes  []note
}

func (f *fakeJobStore) QueryTasks(ctx context.Context) ([]notion.Task, error) {
	out := make([]notion.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeJobStore) CreateTask(ctx context.Context, t notion.Task) (notion.Task, error) {
	f.nextID++
	t.PageID = fmt.Sprintf("page-%d", f.nextID)
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeJobStore) UpdateTask(ctx context.Context, pageID string, t notion.Task) error {
	for i := range f.tasks {
		if f.tasks[i].PageID == pageID {
			t.PageID = pageID
			f.tasks[i] = t
			return nil
		}
	}
	return fmt.Errorf("no such page %s", pageID)
}

func (f *fakeJobStore) UpdateUrgency(ctx context.Context, pageID, urgency string) error {
	return nil
}

func (f *fakeJobStore) AppendNote(ctx context.Context, title, noteType, content string) error {
	f.notes = append(f.notes, note{title, noteType, content})
	return nil
}

type fakeBackend struct {
	reply      string
	fail       bool
	lastSystem string
	lastUser   string
}

func (f *fakeBackend) Complete(ctx context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	if f.fail {
		return "", fmt.Errorf("backend down")
	}
	return f.reply, nil
}

func (f *fakeBackend) Name() string { return "fake" }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestRunner(t *testing.T, source *fakeSource, store *fakeJobStore, backend *fakeBackend) *Runner {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Sync.RequestDelay = 0
	cfg.Sync.SnapshotPath = filepath.Join(t.TempDir(), "snapshot.json")

	return &Runner{
		cfg:       cfg,
		source:    source,
		store:     store,
		backend:   backend,
		snapshots: snapshot.NewStore(cfg.Sync.SnapshotPath),
		log:       quietLogger(),
		now:       func() time.Time { return jobNow },
	}
}

func dueIn(d time.Duration) *time.Time {
	t := jobNow.Add(d)
	return &t
}

func twoCoursesSource() *fakeSource {
	return &fakeSource{
		courses: []canvas.Course{
			{ID: 5, Name: "Algorithms", CourseCode: "CS301"},
			{ID: 6, Name: "Databases", CourseCode: "CS305"},
		},
		assignments: map[int64][]canvas.Assignment{
			5: {{ID: 4821, Name: "Homework 3", DueAt: dueIn(24 * time.Hour), HTMLURL: "https://canvas.example.com/courses/5/assignments/4821"}},
			6: {{ID: 7001, Name: "Lab 2", DueAt: dueIn(5 * 24 * time.Hour), HTMLURL: "https://canvas.example.com/courses/6/assignments/7001"}},
		},
	}
}

func TestFetchAllAnnotatesCourses(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, twoCoursesSource(), &fakeJobStore{}, &fakeBackend{reply: "plan"})

	all, err := r.fetchAll(context.Background(), r.jobLog("test"))
	if err != nil {
		t.Fatalf("fetchAll failed: %v", err)
	}

	if len(all) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(all))
	}
	if all[0].CourseCode != "CS301" || all[0].CourseName != "Algorithms" {
		t.Errorf("assignment not annotated with course: %+v", all[0])
	}
}

func TestFetchAllDegradesPerCourse(t *testing.T) {
	t.Parallel()

	source := twoCoursesSource()
	source.failCourse = 5
	r := newTestRunner(t, source, &fakeJobStore{}, &fakeBackend{reply: "plan"})

	all, err := r.fetchAll(context.Background(), r.jobLog("test"))
	if err != nil {
		t.Fatalf("a single failed course must not be fatal: %v", err)
	}
	if len(all) != 1 || all[0].ID != 7001 {
		t.Errorf("expected only the healthy course's assignments, got %+v", all)
	}
}

func TestFetchAllCourseListFailureIsFatal(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, &fakeSource{failList: true}, &fakeJobStore{}, &fakeBackend{reply: "plan"})

	if _, err := r.fetchAll(context.Background(), r.jobLog("test")); err == nil {
		t.Fatal("expected course list failure to propagate")
	}
}

func TestWeeklyWritesPlanNote(t *testing.T) {
	t.Parallel()

	store := &fakeJobStore{}
	backend := &fakeBackend{reply: "Start with Homework 3."}
	r := newTestRunner(t, twoCoursesSource(), store, backend)

	if err := r.Weekly(context.Background()); err != nil {
		t.Fatalf("Weekly failed: %v", err)
	}

	if len(store.notes) != 1 {
		t.Fatalf("expected one note, got %d", len(store.notes))
	}
	if store.notes[0].noteType != weeklyNoteType {
		t.Errorf("unexpected note type %q", store.notes[0].noteType)
	}
	if store.notes[0].content != "Start with Homework 3." {
		t.Errorf("unexpected note content %q", store.notes[0].content)
	}
	if !strings.Contains(backend.lastUser, "Homework 3") || !strings.Contains(backend.lastUser, "Lab 2") {
		t.Errorf("weekly prompt missing assignments: %q", backend.lastUser)
	}
}

func TestDailyNoChangesSkipsSnapshotRewrite(t *testing.T) {
	t.Parallel()

	source := twoCoursesSource()
	store := &fakeJobStore{}
	r := newTestRunner(t, source, store, &fakeBackend{reply: "update"})

	// Seed the snapshot with exactly the current state.
	var current []canvas.Assignment
	for _, as := range source.assignments {
		current = append(current, as...)
	}
	if err := r.snapshots.Save(current); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(r.cfg.Sync.SnapshotPath)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.Daily(context.Background()); err != nil {
		t.Fatalf("Daily failed: %v", err)
	}

	if len(store.notes) != 0 {
		t.Errorf("no-change run must not write a note, got %+v", store.notes)
	}
	after, err := os.ReadFile(r.cfg.Sync.SnapshotPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("no-change run must leave the snapshot untouched")
	}
}

func TestDailyWithChangesWritesNoteAndSnapshot(t *testing.T) {
	t.Parallel()

	store := &fakeJobStore{}
	backend := &fakeBackend{reply: "Homework 3 was posted."}
	r := newTestRunner(t, twoCoursesSource(), store, backend)

	// Empty snapshot: everything counts as new.
	if err := r.Daily(context.Background()); err != nil {
		t.Fatalf("Daily failed: %v", err)
	}

	if len(store.notes) != 1 || store.notes[0].noteType != dailyNoteType {
		t.Fatalf("expected one daily note, got %+v", store.notes)
	}
	if !strings.Contains(backend.lastUser, "New assignments") {
		t.Errorf("daily prompt should list new assignments, got %q", backend.lastUser)
	}

	snap, err := r.snapshots.Load()
	if err != nil {
		t.Fatalf("loading snapshot after daily: %v", err)
	}
	if len(snap.Assignments) != 2 {
		t.Errorf("snapshot should hold the current capture, got %d", len(snap.Assignments))
	}
}

func TestDailyBackendFailureAborts(t *testing.T) {
	t.Parallel()

	store := &fakeJobStore{}
	r := newTestRunner(t, twoCoursesSource(), store, &fakeBackend{fail: true})

	if err := r.Daily(context.Background()); err == nil {
		t.Fatal("expected backend failure to propagate")
	}
	if len(store.notes) != 0 {
		t.Error("failed run must not write a note")
	}

	// Snapshot must not be saved either; the next run re-detects.
	if _, err := os.Stat(r.cfg.Sync.SnapshotPath); !os.IsNotExist(err) {
		t.Error("failed run must not save the snapshot")
	}
}

func TestSyncJobCreatesTasks(t *testing.T) {
	t.Parallel()

	store := &fakeJobStore{}
	r := newTestRunner(t, twoCoursesSource(), store, &fakeBackend{reply: "A thorough overview of the work."})

	if err := r.Sync(context.Background(), false); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if len(store.tasks) != 2 {
		t.Errorf("expected 2 task rows, got %d", len(store.tasks))
	}
}

func TestRunAllStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	store := &fakeJobStore{}
	r := newTestRunner(t, twoCoursesSource(), store, &fakeBackend{fail: true})

	if err := r.RunAll(context.Background()); err == nil {
		t.Fatal("expected weekly failure to abort the sequence")
	}
	if len(store.tasks) != 0 {
		t.Error("later jobs must not run after an earlier failure")
	}
}
