package rollover

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"snaptick/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-04 is a Wednesday.
var wednesday = time.Date(2026, 3, 4, 7, 30, 0, 0, time.Local)

type env struct {
	tasks *storage.TaskStore
	prefs *storage.Preferences
	mgr   *Manager
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()

	tasks, err := storage.OpenTaskStore(filepath.Join(dir, storage.TasksFile))
	require.NoError(t, err)
	t.Cleanup(func() { tasks.Close() })
	tasks.SetNowFunc(func() time.Time { return wednesday })

	prefs, err := storage.OpenPreferences(dir)
	require.NoError(t, err)

	mgr := New(tasks, prefs)
	mgr.SetNowFunc(func() time.Time { return wednesday })
	return &env{tasks: tasks, prefs: prefs, mgr: mgr}
}

func (e *env) seed(t *testing.T, lastOpened string, streak int) {
	t.Helper()
	ctx := context.Background()
	if lastOpened != "" {
		require.NoError(t, e.prefs.SaveString(ctx, storage.KeyLastOpened, lastOpened))
	}
	require.NoError(t, e.prefs.SaveInt(ctx, storage.KeyStreak, streak))
}

func (e *env) insert(t *testing.T, task storage.Task) storage.Task {
	t.Helper()
	task.StartTime = storage.NewTimeOfDay(9, 0, 0)
	task.EndTime = storage.NewTimeOfDay(9, 30, 0)
	got, err := e.tasks.Insert(context.Background(), task)
	require.NoError(t, err)
	return got
}

func (e *env) streak(t *testing.T) int {
	t.Helper()
	n, err := e.prefs.LoadInt(context.Background(), storage.KeyStreak, -1)
	require.NoError(t, err)
	return n
}

func (e *env) lastOpened(t *testing.T) string {
	t.Helper()
	s, err := e.prefs.LoadString(context.Background(), storage.KeyLastOpened)
	require.NoError(t, err)
	return s
}

func TestRunYesterdayIncrementsStreak(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "2026-03-03", 4)

	res, err := e.mgr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OpenedPriorDay, res.State)
	assert.Equal(t, 5, res.Streak)
	assert.Equal(t, 5, e.streak(t))
	assert.Equal(t, "2026-03-04", e.lastOpened(t))
}

func TestRunStaleDateResetsStreak(t *testing.T) {
	tests := []struct {
		name string
		last string
	}{
		{"three days ago", "2026-03-01"},
		{"last year", "2025-03-03"},
		{"future date", "2026-03-05"},
		{"garbage", "someday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.seed(t, tt.last, 7)

			res, err := e.mgr.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, OpenedPriorDay, res.State)
			assert.Equal(t, 0, e.streak(t))
			assert.Equal(t, "2026-03-04", e.lastOpened(t))
		})
	}
}

func TestRunFirstRun(t *testing.T) {
	e := newEnv(t)
	done := e.insert(t, storage.Task{Title: "stretch", Repeat: true, Completed: true, Date: "2026-03-01"})

	res, err := e.mgr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, NeverOpened, res.State)
	assert.Equal(t, "2026-03-04", e.lastOpened(t))
	assert.Equal(t, 0, res.Reset)

	got, err := e.tasks.GetByID(context.Background(), done.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed, "first run must not touch tasks")
	assert.Equal(t, "2026-03-01", got.Date)
}

func TestRunSameDayIsNoop(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "2026-03-04", 3)
	task := e.insert(t, storage.Task{Title: "stretch", Repeat: true, Completed: true, Date: "2026-03-03"})

	res, err := e.mgr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OpenedToday, res.State)
	assert.Equal(t, 3, e.streak(t))

	got, err := e.tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestRunResetScope(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "2026-03-03", 1)
	ctx := context.Background()

	stale := e.insert(t, storage.Task{Title: "daily", Repeat: true, Completed: true, Date: "2026-03-03"})
	onWednesday := e.insert(t, storage.Task{Title: "gym", Repeat: true, Completed: true, Date: "2026-02-25",
		RepeatWeekdays: []time.Weekday{time.Wednesday}})
	alreadyToday := e.insert(t, storage.Task{Title: "read", Repeat: true, Completed: true, Date: "2026-03-04"})
	oneOff := e.insert(t, storage.Task{Title: "dentist", Completed: true, Date: "2026-03-03"})
	mondays := e.insert(t, storage.Task{Title: "review", Repeat: true, Completed: true, Date: "2026-03-02",
		RepeatWeekdays: []time.Weekday{time.Monday}})

	res, err := e.mgr.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Reset)

	for _, id := range []int64{stale.ID, onWednesday.ID} {
		got, err := e.tasks.GetByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, got.Completed, "task %d should be reset", id)
		assert.Equal(t, "2026-03-04", got.Date)
	}

	untouched := map[int64]string{
		alreadyToday.ID: "2026-03-04",
		oneOff.ID:       "2026-03-03",
		mondays.ID:      "2026-03-02",
	}
	for id, date := range untouched {
		got, err := e.tasks.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.Completed, "task %d should keep its completion", id)
		assert.Equal(t, date, got.Date)
	}
}

// flakyTasks fails updates for selected ids.
type flakyTasks struct {
	Tasks
	fail map[int64]bool
}

func (f *flakyTasks) Update(ctx context.Context, t storage.Task) error {
	if f.fail[t.ID] {
		return errors.New("disk on fire")
	}
	return f.Tasks.Update(ctx, t)
}

func TestRunIsolatesTaskFailures(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "2026-03-03", 2)
	ctx := context.Background()

	a := e.insert(t, storage.Task{Title: "a", Repeat: true, Completed: true, Date: "2026-03-03"})
	b := e.insert(t, storage.Task{Title: "b", Repeat: true, Completed: true, Date: "2026-03-03"})
	c := e.insert(t, storage.Task{Title: "c", Repeat: true, Completed: true, Date: "2026-03-03"})

	mgr := New(&flakyTasks{Tasks: e.tasks, fail: map[int64]bool{b.ID: true}}, e.prefs)
	mgr.SetNowFunc(func() time.Time { return wednesday })

	res, err := mgr.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Equal(t, 2, res.Reset)
	assert.Equal(t, 1, res.Failed)

	for _, id := range []int64{a.ID, c.ID} {
		got, err := e.tasks.GetByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, got.Completed)
	}

	// Streak and last-opened still advance.
	assert.Equal(t, 3, e.streak(t))
	assert.Equal(t, "2026-03-04", e.lastOpened(t))
}

func TestRunTwiceSameDay(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "2026-03-03", 0)

	_, err := e.mgr.Run(context.Background())
	require.NoError(t, err)
	res, err := e.mgr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OpenedToday, res.State)
	assert.Equal(t, 1, e.streak(t))
}

func TestIsYesterday(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 0, 5, 0, 0, time.Local)
	assert.True(t, isYesterday("2025-12-31", jan1))
	assert.False(t, isYesterday("2025-12-30", jan1))
	assert.False(t, isYesterday("2026-01-01", jan1))
	assert.False(t, isYesterday("", jan1))
}
