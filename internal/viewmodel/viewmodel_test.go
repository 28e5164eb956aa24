package viewmodel

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"snaptick/internal/notify"
	"snaptick/internal/rollover"
	"snaptick/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-04 is a Wednesday.
const today = "2026-03-04"

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 4, hour, minute, 0, 0, time.Local)
}

type harness struct {
	vm    *ViewModel
	tasks *storage.TaskStore
	prefs *storage.Preferences
	sched *notify.Scheduler
	now   time.Time
}

// newHarness wires a view model to real stores and a real scheduler whose
// clock is h.now. modify may swap collaborators before construction.
func newHarness(t *testing.T, now time.Time, modify ...func(*Deps, *Options)) *harness {
	t.Helper()
	h := &harness{now: now}
	clock := func() time.Time { return h.now }
	dir := t.TempDir()

	tasks, err := storage.OpenTaskStore(filepath.Join(dir, storage.TasksFile))
	require.NoError(t, err)
	tasks.SetNowFunc(clock)
	t.Cleanup(func() { tasks.Close() })

	prefs, err := storage.OpenPreferences(dir)
	require.NoError(t, err)

	sched := notify.NewScheduler(notify.Discard{}, notify.WithClock(clock))
	t.Cleanup(sched.Stop)

	deps := Deps{Tasks: tasks, Prefs: prefs, Scheduler: sched}
	opts := Options{
		BuildVersion:    "1.2.3",
		ProjectURL:      "https://example.org/snaptick",
		ShareText:       "try snaptick",
		ScheduleRetries: 1,
		Now:             clock,
	}
	for _, m := range modify {
		m(&deps, &opts)
	}

	h.vm = New(deps, opts)
	t.Cleanup(h.vm.Close)
	h.tasks, h.prefs, h.sched = tasks, prefs, sched
	return h
}

// do handles ev, runs the resulting command and applies its message.
func (h *harness) do(ev Event) tea.Msg {
	cmd := h.vm.Handle(ev)
	if cmd == nil {
		return nil
	}
	msg := cmd()
	h.vm.Update(msg)
	return msg
}

func (h *harness) insert(t *testing.T, task storage.Task) storage.Task {
	t.Helper()
	stored, err := h.tasks.Insert(context.Background(), task)
	require.NoError(t, err)
	return stored
}

func reminderTask(uuid string, start storage.TimeOfDay, completed bool) storage.Task {
	return storage.Task{
		UUID:      uuid,
		Title:     "Standup",
		StartTime: start,
		EndTime:   start.Add(15 * time.Minute),
		Reminder:  true,
		Completed: completed,
		Date:      today,
	}
}

// recv runs cmd with a timeout so a stuck stream fails instead of hanging.
func recv(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return nil
}

// =============================================================================
// Task list events
// =============================================================================

func TestMarkCompletedSchedulesOnlyBeforeStart(t *testing.T) {
	tests := []struct {
		name  string
		clock time.Time
		want  bool
	}{
		{"an hour before", at(8, 0), true},
		{"exactly at start", at(9, 0), false},
		{"after start", at(10, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.clock)
			task := h.insert(t, reminderTask("a1", storage.NewTimeOfDay(9, 0, 0), true))

			msg := h.do(MarkCompleted{TaskID: task.ID, Completed: false})

			done := msg.(TaskCompletedMsg)
			require.NoError(t, done.Err)
			assert.Equal(t, tt.want, done.Scheduled)
			assert.Equal(t, tt.want, h.sched.Pending("a1"))

			stored, err := h.tasks.GetByID(context.Background(), task.ID)
			require.NoError(t, err)
			assert.False(t, stored.Completed)
		})
	}
}

func TestCompleteThenReopenLeavesOneReminder(t *testing.T) {
	h := newHarness(t, at(8, 0))
	task := h.insert(t, reminderTask("a1", storage.NewTimeOfDay(9, 0, 0), false))
	require.NoError(t, h.sched.Schedule(context.Background(), task))

	h.do(MarkCompleted{TaskID: task.ID, Completed: true})
	assert.False(t, h.sched.Pending("a1"), "completing cancels the reminder")

	h.do(MarkCompleted{TaskID: task.ID, Completed: false})
	h.do(MarkCompleted{TaskID: task.ID, Completed: false})

	assert.True(t, h.sched.Pending("a1"))
	assert.Equal(t, 1, h.sched.Len())
}

func TestMarkCompletedWithoutReminderNeverSchedules(t *testing.T) {
	h := newHarness(t, at(8, 0))
	task := reminderTask("a1", storage.NewTimeOfDay(9, 0, 0), true)
	task.Reminder = false
	task = h.insert(t, task)

	msg := h.do(MarkCompleted{TaskID: task.ID, Completed: false}).(TaskCompletedMsg)

	require.NoError(t, msg.Err)
	assert.False(t, msg.Scheduled)
	assert.Zero(t, h.sched.Len())
}

func TestMarkCompletedUnknownTask(t *testing.T) {
	h := newHarness(t, at(8, 0))

	msg := h.do(MarkCompleted{TaskID: 42, Completed: true}).(TaskCompletedMsg)

	assert.ErrorIs(t, msg.Err, storage.ErrNotFound)
	assert.ErrorIs(t, h.vm.LastError(), storage.ErrNotFound)
}

func TestDeleteClearsReminder(t *testing.T) {
	tests := []struct {
		name     string
		reminder bool
		event    func(storage.Task) Event
	}{
		{"swipe with reminder", true, func(t storage.Task) Event { return SwipeDelete{Task: t} }},
		{"swipe without reminder", false, func(t storage.Task) Event { return SwipeDelete{Task: t} }},
		{"edit screen delete", true, func(t storage.Task) Event { return Delete{Task: t} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, at(8, 0))
			task := reminderTask("a1", storage.NewTimeOfDay(9, 0, 0), false)
			task.Reminder = tt.reminder
			task = h.insert(t, task)
			if tt.reminder {
				require.NoError(t, h.sched.Schedule(context.Background(), task))
			}

			msg := h.do(tt.event(task)).(TaskDeletedMsg)

			require.NoError(t, msg.Err)
			assert.False(t, h.sched.Pending("a1"))
			_, err := h.tasks.GetByID(context.Background(), task.ID)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestDeleteKeepsTaskWhenCancelFails(t *testing.T) {
	fake := &fakeScheduler{cancelErr: errors.New("alarm service down")}
	h := newHarness(t, at(8, 0), func(d *Deps, _ *Options) { d.Scheduler = fake })
	task := h.insert(t, reminderTask("a1", storage.NewTimeOfDay(9, 0, 0), false))

	msg := h.do(SwipeDelete{Task: task}).(TaskDeletedMsg)

	require.Error(t, msg.Err)
	assert.Equal(t, 2, fake.cancelCalls(), "one attempt plus one retry")
	_, err := h.tasks.GetByID(context.Background(), task.ID)
	assert.NoError(t, err)
}

func TestRequestEditLoadsStagedTask(t *testing.T) {
	h := newHarness(t, at(8, 0))
	task := h.insert(t, reminderTask("a1", storage.NewTimeOfDay(9, 0, 0), false))

	msg := h.do(RequestPomodoro{TaskID: task.ID}).(TaskLoadedMsg)
	require.NoError(t, msg.Err)
	assert.True(t, msg.Pomodoro)
	assert.Equal(t, task, h.vm.Staged())

	before := h.vm.Staged()
	msg = h.do(RequestEdit{TaskID: 999}).(TaskLoadedMsg)
	assert.ErrorIs(t, msg.Err, storage.ErrNotFound)
	assert.Equal(t, before, h.vm.Staged(), "failed load keeps the staged task")
}

// =============================================================================
// Edit form events
// =============================================================================

func TestFieldEventsOnlyTouchStagedTask(t *testing.T) {
	h := newHarness(t, at(8, 7))

	assert.Nil(t, h.vm.Handle(NewDraft{}))
	draft := h.vm.Staged()
	assert.Equal(t, storage.NewTimeOfDay(8, 7, 0), draft.StartTime)
	assert.Equal(t, today, draft.Date)

	events := []Event{
		SetTitle{Title: "Write report"},
		SetStartTime{Time: storage.NewTimeOfDay(13, 0, 0)},
		SetEndTime{Time: storage.NewTimeOfDay(14, 30, 0)},
		SetPriority{Priority: storage.PriorityHigh},
		SetReminder{Enabled: true},
		SetRepeat{Enabled: true},
		SetRepeatWeekdays{Days: []time.Weekday{time.Monday, time.Friday}},
		SetCategory{Category: "work"},
		SetPomodoro{Minutes: 25},
		SetDate{Date: "2026-03-05"},
	}
	for _, ev := range events {
		assert.Nil(t, h.vm.Handle(ev), "%T must not touch the store", ev)
	}

	staged := h.vm.Staged()
	assert.Equal(t, "Write report", staged.Title)
	assert.Equal(t, 90*time.Minute, staged.Duration())
	assert.Equal(t, storage.PriorityHigh, staged.Priority)
	assert.True(t, staged.Reminder)
	assert.True(t, staged.Repeat)
	assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, staged.RepeatWeekdays)
	assert.Equal(t, "work", staged.Category)
	assert.Equal(t, 25, staged.PomodoroMinutes)
	assert.Equal(t, "2026-03-05", staged.Date)

	all, err := h.tasks.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateSchedulesReminder(t *testing.T) {
	h := newHarness(t, at(8, 0))
	task := reminderTask("", storage.NewTimeOfDay(9, 0, 0), false)

	msg := h.do(Create{Task: task}).(TaskCreatedMsg)

	require.NoError(t, msg.Err)
	assert.True(t, msg.Inserted)
	assert.True(t, msg.Scheduled)
	require.NotEmpty(t, msg.Task.UUID)
	assert.True(t, h.sched.Pending(msg.Task.UUID))

	stored, err := h.tasks.GetByID(context.Background(), msg.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Standup", stored.Title)
}

func TestCreateRejectsInvalidTask(t *testing.T) {
	h := newHarness(t, at(8, 0))
	task := reminderTask("", storage.NewTimeOfDay(9, 0, 0), false)
	task.EndTime = storage.NewTimeOfDay(8, 0, 0)

	msg := h.do(Create{Task: task}).(TaskCreatedMsg)

	assert.ErrorIs(t, msg.Err, storage.ErrInvalidTimeRange)
	assert.False(t, msg.Inserted)
	all, err := h.tasks.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateInsertFailureSkipsSchedule(t *testing.T) {
	fake := &fakeScheduler{}
	h := newHarness(t, at(8, 0), func(d *Deps, _ *Options) {
		d.Tasks = &failingInsert{TaskStore: d.Tasks}
		d.Scheduler = fake
	})

	msg := h.do(Create{Task: reminderTask("", storage.NewTimeOfDay(9, 0, 0), false)}).(TaskCreatedMsg)

	require.Error(t, msg.Err)
	assert.False(t, msg.Inserted)
	assert.Zero(t, fake.scheduleCalls())
}

func TestCreateScheduleFailureKeepsTask(t *testing.T) {
	fake := &fakeScheduler{scheduleErrs: []error{errors.New("denied"), errors.New("denied"), errors.New("denied")}}
	h := newHarness(t, at(8, 0), func(d *Deps, _ *Options) { d.Scheduler = fake })

	msg := h.do(Create{Task: reminderTask("", storage.NewTimeOfDay(9, 0, 0), false)}).(TaskCreatedMsg)

	require.Error(t, msg.Err)
	assert.True(t, msg.Inserted)
	assert.False(t, msg.Scheduled)
	assert.Equal(t, 2, fake.scheduleCalls())

	_, err := h.tasks.GetByID(context.Background(), msg.Task.ID)
	assert.NoError(t, err, "insert is not rolled back")
}

func TestScheduleRetrySucceeds(t *testing.T) {
	fake := &fakeScheduler{scheduleErrs: []error{errors.New("busy")}}
	h := newHarness(t, at(8, 0), func(d *Deps, _ *Options) { d.Scheduler = fake })

	msg := h.do(Create{Task: reminderTask("", storage.NewTimeOfDay(9, 0, 0), false)}).(TaskCreatedMsg)

	require.NoError(t, msg.Err)
	assert.True(t, msg.Scheduled)
	assert.Equal(t, 2, fake.scheduleCalls())
}

func TestCreateWithPastStartIsNotAnError(t *testing.T) {
	h := newHarness(t, at(12, 0))

	msg := h.do(Create{Task: reminderTask("", storage.NewTimeOfDay(9, 0, 0), false)}).(TaskCreatedMsg)

	require.NoError(t, msg.Err)
	assert.True(t, msg.Inserted)
	assert.False(t, msg.Scheduled)
	assert.Zero(t, h.sched.Len())
}

func TestUpdateResolvesReminder(t *testing.T) {
	h := newHarness(t, at(8, 0))
	task := h.insert(t, reminderTask("a1", storage.NewTimeOfDay(9, 0, 0), false))
	require.NoError(t, h.sched.Schedule(context.Background(), task))
	h.do(RequestEdit{TaskID: task.ID})

	// Reminder off: the stale schedule must go.
	h.vm.Handle(SetReminder{Enabled: false})
	msg := h.do(Update{}).(TaskUpdatedMsg)
	require.NoError(t, msg.Err)
	assert.False(t, h.sched.Pending("a1"))

	// Reminder back on with a new start: re-armed at the new time.
	h.vm.Handle(SetReminder{Enabled: true})
	h.vm.Handle(SetStartTime{Time: storage.NewTimeOfDay(11, 0, 0)})
	h.vm.Handle(SetEndTime{Time: storage.NewTimeOfDay(11, 30, 0)})
	msg = h.do(Update{}).(TaskUpdatedMsg)
	require.NoError(t, msg.Err)
	assert.True(t, msg.Scheduled)
	fire, ok := h.sched.FireTime("a1")
	require.True(t, ok)
	assert.Equal(t, 11, fire.Hour())
	assert.Equal(t, 1, h.sched.Len())

	stored, err := h.tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.NewTimeOfDay(11, 0, 0), stored.StartTime)
}

func TestUpdateCompletedTaskCancels(t *testing.T) {
	h := newHarness(t, at(8, 0))
	task := h.insert(t, reminderTask("a1", storage.NewTimeOfDay(9, 0, 0), true))
	require.NoError(t, h.sched.Schedule(context.Background(), task))
	h.do(RequestEdit{TaskID: task.ID})

	msg := h.do(Update{}).(TaskUpdatedMsg)

	require.NoError(t, msg.Err)
	assert.False(t, h.sched.Pending("a1"))
}

func TestUpdateUnstoredDraft(t *testing.T) {
	h := newHarness(t, at(8, 0))
	h.vm.Handle(SetTitle{Title: "never inserted"})

	msg := h.do(Update{}).(TaskUpdatedMsg)

	assert.ErrorIs(t, msg.Err, storage.ErrNotFound)
}

func TestConcurrentUpdatesLastWriteWins(t *testing.T) {
	h := newHarness(t, at(8, 0))
	task := h.insert(t, reminderTask("a1", storage.NewTimeOfDay(9, 0, 0), false))
	task.Reminder = false

	first, second := task, task
	first.Title = "first"
	second.Title = "second"
	cmds := []tea.Cmd{h.vm.updateCmd(first), h.vm.updateCmd(second)}

	var wg sync.WaitGroup
	for _, cmd := range cmds {
		wg.Add(1)
		go func(cmd tea.Cmd) {
			defer wg.Done()
			assert.NoError(t, cmd().(TaskUpdatedMsg).Err)
		}(cmd)
	}
	wg.Wait()

	stored, err := h.tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Contains(t, []string{"first", "second"}, stored.Title)
}

// =============================================================================
// Application events
// =============================================================================

func TestToggleTheme(t *testing.T) {
	h := newHarness(t, at(8, 0))
	ctx := context.Background()

	msg := h.do(ToggleTheme{Enabled: true}).(PrefSavedMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, ThemeAmoled, h.vm.State().Theme)
	n, err := h.prefs.LoadInt(ctx, storage.KeyTheme, -1)
	require.NoError(t, err)
	assert.Equal(t, int(ThemeAmoled), n)

	h.do(ToggleTheme{Enabled: false})
	assert.Equal(t, ThemeDark, h.vm.State().Theme)
	n, _ = h.prefs.LoadInt(ctx, storage.KeyTheme, -1)
	assert.Equal(t, int(ThemeDark), n)
}

func TestSetTheme(t *testing.T) {
	h := newHarness(t, at(8, 0))

	msg := h.do(SetTheme{Theme: ThemeLight}).(PrefSavedMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, ThemeLight, h.vm.State().Theme)
	n, err := h.prefs.LoadInt(context.Background(), storage.KeyTheme, -1)
	require.NoError(t, err)
	assert.Equal(t, int(ThemeLight), n)

	assert.Nil(t, h.vm.Handle(SetTheme{Theme: Theme(7)}))
	assert.Equal(t, ThemeLight, h.vm.State().Theme)
}

func TestUpdateSortPersistsAndReorders(t *testing.T) {
	h := newHarness(t, at(8, 0))
	h.vm.today = []storage.Task{
		{ID: 1, Title: "low", Priority: storage.PriorityLow},
		{ID: 2, Title: "high", Priority: storage.PriorityHigh},
	}

	h.do(UpdateSort{Order: storage.SortPriorityDesc})

	assert.Equal(t, storage.SortPriorityDesc, h.vm.State().SortBy)
	n, err := h.prefs.LoadInt(context.Background(), storage.KeySortTask, -1)
	require.NoError(t, err)
	assert.Equal(t, int(storage.SortPriorityDesc), n)
	assert.Equal(t, "high", h.vm.Today()[0].Title)

	assert.Nil(t, h.vm.Handle(UpdateSort{Order: storage.SortOrder(99)}))
	assert.Equal(t, storage.SortPriorityDesc, h.vm.State().SortBy)
}

func TestUpdateFreeTimeIsTransient(t *testing.T) {
	h := newHarness(t, at(8, 0))

	assert.Nil(t, h.vm.Handle(UpdateFreeTime{Value: 3 * time.Hour}))
	assert.Equal(t, 3*time.Hour, h.vm.State().FreeTime)
}

func TestNavDrawerActions(t *testing.T) {
	l := &fakeLauncher{}
	h := newHarness(t, at(8, 0), func(d *Deps, _ *Options) { d.Launcher = l })

	for _, item := range []NavItem{NavReportBugs, NavSuggestions, NavRateUs, NavShareApp} {
		msg := h.do(NavDrawerAction{Item: item}).(NavActionMsg)
		require.NoError(t, msg.Err)
	}

	assert.Equal(t, []string{
		"mail:Report Bugs",
		"mail:Suggestions",
		"url:https://example.org/snaptick",
		"share:try snaptick",
	}, l.calls)
	assert.Equal(t, DefaultState("1.2.3"), h.vm.State(), "drawer actions leave state alone")
}

func TestNavDrawerWithoutLauncher(t *testing.T) {
	h := newHarness(t, at(8, 0))

	msg := h.do(NavDrawerAction{Item: NavRateUs}).(NavActionMsg)
	assert.Error(t, msg.Err)
}

// =============================================================================
// Session
// =============================================================================

func TestStartCmdHydratesAndRearms(t *testing.T) {
	h := newHarness(t, at(8, 0))
	ctx := context.Background()
	require.NoError(t, h.prefs.SaveInt(ctx, storage.KeyTheme, int(ThemeAmoled)))
	require.NoError(t, h.prefs.SaveInt(ctx, storage.KeySortTask, int(storage.SortPriorityDesc)))
	require.NoError(t, h.prefs.SaveInt(ctx, storage.KeyStreak, 3))
	require.NoError(t, h.prefs.SaveString(ctx, storage.KeyLastOpened, "2026-03-03"))

	ahead := h.insert(t, reminderTask("ahead", storage.NewTimeOfDay(9, 0, 0), false))
	h.insert(t, reminderTask("passed", storage.NewTimeOfDay(7, 0, 0), false))
	h.insert(t, reminderTask("done", storage.NewTimeOfDay(10, 0, 0), true))
	daily := reminderTask("daily", storage.NewTimeOfDay(12, 0, 0), true)
	daily.Repeat = true
	daily.Date = "2026-03-03"
	h.insert(t, daily)

	mgr := rollover.New(h.tasks, h.prefs)
	mgr.SetNowFunc(func() time.Time { return h.now })
	vm := New(Deps{Tasks: h.tasks, Prefs: h.prefs, Scheduler: h.sched, Rollover: mgr},
		Options{Now: func() time.Time { return h.now }})
	t.Cleanup(vm.Close)

	msg := vm.StartCmd()().(SessionLoadedMsg)
	vm.Update(msg)

	require.NoError(t, msg.Err)
	assert.Equal(t, rollover.OpenedPriorDay, msg.Rollover.State)
	assert.Equal(t, 1, msg.Rollover.Reset)

	state := vm.State()
	assert.Equal(t, ThemeAmoled, state.Theme)
	assert.Equal(t, storage.SortPriorityDesc, state.SortBy)
	assert.Equal(t, 4, state.Streak)

	// "ahead" and the reset daily task are armed; the rest are not.
	assert.Equal(t, 2, msg.Rearmed)
	assert.True(t, h.sched.Pending(ahead.UUID))
	assert.True(t, h.sched.Pending("daily"))
	assert.False(t, h.sched.Pending("passed"))
	assert.False(t, h.sched.Pending("done"))
}

func TestWatchCmdStreamsChanges(t *testing.T) {
	h := newHarness(t, at(8, 0))
	ctx := context.Background()

	batch, ok := h.vm.WatchCmd()().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 4)

	first := recv(t, batch[0]).(TodayTasksMsg)
	assert.Empty(t, first.Tasks)
	next := h.vm.Update(first)

	h.insert(t, storage.Task{Title: "new", StartTime: 1, EndTime: 2, Date: today})
	second := recv(t, next).(TodayTasksMsg)
	h.vm.Update(second)
	require.Len(t, h.vm.Today(), 1)
	assert.Equal(t, "new", h.vm.Today()[0].Title)

	theme := recv(t, batch[1]).(PrefChangedMsg)
	assert.Equal(t, storage.KeyTheme, theme.Key)
	next = h.vm.Update(theme)

	require.NoError(t, h.prefs.SaveInt(ctx, storage.KeyTheme, int(ThemeLight)))
	h.vm.Update(recv(t, next))
	assert.Equal(t, ThemeLight, h.vm.State().Theme)
}

func TestCloseEndsStreams(t *testing.T) {
	h := newHarness(t, at(8, 0))

	batch := h.vm.WatchCmd()().(tea.BatchMsg)
	first := recv(t, batch[0]).(TodayTasksMsg)
	next := h.vm.Update(first)

	h.vm.Close()
	assert.Nil(t, recv(t, next), "closed stream yields no message")
}

func TestHandleDispatchesByFamily(t *testing.T) {
	h := newHarness(t, at(8, 0))

	var _ AppEvent = ToggleTheme{}
	var _ HomeEvent = MarkCompleted{}
	var _ EditEvent = Update{}

	assert.Nil(t, h.vm.Handle(SetTitle{Title: "x"}))
	assert.Equal(t, "x", h.vm.Staged().Title)
	assert.NotNil(t, h.vm.Handle(ToggleTheme{}))
	assert.NotNil(t, h.vm.Handle(RequestEdit{TaskID: 1}))
}

// =============================================================================
// Fakes
// =============================================================================

type fakeScheduler struct {
	mu           sync.Mutex
	scheduleErrs []error // returned in order, then nil
	cancelErr    error
	schedules    int
	cancels      int
}

func (f *fakeScheduler) Schedule(_ context.Context, _ storage.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules++
	if len(f.scheduleErrs) > 0 {
		err := f.scheduleErrs[0]
		f.scheduleErrs = f.scheduleErrs[1:]
		return err
	}
	return nil
}

func (f *fakeScheduler) Cancel(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
	return f.cancelErr
}

func (f *fakeScheduler) scheduleCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schedules
}

func (f *fakeScheduler) cancelCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancels
}

type failingInsert struct {
	TaskStore
}

func (failingInsert) Insert(context.Context, storage.Task) (storage.Task, error) {
	return storage.Task{}, errors.New("database is locked")
}

type fakeLauncher struct {
	calls []string
}

func (l *fakeLauncher) OpenMail(subject string) error {
	l.calls = append(l.calls, "mail:"+subject)
	return nil
}

func (l *fakeLauncher) OpenURL(url string) error {
	l.calls = append(l.calls, "url:"+url)
	return nil
}

func (l *fakeLauncher) Share(text string) error {
	l.calls = append(l.calls, "share:"+text)
	return nil
}
