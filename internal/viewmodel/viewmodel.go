// Package viewmodel holds the app state and turns user events into store
// mutations, reminder scheduling and state transitions.
//
// It follows the Bubble Tea command pattern: Handle applies the in-memory part
// of an event immediately and returns a tea.Cmd for the I/O part. The command's
// result message goes back through Update, which runs on the UI loop. State,
// the staged task and today's list are only touched from Handle and Update.
package viewmodel

import (
	"context"
	"log/slog"
	"time"

	"snaptick/internal/rollover"
	"snaptick/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

// TaskStore is the durable task storage the view model works against.
type TaskStore interface {
	GetByID(ctx context.Context, id int64) (storage.Task, error)
	Insert(ctx context.Context, t storage.Task) (storage.Task, error)
	Update(ctx context.Context, t storage.Task) error
	Delete(ctx context.Context, t storage.Task) error
	ListToday(ctx context.Context, day time.Time) ([]storage.Task, error)
	ObserveToday(ctx context.Context) <-chan []storage.Task
}

// PrefStore is the durable preference storage.
type PrefStore interface {
	SaveInt(ctx context.Context, key string, value int) error
	LoadInt(ctx context.Context, key string, def int) (int, error)
	WatchInt(ctx context.Context, key string, def int) <-chan int
}

// Scheduler arms and cancels task reminders keyed by task uuid.
type Scheduler interface {
	Schedule(ctx context.Context, t storage.Task) error
	Cancel(ctx context.Context, uuid string) error
}

// Launcher performs the navigation drawer actions.
type Launcher interface {
	OpenMail(subject string) error
	OpenURL(url string) error
	Share(text string) error
}

// Rollover runs the once-per-activation date rollover.
type Rollover interface {
	Run(ctx context.Context) (rollover.Result, error)
}

// Deps are the collaborators of a ViewModel. Launcher and Rollover may be nil.
type Deps struct {
	Tasks     TaskStore
	Prefs     PrefStore
	Scheduler Scheduler
	Launcher  Launcher
	Rollover  Rollover
}

// Options tune a ViewModel.
type Options struct {
	BuildVersion string
	ProjectURL   string
	ShareText    string

	// ScheduleRetries is the number of extra attempts a failed
	// Schedule or Cancel call gets.
	ScheduleRetries int

	Now    func() time.Time
	Logger *slog.Logger
}

// ViewModel is the task state reducer. Create it with New and release it
// with Close.
type ViewModel struct {
	deps   Deps
	opts   Options
	now    func() time.Time
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// Owned by the UI loop.
	state   State
	staged  storage.Task
	today   []storage.Task
	lastErr error
}

// New creates a view model with default state. Nothing is loaded until the
// command returned by Init runs.
func New(deps Deps, opts Options) *ViewModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ScheduleRetries < 0 {
		opts.ScheduleRetries = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	vm := &ViewModel{
		deps:   deps,
		opts:   opts,
		now:    opts.Now,
		logger: opts.Logger,
		ctx:    ctx,
		cancel: cancel,
		state:  DefaultState(opts.BuildVersion),
	}
	vm.staged = vm.draft()
	return vm
}

// Close stops the live streams and abandons background work still running.
func (vm *ViewModel) Close() {
	vm.cancel()
}

// Init returns the start-of-session command batched with the live streams.
func (vm *ViewModel) Init() tea.Cmd {
	return tea.Batch(vm.StartCmd(), vm.WatchCmd())
}

// State returns the current app state.
func (vm *ViewModel) State() State { return vm.state }

// Staged returns the task being edited.
func (vm *ViewModel) Staged() storage.Task { return vm.staged }

// Today returns today's tasks in the current sort order.
func (vm *ViewModel) Today() []storage.Task {
	return storage.SortTasks(vm.today, vm.state.SortBy)
}

// LastError returns the error of the most recent failed background step,
// or nil if the last one succeeded.
func (vm *ViewModel) LastError() error { return vm.lastErr }

// Handle dispatches an event to its family handler.
func (vm *ViewModel) Handle(ev Event) tea.Cmd {
	switch e := ev.(type) {
	case AppEvent:
		return vm.OnApp(e)
	case HomeEvent:
		return vm.OnHome(e)
	case EditEvent:
		return vm.OnEdit(e)
	}
	vm.logger.Warn("unhandled event", "event", ev)
	return nil
}

// OnApp handles application-level events.
func (vm *ViewModel) OnApp(ev AppEvent) tea.Cmd {
	switch e := ev.(type) {
	case ToggleTheme:
		vm.state.Theme = ThemeDark
		if e.Enabled {
			vm.state.Theme = ThemeAmoled
		}
		return vm.savePrefCmd(storage.KeyTheme, int(vm.state.Theme))

	case SetTheme:
		if ThemeFromOrdinal(int(e.Theme)) != e.Theme {
			vm.logger.Warn("ignoring invalid theme", "theme", int(e.Theme))
			return nil
		}
		vm.state.Theme = e.Theme
		return vm.savePrefCmd(storage.KeyTheme, int(e.Theme))

	case UpdateSort:
		if !e.Order.Valid() {
			vm.logger.Warn("ignoring invalid sort order", "order", int(e.Order))
			return nil
		}
		vm.state.SortBy = e.Order
		return vm.savePrefCmd(storage.KeySortTask, int(e.Order))

	case UpdateFreeTime:
		vm.state.FreeTime = e.Value
		return nil

	case NavDrawerAction:
		return vm.navCmd(e.Item)
	}
	return nil
}

// OnHome handles task list events.
func (vm *ViewModel) OnHome(ev HomeEvent) tea.Cmd {
	switch e := ev.(type) {
	case MarkCompleted:
		return vm.markCompletedCmd(e.TaskID, e.Completed)
	case RequestEdit:
		return vm.loadTaskCmd(e.TaskID, false)
	case RequestPomodoro:
		return vm.loadTaskCmd(e.TaskID, true)
	case SwipeDelete:
		return vm.deleteCmd(e.Task)
	}
	return nil
}

// OnEdit handles edit form events. Field updates only change the staged
// task; Create, Update and Delete commit.
func (vm *ViewModel) OnEdit(ev EditEvent) tea.Cmd {
	switch e := ev.(type) {
	case NewDraft:
		vm.staged = vm.draft()
	case SetTitle:
		vm.staged.Title = e.Title
	case SetStartTime:
		vm.staged.StartTime = e.Time
	case SetEndTime:
		vm.staged.EndTime = e.Time
	case SetPriority:
		vm.staged.Priority = e.Priority
	case SetReminder:
		vm.staged.Reminder = e.Enabled
	case SetRepeat:
		vm.staged.Repeat = e.Enabled
	case SetRepeatWeekdays:
		vm.staged.RepeatWeekdays = append([]time.Weekday(nil), e.Days...)
	case SetCategory:
		vm.staged.Category = e.Category
	case SetPomodoro:
		vm.staged.PomodoroMinutes = e.Minutes
	case SetDate:
		vm.staged.Date = e.Date

	case Create:
		return vm.createCmd(e.Task)
	case Update:
		return vm.updateCmd(vm.staged)
	case Delete:
		return vm.deleteCmd(e.Task)
	}
	return nil
}

// Update applies a result message. Messages the view model does not own are
// ignored. The returned command keeps live streams flowing.
func (vm *ViewModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TodayTasksMsg:
		vm.today = msg.Tasks
		return waitForTasks(msg.stream)

	case PrefChangedMsg:
		vm.applyPref(msg.Key, msg.Value)
		return waitForPref(msg.Key, msg.stream)

	case SessionLoadedMsg:
		vm.state.Theme = msg.Theme
		vm.state.SortBy = msg.SortBy
		vm.state.Streak = msg.Streak
		vm.record(msg.Err, "session start", "rearmed", msg.Rearmed)

	case PrefSavedMsg:
		vm.record(msg.Err, "save preference", "key", msg.Key)

	case NavActionMsg:
		vm.record(msg.Err, "drawer action", "item", msg.Item.String())

	case TaskCompletedMsg:
		vm.record(msg.Err, "mark completed", "task", msg.TaskID)

	case TaskLoadedMsg:
		if msg.Err == nil {
			vm.staged = msg.Task
		}
		vm.record(msg.Err, "load task", "task", msg.TaskID)

	case TaskDeletedMsg:
		vm.record(msg.Err, "delete task", "task", msg.Task.ID)

	case TaskCreatedMsg:
		if msg.Err == nil {
			vm.staged = vm.draft()
		}
		vm.record(msg.Err, "create task", "title", msg.Task.Title)

	case TaskUpdatedMsg:
		vm.record(msg.Err, "update task", "task", msg.Task.ID)
	}
	return nil
}

func (vm *ViewModel) applyPref(key string, value int) {
	switch key {
	case storage.KeyTheme:
		vm.state.Theme = ThemeFromOrdinal(value)
	case storage.KeySortTask:
		vm.state.SortBy = storage.SortOrderFromOrdinal(value)
	case storage.KeyStreak:
		if value < 0 {
			value = 0
		}
		vm.state.Streak = value
	}
}

func (vm *ViewModel) record(err error, op string, attrs ...any) {
	vm.lastErr = err
	if err != nil {
		vm.logger.Warn(op+" failed", append(attrs, "error", err)...)
	}
}

// draft returns an empty task for today starting at the current minute.
func (vm *ViewModel) draft() storage.Task {
	now := vm.now()
	start := storage.TimeOfDayOf(now)
	start -= start % 60
	return storage.Task{
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Date:      storage.FormatDate(now),
		Priority:  storage.PriorityLow,
	}
}
