package viewmodel

// tea.Cmd factories for the I/O half of each event. Commands run on their
// own goroutines and may only read the immutable fields of the view model
// (deps, opts, now, ctx); everything they learn travels back in the result
// message.

import (
	"context"
	"errors"
	"fmt"

	"snaptick/internal/notify"
	"snaptick/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Session Commands
// =============================================================================

// StartCmd runs the daily rollover, reads the stored preferences and arms
// reminders again for today's pending tasks.
func (vm *ViewModel) StartCmd() tea.Cmd {
	ctx, deps := vm.ctx, vm.deps
	return func() tea.Msg {
		msg := SessionLoadedMsg{
			Theme:  DefaultTheme,
			SortBy: storage.DefaultSortOrder,
		}
		var errs []error

		if deps.Rollover != nil {
			res, err := deps.Rollover.Run(ctx)
			msg.Rollover = res
			if err != nil {
				errs = append(errs, err)
			}
		}

		if n, err := deps.Prefs.LoadInt(ctx, storage.KeyTheme, int(DefaultTheme)); err != nil {
			errs = append(errs, err)
		} else {
			msg.Theme = ThemeFromOrdinal(n)
		}
		if n, err := deps.Prefs.LoadInt(ctx, storage.KeySortTask, int(storage.DefaultSortOrder)); err != nil {
			errs = append(errs, err)
		} else {
			msg.SortBy = storage.SortOrderFromOrdinal(n)
		}
		if n, err := deps.Prefs.LoadInt(ctx, storage.KeyStreak, 0); err != nil {
			errs = append(errs, err)
		} else if n > 0 {
			msg.Streak = n
		}

		rearmed, err := vm.rearm(ctx)
		msg.Rearmed = rearmed
		if err != nil {
			errs = append(errs, err)
		}

		msg.Err = errors.Join(errs...)
		return msg
	}
}

// rearm schedules reminders for today's incomplete tasks that have not
// started yet. Scheduled reminders live in memory, so each session starts
// with none.
func (vm *ViewModel) rearm(ctx context.Context) (int, error) {
	now := vm.now()
	tasks, err := vm.deps.Tasks.ListToday(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("rearm reminders: %w", err)
	}

	var (
		n    int
		errs []error
	)
	for _, t := range tasks {
		if !vm.shouldSchedule(t) {
			continue
		}
		if t.Repeat {
			// Repeat tasks due today may still carry an older date.
			t.Date = storage.FormatDate(now)
		}
		ok, err := vm.schedule(ctx, t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			n++
		}
	}
	return n, errors.Join(errs...)
}

// WatchCmd starts the live streams: today's list and the theme, sort and
// streak preferences. Each stream is read one value at a time; Update asks
// for the next one.
func (vm *ViewModel) WatchCmd() tea.Cmd {
	ctx := vm.ctx
	return tea.Batch(
		waitForTasks(vm.deps.Tasks.ObserveToday(ctx)),
		waitForPref(storage.KeyTheme, vm.deps.Prefs.WatchInt(ctx, storage.KeyTheme, int(DefaultTheme))),
		waitForPref(storage.KeySortTask, vm.deps.Prefs.WatchInt(ctx, storage.KeySortTask, int(storage.DefaultSortOrder))),
		waitForPref(storage.KeyStreak, vm.deps.Prefs.WatchInt(ctx, storage.KeyStreak, 0)),
	)
}

func waitForTasks(stream <-chan []storage.Task) tea.Cmd {
	return func() tea.Msg {
		tasks, ok := <-stream
		if !ok {
			return nil
		}
		return TodayTasksMsg{Tasks: tasks, stream: stream}
	}
}

func waitForPref(key string, stream <-chan int) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-stream
		if !ok {
			return nil
		}
		return PrefChangedMsg{Key: key, Value: v, stream: stream}
	}
}

// =============================================================================
// Application Commands
// =============================================================================

func (vm *ViewModel) savePrefCmd(key string, value int) tea.Cmd {
	ctx, prefs := vm.ctx, vm.deps.Prefs
	return func() tea.Msg {
		err := prefs.SaveInt(ctx, key, value)
		return PrefSavedMsg{Key: key, Value: value, Err: err}
	}
}

func (vm *ViewModel) navCmd(item NavItem) tea.Cmd {
	l, opts := vm.deps.Launcher, vm.opts
	return func() tea.Msg {
		if l == nil {
			return NavActionMsg{Item: item, Err: errors.New("no launcher configured")}
		}
		var err error
		switch item {
		case NavReportBugs, NavSuggestions:
			err = l.OpenMail(item.String())
		case NavRateUs:
			err = l.OpenURL(opts.ProjectURL)
		case NavShareApp:
			err = l.Share(opts.ShareText)
		default:
			err = fmt.Errorf("unknown drawer item %d", int(item))
		}
		return NavActionMsg{Item: item, Err: err}
	}
}

// =============================================================================
// Task Commands
// =============================================================================

// markCompletedCmd stores the new completion flag, then cancels the reminder
// of a completed task or re-arms it for a task reopened before its start.
func (vm *ViewModel) markCompletedCmd(id int64, completed bool) tea.Cmd {
	ctx, tasks := vm.ctx, vm.deps.Tasks
	return func() tea.Msg {
		t, err := tasks.GetByID(ctx, id)
		if err != nil {
			return TaskCompletedMsg{TaskID: id, Err: err}
		}
		t.Completed = completed
		if err := tasks.Update(ctx, t); err != nil {
			return TaskCompletedMsg{TaskID: id, Task: t, Err: err}
		}

		msg := TaskCompletedMsg{TaskID: id, Task: t}
		if completed {
			msg.Err = vm.cancelReminder(ctx, t)
		} else if vm.shouldSchedule(t) {
			msg.Scheduled, msg.Err = vm.schedule(ctx, t)
		}
		return msg
	}
}

func (vm *ViewModel) loadTaskCmd(id int64, pomodoro bool) tea.Cmd {
	ctx, tasks := vm.ctx, vm.deps.Tasks
	return func() tea.Msg {
		t, err := tasks.GetByID(ctx, id)
		return TaskLoadedMsg{TaskID: id, Task: t, Pomodoro: pomodoro, Err: err}
	}
}

// deleteCmd cancels the reminder, then deletes the task. If the reminder
// cannot be cancelled the task is kept so no reminder outlives its task.
func (vm *ViewModel) deleteCmd(t storage.Task) tea.Cmd {
	ctx, tasks := vm.ctx, vm.deps.Tasks
	return func() tea.Msg {
		if err := vm.cancelReminder(ctx, t); err != nil {
			return TaskDeletedMsg{Task: t, Err: fmt.Errorf("delete task %d: %w", t.ID, err)}
		}
		return TaskDeletedMsg{Task: t, Err: tasks.Delete(ctx, t)}
	}
}

// createCmd inserts t and arms its reminder. Insert and schedule are not
// atomic: a failed schedule leaves the inserted task in place.
func (vm *ViewModel) createCmd(t storage.Task) tea.Cmd {
	if err := t.Validate(); err != nil {
		return func() tea.Msg { return TaskCreatedMsg{Task: t, Err: err} }
	}
	ctx, tasks := vm.ctx, vm.deps.Tasks
	return func() tea.Msg {
		stored, err := tasks.Insert(ctx, t)
		if err != nil {
			return TaskCreatedMsg{Task: t, Err: err}
		}
		msg := TaskCreatedMsg{Task: stored, Inserted: true}
		if stored.Reminder {
			msg.Scheduled, msg.Err = vm.schedule(ctx, stored)
		}
		return msg
	}
}

// updateCmd persists a snapshot of the staged task and brings its reminder
// in line with the stored flags.
func (vm *ViewModel) updateCmd(t storage.Task) tea.Cmd {
	if err := t.Validate(); err != nil {
		return func() tea.Msg { return TaskUpdatedMsg{Task: t, Err: err} }
	}
	if t.ID == 0 {
		return func() tea.Msg {
			return TaskUpdatedMsg{Task: t, Err: fmt.Errorf("update: %w: staged task was never stored", storage.ErrNotFound)}
		}
	}
	ctx, tasks := vm.ctx, vm.deps.Tasks
	return func() tea.Msg {
		if err := tasks.Update(ctx, t); err != nil {
			return TaskUpdatedMsg{Task: t, Err: err}
		}
		msg := TaskUpdatedMsg{Task: t}
		if t.Reminder && !t.Completed {
			msg.Scheduled, msg.Err = vm.schedule(ctx, t)
		} else {
			msg.Err = vm.cancelReminder(ctx, t)
		}
		return msg
	}
}

// =============================================================================
// Scheduling
// =============================================================================

// shouldSchedule reports whether t wants a reminder right now: reminder on,
// not completed and a start strictly after the current time of day.
func (vm *ViewModel) shouldSchedule(t storage.Task) bool {
	return t.Reminder && !t.Completed && t.StartTime > storage.TimeOfDayOf(vm.now())
}

// schedule arms the reminder for t, retrying failures. A start time the
// scheduler considers past is not an error; it just leaves nothing armed.
func (vm *ViewModel) schedule(ctx context.Context, t storage.Task) (bool, error) {
	err := vm.retry(ctx, func() error { return vm.deps.Scheduler.Schedule(ctx, t) })
	if errors.Is(err, notify.ErrInPast) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("schedule reminder %s: %w", t.UUID, err)
	}
	return true, nil
}

func (vm *ViewModel) cancelReminder(ctx context.Context, t storage.Task) error {
	if t.UUID == "" {
		return nil
	}
	err := vm.retry(ctx, func() error { return vm.deps.Scheduler.Cancel(ctx, t.UUID) })
	if err != nil {
		return fmt.Errorf("cancel reminder %s: %w", t.UUID, err)
	}
	return nil
}

func (vm *ViewModel) retry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt <= vm.opts.ScheduleRetries; attempt++ {
		err = op()
		if err == nil || errors.Is(err, notify.ErrInPast) || ctx.Err() != nil {
			return err
		}
		vm.logger.Debug("scheduler call failed", "attempt", attempt+1, "error", err)
	}
	return err
}
