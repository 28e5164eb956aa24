// Package rollover advances date-dependent state once per app activation:
// repeat tasks are reset for the new day and the daily streak is updated.
package rollover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"snaptick/internal/storage"
)

// State is what the last-opened date said about this activation.
type State int

const (
	NeverOpened State = iota
	OpenedToday
	OpenedPriorDay
)

func (s State) String() string {
	switch s {
	case NeverOpened:
		return "never-opened"
	case OpenedToday:
		return "opened-today"
	case OpenedPriorDay:
		return "opened-prior-day"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Tasks is the part of the task store rollover needs.
type Tasks interface {
	ListToday(ctx context.Context, day time.Time) ([]storage.Task, error)
	Update(ctx context.Context, t storage.Task) error
}

// Prefs is the part of the preference store rollover needs.
type Prefs interface {
	LoadInt(ctx context.Context, key string, def int) (int, error)
	LoadString(ctx context.Context, key string) (string, error)
	SaveInt(ctx context.Context, key string, value int) error
	SaveString(ctx context.Context, key, value string) error
}

// Result describes one run.
type Result struct {
	State      State
	LastOpened string // value found before the run
	Reset      int    // repeat tasks moved to today
	Failed     int    // repeat tasks whose reset failed
	Streak     int    // streak after the run
}

// Manager runs the daily rollover.
type Manager struct {
	tasks  Tasks
	prefs  Prefs
	now    func() time.Time
	logger *slog.Logger
}

// New returns a Manager over the given stores.
func New(tasks Tasks, prefs Prefs) *Manager {
	return &Manager{
		tasks:  tasks,
		prefs:  prefs,
		now:    time.Now,
		logger: slog.Default(),
	}
}

// SetNowFunc overrides the clock. Passing nil resets it to time.Now.
func (m *Manager) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.now = now
}

// SetLogger replaces the logger.
func (m *Manager) SetLogger(l *slog.Logger) {
	if l != nil {
		m.logger = l
	}
}

// Run performs the rollover for the current day. Repeat tasks are reset
// independently: a failed update is reported in the returned error but does
// not stop the others or the streak update.
func (m *Manager) Run(ctx context.Context) (Result, error) {
	now := m.now()
	today := storage.FormatDate(now)

	last, err := m.prefs.LoadString(ctx, storage.KeyLastOpened)
	if err != nil {
		return Result{}, fmt.Errorf("rollover: load last opened: %w", err)
	}
	streak, err := m.prefs.LoadInt(ctx, storage.KeyStreak, 0)
	if err != nil {
		m.logger.Warn("rollover: unreadable streak, starting from 0", "error", err)
		streak = 0
	}

	res := Result{LastOpened: last, Streak: streak}

	switch {
	case last == "":
		res.State = NeverOpened
		if err := m.prefs.SaveString(ctx, storage.KeyLastOpened, today); err != nil {
			return res, fmt.Errorf("rollover: save last opened: %w", err)
		}
		m.logger.Info("first run", "date", today)
		return res, nil
	case last == today:
		res.State = OpenedToday
		return res, nil
	}

	res.State = OpenedPriorDay
	var errs []error

	reset, failed, err := m.resetRepeatTasks(ctx, now)
	res.Reset, res.Failed = reset, failed
	if err != nil {
		errs = append(errs, err)
	}

	if isYesterday(last, now) {
		res.Streak = streak + 1
	} else {
		res.Streak = 0
	}
	if err := m.prefs.SaveInt(ctx, storage.KeyStreak, res.Streak); err != nil {
		errs = append(errs, fmt.Errorf("rollover: save streak: %w", err))
	}
	if err := m.prefs.SaveString(ctx, storage.KeyLastOpened, today); err != nil {
		errs = append(errs, fmt.Errorf("rollover: save last opened: %w", err))
	}

	m.logger.Info("rollover",
		"last_opened", last,
		"today", today,
		"reset", res.Reset,
		"failed", res.Failed,
		"streak", res.Streak,
	)
	return res, errors.Join(errs...)
}

// resetRepeatTasks clears completion on repeat tasks still dated a prior day
// and moves them to today.
func (m *Manager) resetRepeatTasks(ctx context.Context, now time.Time) (reset, failed int, err error) {
	today := storage.FormatDate(now)

	tasks, err := m.tasks.ListToday(ctx, now)
	if err != nil {
		return 0, 0, fmt.Errorf("rollover: list today: %w", err)
	}

	var errs []error
	for _, t := range tasks {
		if !t.Repeat || t.Date == today {
			continue
		}
		t.Completed = false
		t.Date = today
		if err := m.tasks.Update(ctx, t); err != nil {
			failed++
			errs = append(errs, fmt.Errorf("rollover: reset task %d: %w", t.ID, err))
			continue
		}
		reset++
	}
	return reset, failed, errors.Join(errs...)
}

// isYesterday reports whether date is the calendar day before now.
// Unparsable dates are never yesterday.
func isYesterday(date string, now time.Time) bool {
	d, err := time.ParseInLocation(storage.DateLayout, date, now.Location())
	if err != nil {
		return false
	}
	y, m, dd := now.AddDate(0, 0, -1).Date()
	return d.Year() == y && d.Month() == m && d.Day() == dd
}
