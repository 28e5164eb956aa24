package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"snaptick/internal/storage"
)

// ErrInPast is returned by Schedule when the task's start has already passed.
// Nothing is armed in that case.
var ErrInPast = errors.New("start time already passed")

// timer is the part of *time.Timer the scheduler needs.
type timer interface {
	Stop() bool
}

type entry struct {
	timer timer
	gen   uint64
	at    time.Time
}

// Scheduler arms one reminder per task uuid. Rescheduling a uuid replaces
// its previous reminder; Cancel is idempotent. Reminders live in memory and
// do not survive a restart.
type Scheduler struct {
	mu       sync.Mutex
	entries  map[string]entry
	gen      uint64
	notifier Notifier
	sound    bool
	now      func() time.Time
	after    func(d time.Duration, f func()) timer
	logger   *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the clock used to compute delays.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithSound requests an audible notification.
func WithSound(sound bool) Option {
	return func(s *Scheduler) { s.sound = sound }
}

// WithLogger sets the logger used for delivery failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// NewScheduler creates a scheduler that delivers through n.
func NewScheduler(n Notifier, opts ...Option) *Scheduler {
	if n == nil {
		n = Discard{}
	}
	s := &Scheduler{
		entries:  make(map[string]entry),
		notifier: n,
		now:      time.Now,
		after: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule arms a reminder at the task's date and start time. An existing
// reminder for the same uuid is replaced, even when the new time is in the
// past and ErrInPast is returned.
func (s *Scheduler) Schedule(ctx context.Context, t storage.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.UUID == "" {
		return fmt.Errorf("schedule %q: task has no uuid", t.Title)
	}

	now := s.now()
	at, err := fireTime(t, now)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked(t.UUID)

	delay := at.Sub(now)
	if delay <= 0 {
		return fmt.Errorf("schedule %q: %w (%s)", t.Title, ErrInPast, at.Format("2006-01-02 15:04"))
	}

	s.gen++
	gen, uuid, n := s.gen, t.UUID, s.notification(t)
	s.entries[uuid] = entry{
		timer: s.after(delay, func() { s.fire(uuid, gen, n) }),
		gen:   gen,
		at:    at,
	}
	return nil
}

// Cancel drops the reminder for uuid, if any.
func (s *Scheduler) Cancel(ctx context.Context, uuid string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.stopLocked(uuid)
	s.mu.Unlock()
	return nil
}

// Pending reports whether a reminder is armed for uuid.
func (s *Scheduler) Pending(uuid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[uuid]
	return ok
}

// FireTime returns when the reminder for uuid is due.
func (s *Scheduler) FireTime(uuid string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[uuid]
	return e.at, ok
}

// Len returns the number of armed reminders.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stop cancels every armed reminder.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uuid := range s.entries {
		s.stopLocked(uuid)
	}
}

func (s *Scheduler) stopLocked(uuid string) {
	if e, ok := s.entries[uuid]; ok {
		e.timer.Stop()
		delete(s.entries, uuid)
	}
}

// fire delivers a reminder unless it was replaced or cancelled after the
// timer went off.
func (s *Scheduler) fire(uuid string, gen uint64, n Notification) {
	s.mu.Lock()
	e, ok := s.entries[uuid]
	if !ok || e.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.entries, uuid)
	s.mu.Unlock()

	if err := s.notifier.Notify(n); err != nil {
		s.logger.Warn("reminder delivery failed", "uuid", uuid, "error", err)
		return
	}
	s.logger.Debug("reminder delivered", "uuid", uuid, "title", n.Title)
}

func (s *Scheduler) notification(t storage.Task) Notification {
	body := fmt.Sprintf("%s - %s", t.StartTime, t.EndTime)
	if t.Category != "" {
		body += " · " + t.Category
	}
	return Notification{Title: t.Title, Body: body, Sound: s.sound}
}

func fireTime(t storage.Task, now time.Time) (time.Time, error) {
	day := now
	if t.Date != "" {
		d, err := time.ParseInLocation(storage.DateLayout, t.Date, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("schedule %q: bad date %q: %w", t.Title, t.Date, err)
		}
		day = d
	}
	return t.StartTime.On(day), nil
}
