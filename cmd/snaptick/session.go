package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"snaptick/internal/config"
	"snaptick/internal/launch"
	"snaptick/internal/notify"
	"snaptick/internal/rollover"
	"snaptick/internal/storage"
	"snaptick/internal/viewmodel"

	tea "github.com/charmbracelet/bubbletea"
)

// session is one activation of the app: config, stores and the view model
// wired together.
type session struct {
	cfg     *config.Config
	tasks   *storage.TaskStore
	prefs   *storage.Preferences
	sched   *notify.Scheduler
	vm      *viewmodel.ViewModel
	logger  *slog.Logger
	closers []func() error
	now     func() time.Time
}

// openSession loads the config and wires the stores, scheduler, launcher and
// rollover into a view model. Logs go to stderr when verbose is set,
// otherwise to the configured log file.
func openSession(opts *rootOptions, stderr io.Writer) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}

	s := &session{cfg: cfg, now: opts.now}
	if s.now == nil {
		s.now = time.Now
	}

	logger, closeLog, err := newLogger(cfg, opts.Verbose, stderr)
	if err != nil {
		return nil, err
	}
	s.logger = logger
	s.closers = append(s.closers, closeLog)

	dataDir := cfg.GetDataDir()
	prefs, err := storage.OpenPreferences(dataDir)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.prefs = prefs

	tasks, err := storage.OpenTaskStore(filepath.Join(dataDir, storage.TasksFile))
	if err != nil {
		s.Close()
		return nil, err
	}
	tasks.SetNowFunc(s.now)
	tasks.SetLogger(logger)
	s.tasks = tasks
	s.closers = append(s.closers, tasks.Close)

	var notifier notify.Notifier = notify.Discard{}
	if cfg.Notifications.Enabled {
		notifier = notify.New()
	}
	s.sched = notify.NewScheduler(notifier,
		notify.WithClock(s.now),
		notify.WithSound(cfg.Notifications.Sound),
		notify.WithLogger(logger),
	)
	s.closers = append(s.closers, func() error { s.sched.Stop(); return nil })

	roll := rollover.New(tasks, prefs)
	roll.SetNowFunc(s.now)
	roll.SetLogger(logger)

	s.vm = viewmodel.New(
		viewmodel.Deps{
			Tasks:     tasks,
			Prefs:     prefs,
			Scheduler: s.sched,
			Launcher:  launch.New(cfg.Links.FeedbackEmail),
			Rollover:  roll,
		},
		viewmodel.Options{
			BuildVersion:    version,
			ProjectURL:      cfg.Links.ProjectURL,
			ShareText:       cfg.Links.ShareText,
			ScheduleRetries: cfg.Notifications.Retries,
			Now:             s.now,
			Logger:          logger,
		},
	)
	return s, nil
}

// Close releases everything in reverse order of acquisition.
func (s *session) Close() error {
	if s.vm != nil {
		s.vm.Close()
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// start runs the start-of-session work (rollover, preference load and
// reminder re-arm) synchronously.
func (s *session) start() (viewmodel.SessionLoadedMsg, error) {
	msg, err := s.dispatch(s.vm.StartCmd())
	loaded, _ := msg.(viewmodel.SessionLoadedMsg)
	return loaded, err
}

// handle sends ev to the view model and waits for its background half.
func (s *session) handle(ev viewmodel.Event) (tea.Msg, error) {
	return s.dispatch(s.vm.Handle(ev))
}

func (s *session) dispatch(cmd tea.Cmd) (tea.Msg, error) {
	if cmd == nil {
		return nil, nil
	}
	msg := cmd()
	s.vm.Update(msg)
	return msg, s.vm.LastError()
}

// task looks up a task by id for commands that take one.
func (s *session) task(ctx context.Context, id int64) (storage.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return storage.Task{}, fmt.Errorf("task %d: %w", id, err)
	}
	return t, nil
}

func newLogger(cfg *config.Config, verbose bool, stderr io.Writer) (*slog.Logger, func() error, error) {
	if verbose {
		h := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		return slog.New(h), func() error { return nil }, nil
	}

	path := cfg.LogPath()
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel()})
	return slog.New(h), f.Close, nil
}
