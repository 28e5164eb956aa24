package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"snaptick/internal/config"
	"snaptick/internal/notify"
	"snaptick/internal/storage"
	"snaptick/internal/viewmodel"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// testNow is a Wednesday morning.
var testNow = time.Date(2026, 3, 4, 8, 0, 0, 0, time.Local)

// setupTest disables colors so rendered output is plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

type testEnv struct {
	app   *App
	vm    *viewmodel.ViewModel
	tasks *storage.TaskStore
	prefs *storage.Preferences
	now   time.Time
}

// newTestEnv builds an App on real stores in a temp directory. The clock is
// env.now and can be moved by tests.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	setupTest(t)

	env := &testEnv{now: testNow}
	clock := func() time.Time { return env.now }
	dir := t.TempDir()

	tasks, err := storage.OpenTaskStore(filepath.Join(dir, storage.TasksFile))
	if err != nil {
		t.Fatalf("OpenTaskStore() error = %v", err)
	}
	tasks.SetNowFunc(clock)
	t.Cleanup(func() { tasks.Close() })

	prefs, err := storage.OpenPreferences(dir)
	if err != nil {
		t.Fatalf("OpenPreferences() error = %v", err)
	}

	sched := notify.NewScheduler(notify.Discard{}, notify.WithClock(clock))
	t.Cleanup(sched.Stop)

	env.vm = viewmodel.New(
		viewmodel.Deps{Tasks: tasks, Prefs: prefs, Scheduler: sched},
		viewmodel.Options{BuildVersion: "test", Now: clock},
	)
	t.Cleanup(env.vm.Close)

	env.app = NewApp(env.vm, &AppConfig{
		Keys:             &config.KeysConfig{},
		ConfirmDeletions: true,
		Now:              clock,
	})
	env.app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	env.tasks, env.prefs = tasks, prefs
	return env
}

// seed stores tasks and shows them as today's list.
func (e *testEnv) seed(t *testing.T, tasks ...storage.Task) []storage.Task {
	t.Helper()
	stored := make([]storage.Task, 0, len(tasks))
	for _, task := range tasks {
		s, err := e.tasks.Insert(context.Background(), task)
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		stored = append(stored, s)
	}
	e.app.Update(viewmodel.TodayTasksMsg{Tasks: stored})
	return stored
}

// press sends a key and returns the resulting command.
func (e *testEnv) press(k string) tea.Cmd {
	_, cmd := e.app.Update(keyMsg(k))
	return cmd
}

// run executes cmd with a timeout and feeds its message back to the app.
func (e *testEnv) run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		e.app.Update(msg)
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for command")
	}
	return nil
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func sampleTask(title string, start, end storage.TimeOfDay) storage.Task {
	return storage.Task{
		Title:     title,
		StartTime: start,
		EndTime:   end,
		Date:      "2026-03-04",
	}
}
