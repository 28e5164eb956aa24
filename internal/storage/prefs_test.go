package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createTestPreferences(t *testing.T, dir string) *Preferences {
	t.Helper()
	p, err := OpenPreferences(dir)
	if err != nil {
		t.Fatalf("OpenPreferences() error = %v", err)
	}
	return p
}

func TestPreferencesDefaults(t *testing.T) {
	p := createTestPreferences(t, t.TempDir())
	ctx := context.Background()

	n, err := p.LoadInt(ctx, KeyTheme, 1)
	if err != nil || n != 1 {
		t.Errorf("LoadInt(absent) = %d, %v; want 1, nil", n, err)
	}
	s, err := p.LoadString(ctx, KeyLastOpened)
	if err != nil || s != "" {
		t.Errorf("LoadString(absent) = %q, %v; want empty", s, err)
	}
}

func TestPreferencesPersist(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	p := createTestPreferences(t, dir)
	if err := p.SaveInt(ctx, KeyStreak, 4); err != nil {
		t.Fatalf("SaveInt() error = %v", err)
	}
	if err := p.SaveString(ctx, KeyLastOpened, "2026-03-04"); err != nil {
		t.Fatalf("SaveString() error = %v", err)
	}

	reopened := createTestPreferences(t, dir)
	if n, _ := reopened.LoadInt(ctx, KeyStreak, 0); n != 4 {
		t.Errorf("streak after reopen = %d, want 4", n)
	}
	if s, _ := reopened.LoadString(ctx, KeyLastOpened); s != "2026-03-04" {
		t.Errorf("last opened after reopen = %q", s)
	}
}

func TestPreferencesLoadIntNotANumber(t *testing.T) {
	p := createTestPreferences(t, t.TempDir())
	ctx := context.Background()

	if err := p.SaveString(ctx, KeyStreak, "many"); err != nil {
		t.Fatalf("SaveString() error = %v", err)
	}
	n, err := p.LoadInt(ctx, KeyStreak, 0)
	if err == nil {
		t.Error("LoadInt() expected error for non-integer value")
	}
	if n != 0 {
		t.Errorf("LoadInt() = %d, want default 0", n)
	}
}

func TestPreferencesRecoverCorrupt(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	p := createTestPreferences(t, dir)
	if err := p.SaveInt(ctx, KeyTheme, 2); err != nil {
		t.Fatalf("SaveInt() error = %v", err)
	}
	// Second save leaves a .bak holding theme=2.
	if err := p.SaveInt(ctx, KeySortTask, 3); err != nil {
		t.Fatalf("SaveInt() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, PrefsFile), []byte("{not json"), 0600); err != nil {
		t.Fatalf("corrupt prefs: %v", err)
	}

	recovered := createTestPreferences(t, dir)
	if n, _ := recovered.LoadInt(ctx, KeyTheme, 0); n != 2 {
		t.Errorf("theme after recovery = %d, want 2", n)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, PrefsFile+".corrupt.*"))
	if len(matches) != 1 {
		t.Errorf("expected corrupt file to be preserved, found %v", matches)
	}
}

func TestWatchIntEmitsDistinctChanges(t *testing.T) {
	p := createTestPreferences(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := p.WatchInt(ctx, KeyStreak, 0)
	recv := func() int {
		t.Helper()
		select {
		case v := <-stream:
			return v
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for value")
		}
		return -1
	}

	if v := recv(); v != 0 {
		t.Fatalf("initial = %d, want default 0", v)
	}

	// Unrelated keys do not produce a value for this stream.
	if err := p.SaveInt(context.Background(), KeyTheme, 2); err != nil {
		t.Fatal(err)
	}
	if err := p.SaveInt(context.Background(), KeyStreak, 5); err != nil {
		t.Fatal(err)
	}
	if v := recv(); v != 5 {
		t.Errorf("after save = %d, want 5", v)
	}
}

func TestWatchStringClosesOnCancel(t *testing.T) {
	p := createTestPreferences(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())

	stream := p.WatchString(ctx, KeyLastOpened)
	if v := <-stream; v != "" {
		t.Fatalf("initial = %q, want empty", v)
	}
	cancel()

	select {
	case _, ok := <-stream:
		if ok {
			t.Error("expected closed stream")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream not closed after cancel")
	}
}
