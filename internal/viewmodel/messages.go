package viewmodel

// This file defines the result messages of the view model's background
// commands. Each carries the error of its background half; Update applies
// them on the UI loop.

import (
	"snaptick/internal/rollover"
	"snaptick/internal/storage"
)

// =============================================================================
// Application Messages
// =============================================================================

// PrefSavedMsg is sent when a preference write completes.
type PrefSavedMsg struct {
	Key   string
	Value int
	Err   error
}

// NavActionMsg is sent when the launcher has handled a drawer entry.
type NavActionMsg struct {
	Item NavItem
	Err  error
}

// SessionLoadedMsg is sent once the start-of-session work is done.
type SessionLoadedMsg struct {
	Rollover rollover.Result
	Theme    Theme
	SortBy   storage.SortOrder
	Streak   int
	Rearmed  int // reminders armed again for today
	Err      error
}

// =============================================================================
// Task Messages
// =============================================================================

// TaskCompletedMsg is sent when MarkCompleted has been applied.
type TaskCompletedMsg struct {
	TaskID    int64
	Task      storage.Task
	Scheduled bool
	Err       error
}

// TaskLoadedMsg is sent when a task has been fetched for the staged slot.
type TaskLoadedMsg struct {
	TaskID   int64
	Task     storage.Task
	Pomodoro bool
	Err      error
}

// TaskDeletedMsg is sent when a task and its reminder are gone.
type TaskDeletedMsg struct {
	Task storage.Task
	Err  error
}

// TaskCreatedMsg is sent after Create. Task carries the stored id and uuid
// when the insert succeeded, even if Err reports a scheduling failure.
type TaskCreatedMsg struct {
	Task      storage.Task
	Inserted  bool
	Scheduled bool
	Err       error
}

// TaskUpdatedMsg is sent after Update.
type TaskUpdatedMsg struct {
	Task      storage.Task
	Scheduled bool
	Err       error
}

// =============================================================================
// Stream Messages
// =============================================================================

// TodayTasksMsg carries a fresh snapshot of today's list.
type TodayTasksMsg struct {
	Tasks  []storage.Task
	stream <-chan []storage.Task
}

// PrefChangedMsg carries a new value of a watched preference.
type PrefChangedMsg struct {
	Key    string
	Value  int
	stream <-chan int
}
