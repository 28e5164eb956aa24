package viewmodel

import (
	"time"

	"snaptick/internal/storage"
)

// Event is anything the presentation layer can send to the view model. Every
// event belongs to exactly one family: AppEvent, HomeEvent or EditEvent.
type Event interface {
	event()
}

// AppEvent is an application-level event.
type AppEvent interface {
	Event
	appEvent()
}

// HomeEvent is a task-list event.
type HomeEvent interface {
	Event
	homeEvent()
}

// EditEvent is an edit-form event.
type EditEvent interface {
	Event
	editEvent()
}

// NavItem is an entry of the navigation drawer.
type NavItem int

const (
	NavReportBugs NavItem = iota
	NavSuggestions
	NavRateUs
	NavShareApp
)

func (n NavItem) String() string {
	switch n {
	case NavReportBugs:
		return "Report Bugs"
	case NavSuggestions:
		return "Suggestions"
	case NavRateUs:
		return "Rate Us"
	case NavShareApp:
		return "Share App"
	}
	return "Unknown"
}

// =============================================================================
// Application events
// =============================================================================

// ToggleTheme switches between the Amoled and Dark themes.
type ToggleTheme struct{ Enabled bool }

// SetTheme selects and persists any theme, including Light, which the
// toggle cannot reach.
type SetTheme struct{ Theme Theme }

// UpdateSort changes and persists the task list order.
type UpdateSort struct{ Order storage.SortOrder }

// UpdateFreeTime records the free time computed by the analysis screen.
type UpdateFreeTime struct{ Value time.Duration }

// NavDrawerAction hands a drawer entry to the launcher.
type NavDrawerAction struct{ Item NavItem }

func (ToggleTheme) event()     {}
func (SetTheme) event()        {}
func (UpdateSort) event()      {}
func (UpdateFreeTime) event()  {}
func (NavDrawerAction) event() {}

func (ToggleTheme) appEvent()     {}
func (SetTheme) appEvent()        {}
func (UpdateSort) appEvent()      {}
func (UpdateFreeTime) appEvent()  {}
func (NavDrawerAction) appEvent() {}

// =============================================================================
// Task list events
// =============================================================================

// MarkCompleted sets the completion flag of a stored task.
type MarkCompleted struct {
	TaskID    int64
	Completed bool
}

// RequestEdit loads a task into the staged slot for the edit form.
type RequestEdit struct{ TaskID int64 }

// RequestPomodoro loads a task into the staged slot for the pomodoro timer.
type RequestPomodoro struct{ TaskID int64 }

// SwipeDelete removes a task from the list.
type SwipeDelete struct{ Task storage.Task }

func (MarkCompleted) event()   {}
func (RequestEdit) event()     {}
func (RequestPomodoro) event() {}
func (SwipeDelete) event()     {}

func (MarkCompleted) homeEvent()   {}
func (RequestEdit) homeEvent()     {}
func (RequestPomodoro) homeEvent() {}
func (SwipeDelete) homeEvent()     {}

// =============================================================================
// Edit form events
// =============================================================================

// NewDraft replaces the staged task with an empty one for today.
type NewDraft struct{}

type (
	SetTitle          struct{ Title string }
	SetStartTime      struct{ Time storage.TimeOfDay }
	SetEndTime        struct{ Time storage.TimeOfDay }
	SetPriority       struct{ Priority storage.Priority }
	SetReminder       struct{ Enabled bool }
	SetRepeat         struct{ Enabled bool }
	SetRepeatWeekdays struct{ Days []time.Weekday }
	SetCategory       struct{ Category string }
	SetPomodoro       struct{ Minutes int }
	SetDate           struct{ Date string }
)

// Create inserts a new task.
type Create struct{ Task storage.Task }

// Update persists the staged task.
type Update struct{}

// Delete removes a task from the edit screen.
type Delete struct{ Task storage.Task }

func (NewDraft) event()          {}
func (SetTitle) event()          {}
func (SetStartTime) event()      {}
func (SetEndTime) event()        {}
func (SetPriority) event()       {}
func (SetReminder) event()       {}
func (SetRepeat) event()         {}
func (SetRepeatWeekdays) event() {}
func (SetCategory) event()       {}
func (SetPomodoro) event()       {}
func (SetDate) event()           {}
func (Create) event()            {}
func (Update) event()            {}
func (Delete) event()            {}

func (NewDraft) editEvent()          {}
func (SetTitle) editEvent()          {}
func (SetStartTime) editEvent()      {}
func (SetEndTime) editEvent()        {}
func (SetPriority) editEvent()       {}
func (SetReminder) editEvent()       {}
func (SetRepeat) editEvent()         {}
func (SetRepeatWeekdays) editEvent() {}
func (SetCategory) editEvent()       {}
func (SetPomodoro) editEvent()       {}
func (SetDate) editEvent()           {}
func (Create) editEvent()            {}
func (Update) editEvent()            {}
func (Delete) editEvent()            {}
