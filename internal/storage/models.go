package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the on-disk format for calendar dates (no time component).
const DateLayout = "2006-01-02"

const maxTitleLen = 200

var (
	// ErrNotFound is returned when a task id does not exist in the store.
	ErrNotFound = errors.New("task not found")

	// ErrInvalidTask wraps every validation failure reported by Task.Validate.
	ErrInvalidTask = errors.New("invalid task")

	// ErrInvalidTimeRange is returned for tasks whose end time precedes their
	// start time. Overnight tasks are not wrapped around midnight.
	ErrInvalidTimeRange = fmt.Errorf("%w: end time before start time", ErrInvalidTask)
)

// Priority is an ordered task priority. The numeric value is persisted.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// String returns the lowercase priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// ParsePriority accepts "low", "medium", "high" (or l/m/h), case-insensitive.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l", "0":
		return PriorityLow, nil
	case "medium", "med", "m", "1":
		return PriorityMedium, nil
	case "high", "h", "2":
		return PriorityHigh, nil
	}
	return 0, fmt.Errorf("invalid priority %q: must be low, medium, or high", s)
}

// Task is a time-boxed to-do item with optional recurrence and reminder.
//
// UUID is assigned once at insert and is the correlation key for scheduled
// notifications; ID is the store's row id and may be reassigned on re-insert.
type Task struct {
	ID              int64          `json:"id"`
	UUID            string         `json:"uuid"`
	Title           string         `json:"title"`
	Completed       bool           `json:"completed"`
	StartTime       TimeOfDay      `json:"start_time"`
	EndTime         TimeOfDay      `json:"end_time"`
	Reminder        bool           `json:"reminder"`
	Repeat          bool           `json:"repeat"`
	RepeatWeekdays  []time.Weekday `json:"repeat_weekdays,omitempty"` // 0=Sunday, 1=Monday, etc.
	PomodoroMinutes int            `json:"pomodoro_minutes,omitempty"`
	Date            string         `json:"date"` // YYYY-MM-DD format
	Category        string         `json:"category,omitempty"`
	Priority        Priority       `json:"priority"`
}

// Duration is EndTime - StartTime. It is negative only for tasks that fail
// Validate.
func (t Task) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}

// RepeatsOn reports whether a repeat task is due on the given weekday. An
// empty weekday set means every day.
func (t Task) RepeatsOn(day time.Weekday) bool {
	if !t.Repeat {
		return false
	}
	if len(t.RepeatWeekdays) == 0 {
		return true
	}
	for _, d := range t.RepeatWeekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Validate checks the invariants a task must hold before it is stored.
func (t Task) Validate() error {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return fmt.Errorf("%w: title too long (max %d)", ErrInvalidTask, maxTitleLen)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %d", ErrInvalidTask, int(t.Priority))
	}
	if t.PomodoroMinutes < 0 {
		return fmt.Errorf("%w: pomodoro duration must not be negative", ErrInvalidTask)
	}
	if !t.StartTime.Valid() || !t.EndTime.Valid() {
		return fmt.Errorf("%w: time of day out of range", ErrInvalidTask)
	}
	if t.EndTime < t.StartTime {
		return ErrInvalidTimeRange
	}
	for _, d := range t.RepeatWeekdays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidTask, int(d))
		}
	}
	if t.Date != "" {
		if _, err := time.Parse(DateLayout, t.Date); err != nil {
			return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidTask, t.Date)
		}
	}
	return nil
}

// FormatDate renders the calendar date of t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseWeekdays parses a comma separated list such as "mon,wed,fri" or "1,3,5".
func ParseWeekdays(s string) ([]time.Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var days []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		d, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	return days, nil
}

var weekdayNames = map[string]time.Weekday{
	"0": time.Sunday, "sun": time.Sunday, "sunday": time.Sunday,
	"1": time.Monday, "mon": time.Monday, "monday": time.Monday,
	"2": time.Tuesday, "tue": time.Tuesday, "tuesday": time.Tuesday,
	"3": time.Wednesday, "wed": time.Wednesday, "wednesday": time.Wednesday,
	"4": time.Thursday, "thu": time.Thursday, "thursday": time.Thursday,
	"5": time.Friday, "fri": time.Friday, "friday": time.Friday,
	"6": time.Saturday, "sat": time.Saturday, "saturday": time.Saturday,
}
