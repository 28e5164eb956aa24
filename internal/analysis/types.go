// Package analysis breaks a day's outstanding tasks down by duration so the
// free-time screen can show where the day goes.
package analysis

import (
	"time"

	"snaptick/internal/storage"
)

// DayLength is the span free time is measured against.
const DayLength = 24 * time.Hour

// Report summarizes the incomplete tasks of one day.
type Report struct {
	Date        string        `json:"date"`
	Total       int           `json:"total"`
	Busy        time.Duration `json:"busy"`
	Free        time.Duration `json:"free"`
	Slices      []Slice       `json:"slices"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Slice is one task's share of the busy time.
type Slice struct {
	TaskID   int64            `json:"task_id"`
	Title    string           `json:"title"`
	Category string           `json:"category,omitempty"`
	Priority storage.Priority `json:"priority"`
	Duration time.Duration    `json:"duration"`
	Share    float64          `json:"share"` // 0..1 of Busy
}
