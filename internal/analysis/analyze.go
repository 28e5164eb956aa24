package analysis

import (
	"sort"
	"time"

	"snaptick/internal/storage"
)

// Analyze builds the free-time report for day from tasks. Completed tasks
// are ignored; the rest are ordered longest first, ties by id.
func Analyze(tasks []storage.Task, day time.Time) *Report {
	pending := make([]storage.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		di, dj := pending[i].Duration(), pending[j].Duration()
		if di != dj {
			return di > dj
		}
		return pending[i].ID < pending[j].ID
	})

	var busy time.Duration
	for _, t := range pending {
		busy += t.Duration()
	}

	slices := make([]Slice, 0, len(pending))
	for _, t := range pending {
		s := Slice{
			TaskID:   t.ID,
			Title:    t.Title,
			Category: t.Category,
			Priority: t.Priority,
			Duration: t.Duration(),
		}
		if busy > 0 {
			s.Share = float64(s.Duration) / float64(busy)
		}
		slices = append(slices, s)
	}

	return &Report{
		Date:        storage.FormatDate(day),
		Total:       len(pending),
		Busy:        busy,
		Free:        FreeTime(busy),
		Slices:      slices,
		GeneratedAt: time.Now(),
	}
}

// FreeTime returns what is left of the day after busy, never negative.
func FreeTime(busy time.Duration) time.Duration {
	if busy >= DayLength {
		return 0
	}
	return DayLength - busy
}
