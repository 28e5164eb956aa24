package storage

import (
	"fmt"
	"sort"
	"strings"
)

// SortOrder selects how the task list is ordered. The numeric value is
// persisted as a preference.
type SortOrder int

const (
	SortCreatedAsc SortOrder = iota
	SortCreatedDesc
	SortStartTimeAsc
	SortStartTimeDesc
	SortPriorityAsc
	SortPriorityDesc
)

// DefaultSortOrder is used when no preference has been saved.
const DefaultSortOrder = SortStartTimeAsc

var sortOrderNames = []string{
	"created", "created-desc",
	"start", "start-desc",
	"priority-asc", "priority",
}

// String returns the CLI name of the order.
func (o SortOrder) String() string {
	if !o.Valid() {
		return fmt.Sprintf("sort(%d)", int(o))
	}
	return sortOrderNames[o]
}

// Valid reports whether o is a known order.
func (o SortOrder) Valid() bool {
	return o >= SortCreatedAsc && o <= SortPriorityDesc
}

// SortOrderFromOrdinal maps a stored ordinal back to an order, falling back
// to DefaultSortOrder for unknown values.
func SortOrderFromOrdinal(n int) SortOrder {
	o := SortOrder(n)
	if !o.Valid() {
		return DefaultSortOrder
	}
	return o
}

// ParseSortOrder accepts the names returned by SortOrder.String.
func ParseSortOrder(s string) (SortOrder, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range sortOrderNames {
		if name == s {
			return SortOrder(i), nil
		}
	}
	return 0, fmt.Errorf("invalid sort order %q: must be one of %s", s, strings.Join(sortOrderNames, ", "))
}

// SortTasks returns a sorted copy of tasks. Completed tasks always go last;
// ties fall back to id so the result is deterministic.
func SortTasks(tasks []Task, order SortOrder) []Task {
	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		if a.Completed != b.Completed {
			return !a.Completed
		}

		switch order {
		case SortCreatedDesc:
			return a.ID > b.ID
		case SortStartTimeAsc:
			if a.StartTime != b.StartTime {
				return a.StartTime < b.StartTime
			}
		case SortStartTimeDesc:
			if a.StartTime != b.StartTime {
				return a.StartTime > b.StartTime
			}
		case SortPriorityAsc:
			if a.Priority != b.Priority {
				return a.Priority < b.Priority
			}
		case SortPriorityDesc:
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
		}
		return a.ID < b.ID
	})

	return sorted
}
