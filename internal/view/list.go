package view

import (
	"cmp"
	"slices"
	"time"

	"github.com/calvinalkan/taskcal/internal/task"
)

// ListItem is one row of the list view.
type ListItem struct {
	Task    task.Task
	ShortID string
	Label   string
	Editing bool
}

// List is the list view projection of the store.
type List struct {
	Items []ListItem
}

// Empty reports whether the list renders as the "no tasks" placeholder.
func (l List) Empty() bool {
	return len(l.Items) == 0
}

// SortForList returns tasks ordered by date, then creation time, then id.
// Dates are zero-padded so string order is calendar order.
func SortForList(tasks []task.Task) []task.Task {
	sorted := slices.Clone(tasks)

	slices.SortStableFunc(sorted, func(a, b task.Task) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}

		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	return sorted
}

// BuildList projects tasks into the list view. editing marks the task being
// edited, if any.
func BuildList(tasks []task.Task, now time.Time, loc Locale, editing *task.ID) List {
	sorted := SortForList(tasks)
	items := make([]ListItem, 0, len(sorted))

	for _, t := range sorted {
		items = append(items, ListItem{
			Task:    t,
			ShortID: task.ShortID(t.ID),
			Label:   RelativeLabel(t.Date, now, loc),
			Editing: editing != nil && *editing == t.ID,
		})
	}

	return List{Items: items}
}
