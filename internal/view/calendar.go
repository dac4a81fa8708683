package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/calvinalkan/taskcal/internal/task"
)

// Grid dimensions: six weeks always, whatever the month's length.
const (
	GridWeeks = 6
	GridDays  = 7
	GridCells = GridWeeks * GridDays
)

var errInvalidMonth = errors.New("month must be YYYY-MM")

// Cursor is the month the calendar shows. Month is 1-12.
type Cursor struct {
	Year  int
	Month time.Month
}

// CursorFor returns the cursor of the month containing t.
func CursorFor(t time.Time) Cursor {
	return Cursor{Year: t.Year(), Month: t.Month()}
}

// ParseCursor parses "YYYY-MM".
func ParseCursor(s string) (Cursor, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil || t.Format("2006-01") != s {
		return Cursor{}, fmt.Errorf("%w: %q", errInvalidMonth, s)
	}

	return CursorFor(t), nil
}

// Next returns the following month, carrying into the next year after December.
func (c Cursor) Next() Cursor {
	if c.Month == time.December {
		return Cursor{Year: c.Year + 1, Month: time.January}
	}

	return Cursor{Year: c.Year, Month: c.Month + 1}
}

// Prev returns the preceding month, borrowing from the previous year before January.
func (c Cursor) Prev() Cursor {
	if c.Month == time.January {
		return Cursor{Year: c.Year - 1, Month: time.December}
	}

	return Cursor{Year: c.Year, Month: c.Month - 1}
}

// Move returns the month n months after c (before it when n < 0).
func (c Cursor) Move(n int) Cursor {
	m := c.Year*12 + int(c.Month-1) + n

	year, month := m/12, m%12
	if month < 0 {
		year--
		month += 12
	}

	return Cursor{Year: year, Month: time.Month(month + 1)}
}

func (c Cursor) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, int(c.Month))
}

// Cell is one day slot of the grid.
type Cell struct {
	Date       string
	Day        int
	Weekday    time.Weekday
	OtherMonth bool
	Today      bool
	Tasks      []task.Task
}

// Grid is the calendar view projection for one month.
type Grid struct {
	Cursor Cursor
	Cells  [GridCells]Cell
}

// Week returns row i (0-5) of the grid.
func (g Grid) Week(i int) []Cell {
	return g.Cells[i*GridDays : (i+1)*GridDays]
}

// DaySource lists the tasks dated one day, in store order. [*task.Store]
// and [task.Tasks] implement it.
type DaySource interface {
	OnDate(date string) []task.Task
}

// BuildGrid lays out the month at c as 42 consecutive days starting on the
// Sunday on or before the 1st. Each cell lists what src holds for that day,
// including the spillover days of the neighbouring months.
func BuildGrid(c Cursor, src DaySource, now time.Time) Grid {
	today := task.FormatDate(now)

	// Noon UTC keeps AddDate clear of any DST edge.
	first := time.Date(c.Year, c.Month, 1, 12, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	g := Grid{Cursor: c}

	for i := 0; i < GridCells; i++ {
		day := start.AddDate(0, 0, i)
		date := task.FormatDate(day)

		g.Cells[i] = Cell{
			Date:       date,
			Day:        day.Day(),
			Weekday:    day.Weekday(),
			OtherMonth: day.Month() != c.Month || day.Year() != c.Year,
			Today:      date == today,
			Tasks:      src.OnDate(date),
		}
	}

	return g
}
