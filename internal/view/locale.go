package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/calvinalkan/taskcal/internal/task"
)

// ErrUnknownLocale reports a locale name with no translations.
var ErrUnknownLocale = errors.New("unknown locale")

// Locale holds the user-facing words and date forms of one language.
type Locale struct {
	Name     string
	Today    string
	Tomorrow string
	NoTasks  string
	Weekdays [7]string // Sunday first

	shortDate  func(time.Time) string
	monthTitle func(year int, month time.Month) string
}

// ShortDate renders d as abbreviated month, day number and weekday.
func (l Locale) ShortDate(d time.Time) string {
	return l.shortDate(d)
}

// MonthTitle renders the heading of a calendar month.
func (l Locale) MonthTitle(year int, month time.Month) string {
	return l.monthTitle(year, month)
}

var koWeekdays = [7]string{"일", "월", "화", "수", "목", "금", "토"}

var locales = map[string]Locale{
	"en": {
		Name:     "en",
		Today:    "today",
		Tomorrow: "tomorrow",
		NoTasks:  "No tasks yet.",
		Weekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		shortDate: func(d time.Time) string {
			return d.Format("Mon, Jan 2")
		},
		monthTitle: func(year int, month time.Month) string {
			return fmt.Sprintf("%s %d", month, year)
		},
	},
	"ko": {
		Name:     "ko",
		Today:    "오늘",
		Tomorrow: "내일",
		NoTasks:  "할 일이 없습니다.",
		Weekdays: koWeekdays,
		shortDate: func(d time.Time) string {
			return fmt.Sprintf("%d월 %d일 (%s)", int(d.Month()), d.Day(), koWeekdays[d.Weekday()])
		},
		monthTitle: func(year int, month time.Month) string {
			return fmt.Sprintf("%d년 %d월", year, int(month))
		},
	},
}

// LookupLocale returns the locale called name.
func LookupLocale(name string) (Locale, error) {
	l, ok := locales[name]
	if !ok {
		return Locale{}, fmt.Errorf("%w: %s", ErrUnknownLocale, name)
	}

	return l, nil
}

// English is the default locale.
func English() Locale {
	return locales["en"]
}

// RelativeLabel names date relative to now: the locale's "today" or
// "tomorrow" words, else its short date form. Days are compared as
// YYYY-MM-DD strings in now's location, so DST shifts never move a task
// to a neighbouring day.
func RelativeLabel(date string, now time.Time, loc Locale) string {
	if date == task.FormatDate(now) {
		return loc.Today
	}

	if date == task.FormatDate(now.AddDate(0, 0, 1)) {
		return loc.Tomorrow
	}

	d, err := task.ParseDate(date, now.Location())
	if err != nil {
		return date
	}

	return loc.ShortDate(d)
}
