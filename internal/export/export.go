// Package export writes tasks in formats other programs read: JSON, YAML,
// iCalendar and a printable PDF month sheet.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/taskcal/internal/task"
	"github.com/calvinalkan/taskcal/internal/view"
)

// Format names accepted by [Write], in any letter case.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatICS  = "ics"
	FormatPDF  = "pdf"
)

// ErrUnknownFormat reports a format name [Write] does not support.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported format names.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatICS, FormatPDF}
}

// Options controls an export.
type Options struct {
	// Month limits the json, yaml and ics exports to tasks dated in that
	// month. The PDF sheet always draws one month grid, the current one
	// when Month is nil.
	Month *view.Cursor
	Now   time.Time
}

// Write exports tasks to w in format. Tasks are written in list order.
func Write(w io.Writer, format string, tasks []task.Task, opts Options) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	listed := view.SortForList(filterMonth(tasks, opts.Month))

	switch Normalize(format) {
	case FormatJSON:
		return writeJSON(w, listed)
	case FormatYAML:
		return writeYAML(w, listed)
	case FormatICS:
		return writeICS(w, listed, opts.Now)
	case FormatPDF:
		return writePDF(w, SheetGrid(tasks, opts))
	default:
		return fmt.Errorf("%w: %s (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

// Normalize returns the canonical (lower-case) spelling of a format name.
func Normalize(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// SheetGrid is the month grid the PDF sheet draws: opts.Month, or the month
// of opts.Now. Like the terminal calendar, the leading and trailing days of
// the neighbouring months keep their tasks, so tasks are not month-filtered.
func SheetGrid(tasks []task.Task, opts Options) view.Grid {
	month := view.CursorFor(opts.Now)
	if opts.Month != nil {
		month = *opts.Month
	}

	return view.BuildGrid(month, task.Tasks(tasks), opts.Now)
}

func filterMonth(tasks []task.Task, month *view.Cursor) []task.Task {
	if month == nil {
		return tasks
	}

	prefix := month.String() + "-"

	var out []task.Task

	for _, t := range tasks {
		if strings.HasPrefix(t.Date, prefix) {
			out = append(out, t)
		}
	}

	return out
}

func writeJSON(w io.Writer, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(tasks)
	if err != nil {
		return fmt.Errorf("export json: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(tasks)
	if err != nil {
		return fmt.Errorf("export yaml: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("export yaml: %w", err)
	}

	return nil
}
