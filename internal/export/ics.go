package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/calvinalkan/taskcal/internal/task"
)

const (
	icsDateLayout  = "20060102"
	icsStampLayout = "20060102T150405Z"
	icsLineOctets  = 75
)

// writeICS writes one all-day VEVENT per task. Completed tasks carry
// STATUS:CONFIRMED and a check mark in the summary.
func writeICS(w io.Writer, tasks []task.Task, now time.Time) error {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//taskcal//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}

	stamp := now.UTC().Format(icsStampLayout)

	for _, t := range tasks {
		day, err := task.ParseDate(t.Date, time.UTC)
		if err != nil {
			return fmt.Errorf("export ics: task %s: %w", t.ID, err)
		}

		summary := t.Text
		status := "TENTATIVE"

		if t.Completed {
			summary = "✓ " + summary
			status = "CONFIRMED"
		}

		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+escapeICSText(fmt.Sprintf("task-%s@taskcal", t.ID)),
			"DTSTAMP:"+stamp,
			"CREATED:"+t.CreatedAt.UTC().Format(icsStampLayout),
			"SUMMARY:"+escapeICSText(summary),
			"DTSTART;VALUE=DATE:"+day.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+day.AddDate(0, 0, 1).Format(icsDateLayout),
			"STATUS:"+status,
			"END:VEVENT",
		)
	}

	lines = append(lines, "END:VCALENDAR")

	var b strings.Builder

	for _, l := range lines {
		b.WriteString(foldICSLine(l))
		b.WriteString("\r\n")
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("export ics: %w", err)
	}

	return nil
}

func escapeICSText(s string) string {
	return strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	).Replace(s)
}

// foldICSLine splits lines longer than 75 octets, continuing with a space.
// Splits never fall inside a UTF-8 sequence.
func foldICSLine(line string) string {
	if len(line) <= icsLineOctets {
		return line
	}

	var b strings.Builder

	limit := icsLineOctets
	n := 0

	for _, r := range line {
		size := utf8.RuneLen(r)
		if n+size > limit {
			b.WriteString("\r\n ")

			n = 0
			limit = icsLineOctets - 1
		}

		b.WriteRune(r)
		n += size
	}

	return b.String()
}
