// Package task holds the task record and the store that owns the collection
// and mirrors it to durable key-value storage.
package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the only accepted form for a task date.
const DateLayout = "2006-01-02"

// ID identifies a task for the lifetime of the store.
type ID string

// UnmarshalJSON accepts string ids and the numeric (millisecond timestamp)
// ids written by older versions.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string

		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}

		*id = ID(s)

		return nil
	}

	var n json.Number

	err := json.Unmarshal(data, &n)
	if err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}

	*id = ID(n.String())

	return nil
}

// Task is one to-do entry.
type Task struct {
	ID        ID        `json:"id"        yaml:"id"`
	Text      string    `json:"text"      yaml:"text"`
	Date      string    `json:"date"      yaml:"date"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Tasks is a task collection in store order.
type Tasks []Task

// OnDate returns the tasks dated date. The result never aliases ts.
func (ts Tasks) OnDate(date string) []Task {
	var out []Task

	for _, t := range ts {
		if t.Date == date {
			out = append(out, t)
		}
	}

	return out
}

// FormatDate renders t's calendar day in its own location as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrValidation, s)
	}

	// Reject forms time.Parse tolerates but the wire format does not.
	if d.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrValidation, s)
	}

	return d, nil
}

func normalizeFields(text, date string) (string, string, error) {
	text = strings.TrimSpace(text)
	date = strings.TrimSpace(date)

	if text == "" {
		return "", "", fmt.Errorf("%w: text is empty", ErrValidation)
	}

	if date == "" {
		return "", "", fmt.Errorf("%w: date is empty", ErrValidation)
	}

	_, err := ParseDate(date, time.UTC)
	if err != nil {
		return "", "", err
	}

	return text, date, nil
}

func newUUIDv7() (ID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuidv7: %w", err)
	}

	return ID(id.String()), nil
}
