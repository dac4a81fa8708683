package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/calvinalkan/taskcal/internal/task"
)

// Mode is the active view.
type Mode int

// Views the controller switches between.
const (
	ModeList Mode = iota
	ModeCalendar
)

func (m Mode) String() string {
	if m == ModeCalendar {
		return "calendar"
	}

	return "list"
}

// Confirmer asks the user a yes/no question. A dismissed or failed prompt
// must answer false.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to [Confirmer].
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Controller owns the presentation state (active view, calendar cursor and
// the task being edited) and turns each user action into a store operation
// followed by a re-render of both views.
type Controller struct {
	store    *task.Store
	renderer Renderer
	confirm  Confirmer
	now      func() time.Time

	mode    Mode
	cursor  Cursor
	editing *task.ID
	notice  string

	listFrame     string
	calendarFrame string
}

// NewController starts in the list view with the cursor on the current month.
func NewController(store *task.Store, r Renderer, confirm Confirmer, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}

	if confirm == nil {
		confirm = ConfirmFunc(func(string) bool { return false })
	}

	c := &Controller{
		store:    store,
		renderer: r,
		confirm:  confirm,
		now:      now,
		cursor:   CursorFor(now()),
	}
	c.render()

	return c
}

// Mode returns the active view.
func (c *Controller) Mode() Mode { return c.mode }

// Cursor returns the month the calendar shows.
func (c *Controller) Cursor() Cursor { return c.cursor }

// Editing returns the id of the task in edit, if any.
func (c *Controller) Editing() (task.ID, bool) {
	if c.editing == nil {
		return "", false
	}

	return *c.editing, true
}

// Screen returns the notice (if any) followed by the active view's frame.
func (c *Controller) Screen() string {
	frame := c.listFrame
	if c.mode == ModeCalendar {
		frame = c.calendarFrame
	}

	if c.notice == "" {
		return frame
	}

	return c.notice + "\n" + frame
}

// ShowList activates the list view.
func (c *Controller) ShowList() {
	c.mode = ModeList
	c.notice = ""
	c.render()
}

// ShowCalendar activates the calendar and rebuilds its grid from the store.
func (c *Controller) ShowCalendar() {
	c.mode = ModeCalendar
	c.notice = ""
	c.render()
}

// NextMonth moves the calendar one month forward.
func (c *Controller) NextMonth() { c.GoTo(c.cursor.Next()) }

// PrevMonth moves the calendar one month back.
func (c *Controller) PrevMonth() { c.GoTo(c.cursor.Prev()) }

// Today moves the cursor back to the current month.
func (c *Controller) Today() { c.GoTo(CursorFor(c.now())) }

// GoTo shows month cur. The active view does not change.
func (c *Controller) GoTo(cur Cursor) {
	c.cursor = cur
	c.notice = ""
	c.render()
}

// Add creates a task. An empty date means today.
func (c *Controller) Add(text, date string) (task.ID, error) {
	if date == "" {
		date = task.FormatDate(c.now())
	}

	id, err := c.store.Add(text, date)

	return id, c.done(err)
}

// Toggle flips the completion of the task ref resolves to.
func (c *Controller) Toggle(ref string) error {
	id, err := c.store.Resolve(ref)
	if err != nil {
		return c.done(err)
	}

	return c.done(c.store.ToggleComplete(id))
}

// BeginEdit marks the task ref resolves to as being edited, replacing any
// previous edit.
func (c *Controller) BeginEdit(ref string) (task.Task, error) {
	id, err := c.store.Resolve(ref)
	if err != nil {
		return task.Task{}, c.done(err)
	}

	t, _ := c.store.Get(id)
	c.editing = &id

	return t, c.done(nil)
}

// CancelEdit drops the edit in progress without touching the store.
func (c *Controller) CancelEdit() {
	c.editing = nil
	c.notice = ""
	c.render()
}

// SubmitEdit writes text and date to the task in edit and ends the edit.
// A validation failure keeps the edit open. A task deleted meanwhile ends
// the edit with [task.ErrNotFound].
func (c *Controller) SubmitEdit(text, date string) error {
	if c.editing == nil {
		return c.done(errNoEdit)
	}

	err := c.store.Update(*c.editing, text, date)
	if err == nil || !errors.Is(err, task.ErrValidation) {
		c.editing = nil
	}

	return c.done(err)
}

// Delete removes the task ref resolves to after the user confirms. It
// reports whether the task was deleted; declining is not an error.
func (c *Controller) Delete(ref string) (bool, error) {
	id, err := c.store.Resolve(ref)
	if err != nil {
		return false, c.done(err)
	}

	t, _ := c.store.Get(id)
	if !c.confirm.Confirm(fmt.Sprintf("Delete %q?", t.Text)) {
		c.notice = ""
		c.render()

		return false, nil
	}

	if c.editing != nil && *c.editing == id {
		c.editing = nil
	}

	return true, c.done(c.store.Delete(id))
}

var errNoEdit = errors.New("no task is being edited")

// done records err as the notice and re-renders. A persistence failure
// leaves the change in memory, so it is reported as a warning.
func (c *Controller) done(err error) error {
	var perr *task.PersistenceError

	switch {
	case err == nil:
		c.notice = ""
	case errors.As(err, &perr):
		c.notice = "warning: " + err.Error()
	default:
		c.notice = "error: " + err.Error()
	}

	c.render()

	return err
}

func (c *Controller) render() {
	now := c.now()

	c.listFrame = c.renderer.List(BuildList(c.store.All(), now, c.renderer.Locale, c.editing))
	c.calendarFrame = c.renderer.Calendar(BuildGrid(c.cursor, c.store, now))
}
