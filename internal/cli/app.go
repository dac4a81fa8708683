package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/calvinalkan/taskcal/internal/config"
	"github.com/calvinalkan/taskcal/internal/kv"
	"github.com/calvinalkan/taskcal/internal/lyrics"
	"github.com/calvinalkan/taskcal/internal/task"
	"github.com/calvinalkan/taskcal/internal/view"
)

// historyFileName lives in the data directory.
const historyFileName = "shell_history"

// app holds what commands share: config, lazily opened storage and the
// task store, and the process streams.
type app struct {
	cfg    *config.Config
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	storage kv.Storage
	store   *task.Store

	newGenerator func(apiKey string) lyrics.Generator
}

func newApp(cfg *config.Config, in io.Reader, out, errOut io.Writer) *app {
	return &app{
		cfg:    cfg,
		in:     in,
		out:    out,
		errOut: errOut,
		now:    time.Now,
		newGenerator: func(apiKey string) lyrics.Generator {
			return lyrics.NewClient(cfg.LyricsEndpoint, cfg.LyricsModel, apiKey)
		},
	}
}

// openStorage opens the configured backend once.
func (a *app) openStorage() (kv.Storage, error) {
	if a.storage != nil {
		return a.storage, nil
	}

	s, err := kv.Open(a.cfg.Backend, a.cfg.DataDirAbs)
	if err != nil {
		return nil, err
	}

	a.storage = s

	return s, nil
}

// openStore loads the task store from storage once.
func (a *app) openStore() (*task.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	s, err := a.openStorage()
	if err != nil {
		return nil, err
	}

	st, err := task.Open(s, task.WithClock(a.now))
	if err != nil {
		return nil, err
	}

	a.store = st

	return st, nil
}

func (a *app) close() {
	if a.storage != nil {
		_ = a.storage.Close()
	}
}

func (a *app) locale() view.Locale {
	loc, err := view.LookupLocale(a.cfg.Locale)
	if err != nil {
		return view.English()
	}

	return loc
}

// renderer styles output only when writing to the process stdout and
// NO_COLOR is unset; lipgloss further drops styles on non-terminals.
func (a *app) renderer() view.Renderer {
	styles := view.PlainStyles()

	if f, ok := a.out.(*os.File); ok && f == os.Stdout && os.Getenv("NO_COLOR") == "" {
		styles = view.DefaultStyles()
	}

	return view.NewRenderer(a.locale(), styles)
}

func (a *app) historyPath() string {
	return filepath.Join(a.cfg.DataDirAbs, historyFileName)
}

// warnIfNotSaved turns a persistence failure into a warning; the change
// stays in effect for this run. Other errors are returned unchanged.
func warnIfNotSaved(o *IO, err error) error {
	var perr *task.PersistenceError
	if errors.As(err, &perr) {
		o.Warn(perr.Error(), "the change was not saved; check the data directory")

		return nil
	}

	return err
}

// resolveDate accepts YYYY-MM-DD or the words today and tomorrow.
func resolveDate(s string, now time.Time) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return task.FormatDate(now)
	case "tomorrow":
		return task.FormatDate(now.AddDate(0, 0, 1))
	default:
		return strings.TrimSpace(s)
	}
}

func describe(t task.Task) string {
	return fmt.Sprintf("%s %s %s", task.ShortID(t.ID), t.Date, t.Text)
}
