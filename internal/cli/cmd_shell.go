package cli

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskcal/internal/task"
	"github.com/calvinalkan/taskcal/internal/view"
)

const shellHelp = `Commands:
  ls | list                  show the task list
  cal | calendar             show the calendar
  next | n, prev | p, today  move the calendar month
  month YYYY-MM              jump to a month
  add [date] <text>          add a task (date: YYYY-MM-DD, today, tomorrow)
  done | toggle <id>         flip completion
  edit <id>                  edit text and date (empty input keeps a field)
  cancel                     stop editing
  rm <id>                    delete after confirmation
  help | ?                   this help
  quit | exit | q            leave`

// ShellCmd returns the interactive shell command.
func ShellCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive list and calendar",
		Long:  "Start an interactive session that switches between the list and calendar views.\n\n" + shellHelp,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execShell(ctx, o, a)
		},
	}
}

type shell struct {
	o     *IO
	a     *app
	lines lineReader
	ctl   *view.Controller
}

func execShell(ctx context.Context, o *IO, a *app) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}

	lines := newLineReader(a.in, a.out, a.historyPath())
	defer lines.Close()

	sh := &shell{
		o:     o,
		a:     a,
		lines: lines,
		ctl:   view.NewController(store, a.renderer(), confirmer{lines: lines}, a.now),
	}

	o.Printf("%s", sh.ctl.Screen())

	for ctx.Err() == nil {
		line, err := lines.Prompt(sh.prompt())
		if err != nil {
			if errors.Is(err, errAborted) || errors.Is(err, io.EOF) {
				o.Println()

				return nil
			}

			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lines.AppendHistory(line)

		if sh.dispatch(line) {
			return nil
		}
	}

	return nil
}

func (sh *shell) prompt() string {
	if sh.ctl.Mode() == view.ModeCalendar {
		return "tc " + sh.ctl.Cursor().String() + "> "
	}

	return "tc> "
}

// dispatch runs one shell command and reports whether the shell should exit.
func (sh *shell) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		sh.o.Println(shellHelp)

		return false
	case "ls", "list":
		sh.ctl.ShowList()
	case "cal", "calendar":
		sh.ctl.ShowCalendar()
	case "next", "n":
		sh.ctl.NextMonth()
	case "prev", "p":
		sh.ctl.PrevMonth()
	case "today":
		sh.ctl.Today()
	case "month", "m":
		cur, err := view.ParseCursor(rest)
		if err != nil {
			sh.o.Println("error:", err)

			return false
		}

		sh.ctl.GoTo(cur)
	case "add":
		sh.add(args, rest)
	case "done", "toggle":
		_ = sh.ctl.Toggle(rest)
	case "edit":
		sh.edit(rest)
	case "cancel":
		sh.ctl.CancelEdit()
	case "rm", "delete":
		_, _ = sh.ctl.Delete(rest)
	default:
		sh.o.Println("unknown command:", cmd, "(type 'help' for commands)")

		return false
	}

	sh.o.Printf("%s", sh.ctl.Screen())

	return false
}

func (sh *shell) add(args []string, rest string) {
	date := ""

	if len(args) > 1 {
		first := strings.ToLower(args[0])
		if first == "today" || first == "tomorrow" || isDate(first) {
			date = resolveDate(first, sh.a.now())
			rest = strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
		}
	}

	_, _ = sh.ctl.Add(rest, date)
}

func (sh *shell) edit(ref string) {
	t, err := sh.ctl.BeginEdit(ref)
	if err != nil {
		return
	}

	sh.o.Printf("%s", sh.ctl.Screen())

	text, err := sh.lines.Prompt("text [" + t.Text + "]: ")
	if err != nil {
		sh.ctl.CancelEdit()

		return
	}

	date, err := sh.lines.Prompt("date [" + t.Date + "]: ")
	if err != nil {
		sh.ctl.CancelEdit()

		return
	}

	if strings.TrimSpace(text) == "" {
		text = t.Text
	}

	if strings.TrimSpace(date) == "" {
		date = t.Date
	} else {
		date = resolveDate(date, sh.a.now())
	}

	_ = sh.ctl.SubmitEdit(text, date)
}

func isDate(s string) bool {
	_, err := task.ParseDate(s, time.UTC)

	return err == nil
}
