package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskcal/internal/view"
)

// CalCmd returns the cal command.
func CalCmd(a *app) *Command {
	fs := flag.NewFlagSet("cal", flag.ContinueOnError)
	fs.StringP("month", "m", "", "Month as YYYY-MM [default: current]")
	fs.Int("next", 0, "Show the month N months after --month")
	fs.Int("prev", 0, "Show the month N months before --month")

	return &Command{
		Flags: fs,
		Usage: "cal [flags]",
		Short: "Show a month calendar with tasks",
		Long:  "Show a six-week calendar grid for a month, with each day's tasks.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execCal(o, a, fs)
		},
	}
}

func execCal(o *IO, a *app, fs *flag.FlagSet) error {
	cursor, err := monthFlag(fs, a)
	if err != nil {
		return err
	}

	next, _ := fs.GetInt("next")
	prev, _ := fs.GetInt("prev")
	cursor = cursor.Move(next - prev)

	store, err := a.openStore()
	if err != nil {
		return err
	}

	o.Printf("%s", a.renderer().Calendar(view.BuildGrid(cursor, store, a.now())))

	return nil
}

// monthFlag returns --month, or the current month when unset.
func monthFlag(fs *flag.FlagSet, a *app) (view.Cursor, error) {
	month, _ := fs.GetString("month")
	if month == "" {
		return view.CursorFor(a.now()), nil
	}

	return view.ParseCursor(month)
}
