package cli

import (
	"context"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskcal/internal/task"
)

// AddCmd returns the add command.
func AddCmd(a *app) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringP("date", "d", "today", "Date as YYYY-MM-DD, today or tomorrow")

	return &Command{
		Flags: fs,
		Usage: "add <text> [flags]",
		Short: "Add a task, prints its ID",
		Long:  "Add a task. Words after the flags are joined into its text. Prints the short ID.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execAdd(o, a, fs, args)
		},
	}
}

func execAdd(o *IO, a *app, fs *flag.FlagSet, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return errTextRequired
	}

	date, _ := fs.GetString("date")

	store, err := a.openStore()
	if err != nil {
		return err
	}

	id, err := store.Add(text, resolveDate(date, a.now()))
	if err = warnIfNotSaved(o, err); err != nil {
		return err
	}

	o.Println(task.ShortID(id))

	return nil
}
