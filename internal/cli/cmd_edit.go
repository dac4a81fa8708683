package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"
)

var errNothingToEdit = errors.New("nothing to change: pass --text and/or --date")

// EditCmd returns the edit command.
func EditCmd(a *app) *Command {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.StringP("text", "t", "", "New text")
	fs.StringP("date", "d", "", "New date as YYYY-MM-DD, today or tomorrow")

	return &Command{
		Flags: fs,
		Usage: "edit <id> [flags]",
		Short: "Change a task's text or date",
		Long:  "Change a task's text and/or date. Fields not given keep their value; completion and creation time never change.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execEdit(o, a, fs, args)
		},
	}
}

func execEdit(o *IO, a *app, fs *flag.FlagSet, args []string) error {
	ref, err := singleArg(args)
	if err != nil {
		return err
	}

	if !fs.Changed("text") && !fs.Changed("date") {
		return errNothingToEdit
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}

	id, err := store.Resolve(ref)
	if err != nil {
		return err
	}

	t, _ := store.Get(id)
	text, date := t.Text, t.Date

	if fs.Changed("text") {
		text, _ = fs.GetString("text")
	}

	if fs.Changed("date") {
		d, _ := fs.GetString("date")
		date = resolveDate(d, a.now())

		if d == "" {
			date = ""
		}
	}

	err = warnIfNotSaved(o, store.Update(id, text, date))
	if err != nil {
		return err
	}

	t, _ = store.Get(id)
	o.Println(describe(t))

	return nil
}

func singleArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", errIDRequired
	case 1:
		return args[0], nil
	default:
		return "", errTooManyArgs
	}
}
