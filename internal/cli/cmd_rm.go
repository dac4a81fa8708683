package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskcal/internal/task"
	"github.com/calvinalkan/taskcal/internal/view"
)

// RmCmd returns the rm command.
func RmCmd(a *app) *Command {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	fs.BoolP("yes", "y", false, "Delete without asking")

	return &Command{
		Flags: fs,
		Usage: "rm <id> [-y]",
		Short: "Delete a task after confirmation",
		Long:  "Delete a task permanently. Asks for confirmation unless -y is given; anything but yes keeps the task.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execRm(o, a, fs, args)
		},
	}
}

func execRm(o *IO, a *app, fs *flag.FlagSet, args []string) error {
	ref, err := singleArg(args)
	if err != nil {
		return err
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}

	id, err := store.Resolve(ref)
	if err != nil {
		return err
	}

	var confirm view.Confirmer = view.ConfirmFunc(func(string) bool { return true })

	if yes, _ := fs.GetBool("yes"); !yes {
		lines := newLineReader(a.in, a.errOut, "")
		defer lines.Close()

		confirm = confirmer{lines: lines}
	}

	t, _ := store.Get(id)
	if !confirm.Confirm(fmt.Sprintf("Delete %q?", t.Text)) {
		o.Println("kept", task.ShortID(id))

		return nil
	}

	err = warnIfNotSaved(o, store.Delete(id))
	if err != nil {
		return err
	}

	o.Println("deleted", task.ShortID(id))

	return nil
}
