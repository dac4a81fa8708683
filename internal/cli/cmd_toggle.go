package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskcal/internal/task"
)

// ToggleCmd returns the toggle command.
func ToggleCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("toggle", flag.ContinueOnError),
		Usage: "toggle <id>",
		Short: "Mark a task done, or not done again",
		Exec: func(_ context.Context, o *IO, args []string) error {
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

			err = warnIfNotSaved(o, store.ToggleComplete(id))
			if err != nil {
				return err
			}

			t, _ := store.Get(id)

			state := "open"
			if t.Completed {
				state = "done"
			}

			o.Println(task.ShortID(id), state)

			return nil
		},
	}
}
