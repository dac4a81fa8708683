package cli

import (
	"context"
	"encoding/json"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskcal/internal/view"
)

// LsCmd returns the ls command.
func LsCmd(a *app) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.Bool("json", false, "Print JSON instead of text")

	return &Command{
		Flags: fs,
		Usage: "ls [--json]",
		Short: "List tasks by date",
		Long:  "List all tasks ordered by date, then creation time, with a relative date label.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execLs(o, a, fs)
		},
	}
}

type lsItem struct {
	ID        string    `json:"id"`
	ShortID   string    `json:"shortId"`
	Text      string    `json:"text"`
	Date      string    `json:"date"`
	Label     string    `json:"label"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

func execLs(o *IO, a *app, fs *flag.FlagSet) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}

	list := view.BuildList(store.All(), a.now(), a.locale(), nil)

	if asJSON, _ := fs.GetBool("json"); asJSON {
		items := make([]lsItem, 0, len(list.Items))

		for _, it := range list.Items {
			items = append(items, lsItem{
				ID:        string(it.Task.ID),
				ShortID:   it.ShortID,
				Text:      it.Task.Text,
				Date:      it.Task.Date,
				Label:     it.Label,
				Completed: it.Task.Completed,
				CreatedAt: it.Task.CreatedAt,
			})
		}

		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}

		o.Println(string(data))

		return nil
	}

	o.Printf("%s", a.renderer().List(list))

	return nil
}
