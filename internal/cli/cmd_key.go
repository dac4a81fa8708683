package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskcal/internal/lyrics"
)

var errKeyUsage = errors.New("usage: tc key set <key> | key show | key clear")

// KeyCmd returns the key command.
func KeyCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("key", flag.ContinueOnError),
		Usage: "key set <key> | show | clear",
		Short: "Manage the Gemini API key for lyrics",
		Long: "Store, show (masked) or remove the Gemini API key used by the lyrics command. " +
			"The key is kept in the data directory next to the tasks.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execKey(o, a, args)
		},
	}
}

func execKey(o *IO, a *app, args []string) error {
	if len(args) == 0 {
		return errKeyUsage
	}

	storage, err := a.openStorage()
	if err != nil {
		return err
	}

	keys := lyrics.NewKeyStore(storage)

	switch {
	case args[0] == "set" && len(args) == 2:
		err = keys.Save(args[1])
		if err != nil {
			return err
		}

		o.Println("API key saved")
	case args[0] == "show" && len(args) == 1:
		key, err := keys.Load()
		if err != nil {
			return err
		}

		switch {
		case key != "":
			o.Println(lyrics.Mask(key))
		case a.cfg.EnvAPIKey != "":
			o.Println(lyrics.Mask(a.cfg.EnvAPIKey), "(from GEMINI_API_KEY)")
		default:
			o.Println("no API key set")
		}
	case args[0] == "clear" && len(args) == 1:
		err = keys.Clear()
		if err != nil {
			return err
		}

		o.Println("API key removed")
	default:
		return fmt.Errorf("%w (got %q)", errKeyUsage, args)
	}

	return nil
}
