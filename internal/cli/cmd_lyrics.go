package cli

import (
	"context"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskcal/internal/lyrics"
)

// LyricsCmd returns the lyrics command.
func LyricsCmd(a *app) *Command {
	fs := flag.NewFlagSet("lyrics", flag.ContinueOnError)
	fs.String("mood", "", "Mood: "+strings.Join(lyrics.Moods(), "|"))
	fs.Bool("suno", false, "Print only the SUNO AI format")

	return &Command{
		Flags: fs,
		Usage: "lyrics <topic> [flags]",
		Short: "Write Korean song lyrics on a topic",
		Long: "Ask the configured Gemini model for Korean lyrics on a topic and print the lyrics, " +
			"a music style suggestion and a SUNO AI paste format. Needs an API key (tc key set).",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execLyrics(ctx, o, a, fs, args)
		},
	}
}

func execLyrics(ctx context.Context, o *IO, a *app, fs *flag.FlagSet, args []string) error {
	topic := strings.TrimSpace(strings.Join(args, " "))
	mood, _ := fs.GetString("mood")

	// Validate before touching storage or the network.
	_, err := lyrics.BuildPrompt(topic, mood)
	if err != nil {
		return err
	}

	storage, err := a.openStorage()
	if err != nil {
		return err
	}

	key, err := lyrics.NewKeyStore(storage).Load()
	if err != nil {
		return err
	}

	if key == "" {
		key = a.cfg.EnvAPIKey
	}

	if key == "" {
		return lyrics.ErrAPIKeyRequired
	}

	song, err := lyrics.Compose(ctx, a.newGenerator(key), topic, mood)
	if err != nil {
		return err
	}

	if sunoOnly, _ := fs.GetBool("suno"); sunoOnly {
		o.Println(song.Suno)

		return nil
	}

	o.Println(lyrics.LyricsMarker)
	o.Println(song.Lyrics)
	o.Println()
	o.Println(lyrics.StyleMarker)
	o.Println(song.Style)
	o.Println()
	o.Println(song.Suno)

	return nil
}
