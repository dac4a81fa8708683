package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskcal/internal/export"
	"github.com/calvinalkan/taskcal/internal/fs"
)

const exportFilePerms = 0o644

// ExportCmd returns the export command.
func ExportCmd(a *app) *Command {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	flags.StringP("format", "f", export.FormatJSON, "Format: json|yaml|ics|pdf")
	flags.StringP("output", "o", "", "Write to `file` instead of stdout")
	flags.StringP("month", "m", "", "Only tasks in month YYYY-MM (pdf: month to draw)")

	return &Command{
		Flags: flags,
		Usage: "export [flags]",
		Short: "Export tasks as JSON, YAML, iCalendar or PDF",
		Long:  "Export tasks in list order. PDF draws one month sheet and needs -o.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execExport(o, a, flags)
		},
	}
}

func execExport(o *IO, a *app, flags *flag.FlagSet) error {
	format, _ := flags.GetString("format")
	format = export.Normalize(format)
	output, _ := flags.GetString("output")

	opts := export.Options{Now: a.now()}

	if flags.Changed("month") {
		m, err := monthFlag(flags, a)
		if err != nil {
			return err
		}

		opts.Month = &m
	}

	if format == export.FormatPDF && output == "" {
		return errPDFNeedsOutput
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	err = export.Write(&buf, format, store.All(), opts)
	if err != nil {
		return err
	}

	if output == "" {
		o.Printf("%s", buf.String())

		return nil
	}

	if !filepath.IsAbs(output) {
		output = filepath.Join(a.cfg.EffectiveCwd, output)
	}

	err = fs.NewReal().WriteFileAtomic(output, buf.Bytes(), exportFilePerms)
	if err != nil {
		return err
	}

	o.Println("wrote", output)

	return nil
}

var errPDFNeedsOutput = errors.New("pdf export needs -o <file>")
