package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskcal/internal/config"
)

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("tc", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	flagHelp := globals.BoolP("help", "h", false, "Show help")
	flagCwd := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	flagConfig := globals.StringP("config", "c", "", "Use specified config `file`")
	flagDataDir := globals.String("data-dir", "", "Override data `dir`ectory")
	flagBackend := globals.String("backend", "", "Override storage backend (file|sqlite)")

	if len(args) > 0 {
		args = args[1:]
	}

	err := globals.Parse(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printGlobalOptions(errOut, globals)

		return 1
	}

	loadInput := config.Input{
		WorkDirOverride: *flagCwd,
		ConfigPath:      *flagConfig,
		Env:             env,
	}

	if globals.Changed("data-dir") {
		loadInput.DataDirOverride = flagDataDir
	}

	if globals.Changed("backend") {
		loadInput.BackendOverride = flagBackend
	}

	cfg, err := config.Load(loadInput)
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printGlobalOptions(errOut, globals)

		return 1
	}

	a := newApp(&cfg, in, out, errOut)
	defer a.close()

	commands := allCommands(a)
	commandMap := make(map[string]*Command, len(commands))

	for _, cmd := range commands {
		commandMap[cmd.Name()] = cmd
	}

	rest := globals.Args()

	if *flagHelp || len(rest) == 0 {
		printUsage(out, globals, commands)

		return 0
	}

	cmd, ok := commandMap[rest[0]]
	if !ok {
		fprintln(errOut, "error: unknown command:", rest[0])
		fprintln(errOut)
		printUsage(errOut, globals, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(out, errOut), rest[1:])
}

func allCommands(a *app) []*Command {
	return []*Command{
		AddCmd(a),
		EditCmd(a),
		ToggleCmd(a),
		RmCmd(a),
		LsCmd(a),
		CalCmd(a),
		ExportCmd(a),
		ShellCmd(a),
		KeyCmd(a),
		LyricsCmd(a),
		PrintConfigCmd(a.cfg),
	}
}

var (
	errTextRequired = errors.New("text is required")
	errIDRequired   = errors.New("task id is required")
	errTooManyArgs  = errors.New("too many arguments")
)

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printGlobalOptions(w io.Writer, globals *flag.FlagSet) {
	fprintln(w, "Global flags:")
	_, _ = fmt.Fprint(w, globals.FlagUsages())
}

func printUsage(w io.Writer, globals *flag.FlagSet, commands []*Command) {
	fprintln(w, `tc - tasks on a calendar

Usage: tc [global flags] <command> [args]`)
	fprintln(w)
	printGlobalOptions(w, globals)
	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}

	fprintln(w)
	fprintln(w, `Run "tc <command> --help" for command flags.`)
}
