package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "tc" in help.
	// Examples: "add <text> [flags]", "rm <id> [-y]"
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-30s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "tc <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: tc", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")
		o.Printf("%s", c.Flags.FlagUsages())
	}
}

// Run parses flags and executes the command. Returns exit code.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	if c.Flags == nil {
		c.Flags = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	}

	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)

			return o.Finish()
		}

		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.printHelpTo(o)

		return 1
	}

	err = c.Exec(ctx, o, c.Flags.Args())
	if err != nil {
		code := o.Finish()
		o.ErrPrintln("error:", err)

		return max(code, 1)
	}

	return o.Finish()
}

// printHelpTo writes help to stderr, used after a usage error.
func (c *Command) printHelpTo(o *IO) {
	o.ErrPrintln("Usage: tc", c.Usage)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.ErrPrintln()
		o.ErrPrintln("Flags:")
		o.ErrPrintf("%s", c.Flags.FlagUsages())
	}
}
