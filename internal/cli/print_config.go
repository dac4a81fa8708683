package cli

import (
	"context"
	"encoding/json"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/taskcal/internal/config"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execPrintConfig(o, cfg)
		},
	}
}

func execPrintConfig(o *IO, cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	o.Println(string(data))
	o.Println()
	o.Println("# Resolved:")
	o.Println("#   cwd:     ", cfg.EffectiveCwd)
	o.Println("#   data dir:", cfg.DataDirAbs)
	o.Println()
	o.Println("# Sources:")

	if cfg.Sources.Global != "" {
		o.Println("#   global: ", cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		o.Println("#   project:", cfg.Sources.Project)
	}

	if cfg.Sources.DotEnv != "" {
		o.Println("#   dotenv: ", cfg.Sources.DotEnv)
	}

	if len(cfg.Sources.Env) > 0 {
		o.Println("#   env:    ", strings.Join(cfg.Sources.Env, ", "))
	}

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" && cfg.Sources.DotEnv == "" && len(cfg.Sources.Env) == 0 {
		o.Println("#   (using defaults only)")
	}

	return nil
}
