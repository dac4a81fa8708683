package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/calvinalkan/taskcal/internal/cli"
)

func Test_No_Command_Prints_Usage(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun()

	cli.AssertContains(t, stdout, "Usage: tc")
	cli.AssertContains(t, stdout, "Global flags:")

	for _, cmd := range []string{"add", "edit", "toggle", "rm", "ls", "cal", "export", "shell", "key", "lyrics", "print-config"} {
		cli.AssertContains(t, stdout, "  "+cmd)
	}
}

func Test_Unknown_Command_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("frobnicate")

	cli.AssertContains(t, stderr, "unknown command: frobnicate")
}

func Test_Invalid_Global_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--invalid-flag", "ls")

	cli.AssertContains(t, stderr, "unknown flag")
	cli.AssertContains(t, stderr, "--invalid-flag")
	cli.AssertContains(t, stderr, "Global flags:")
	cli.AssertContains(t, stderr, "--cwd")
	cli.AssertContains(t, stderr, "--data-dir")
}

func Test_Empty_Data_Dir_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--data-dir=", "ls")

	cli.AssertContains(t, stderr, "data_dir cannot be empty")
}

func Test_Command_Help_Shows_Flags(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("add", "--help")

	cli.AssertContains(t, stdout, "Usage: tc add <text> [flags]")
	cli.AssertContains(t, stdout, "--date")
}

func Test_Command_Bad_Flag_Shows_Usage_On_Stderr(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("ls", "--bogus")

	cli.AssertContains(t, stderr, "unknown flag: --bogus")
	cli.AssertContains(t, stderr, "Usage: tc ls")
}

func Test_Print_Config_Defaults_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, `"data_dir": ".taskcal"`)
	cli.AssertContains(t, stdout, `"backend": "file"`)
	cli.AssertContains(t, stdout, "#   data dir: "+filepath.Join(c.Dir, ".taskcal"))
	cli.AssertContains(t, stdout, "(using defaults only)")
}

func Test_Print_Config_Project_File_With_Comments(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".tc.json", `{
		// stored next to the repo
		"data_dir": "tasks",
		"locale": "ko",
	}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "#   data dir: "+filepath.Join(c.Dir, "tasks"))
	cli.AssertContains(t, stdout, `"locale": "ko"`)
	cli.AssertContains(t, stdout, "#   project: "+filepath.Join(c.Dir, ".tc.json"))
}

func Test_Print_Config_Explicit_Config_Not_Found(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("-c", "nonexistent.json", "print-config")

	cli.AssertContains(t, stderr, "config file not found")
}

func Test_Print_Config_Backend_Override(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("--backend", "sqlite", "print-config")

	cli.AssertContains(t, stdout, `"backend": "sqlite"`)

	stderr := c.MustFail("--backend", "redis", "print-config")
	cli.AssertContains(t, stderr, "unknown storage backend")
}
