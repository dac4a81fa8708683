package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/taskcal/internal/cli"
	"github.com/calvinalkan/taskcal/internal/task"
)

func Test_Export_JSON_To_Stdout(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("add", "later", "-d", "2024-06-01")
	c.MustRun("add", "sooner", "-d", "2024-05-01")

	tasks, err := task.Decode([]byte(c.MustRun("export")))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(tasks) != 2 || tasks[0].Text != "sooner" || tasks[1].Text != "later" {
		t.Fatalf("tasks=%+v", tasks)
	}
}

func Test_Export_Month_Filter_YAML(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("add", "in june", "-d", "2024-06-01")
	c.MustRun("add", "in may", "-d", "2024-05-01")

	stdout := c.MustRun("export", "-f", "yaml", "--month", "2024-06")

	cli.AssertContains(t, stdout, "text: in june")
	cli.AssertNotContains(t, stdout, "in may")
}

func Test_Export_ICS_To_File(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("add", "party", "-d", "2024-05-04")

	stdout := c.MustRun("export", "--format", "ics", "-o", "tasks.ics")

	path := filepath.Join(c.Dir, "tasks.ics")
	if got, want := stdout, "wrote "+path; got != want {
		t.Fatalf("stdout=%q, want=%q", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	cli.AssertContains(t, string(data), "SUMMARY:party\r\n")
	cli.AssertContains(t, string(data), "DTSTART;VALUE=DATE:20240504\r\n")
}

func Test_Export_PDF_Requires_Output(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("add", "x", "-d", "2024-05-04")

	cli.AssertContains(t, c.MustFail("export", "-f", "pdf"), "needs -o")
	cli.AssertContains(t, c.MustFail("export", "-f", "PDF"), "needs -o")

	c.MustRun("export", "-f", "pdf", "-m", "2024-05", "-o", "may.pdf")

	data, err := os.ReadFile(filepath.Join(c.Dir, "may.pdf"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("not a pdf: %q", data[:min(len(data), 8)])
	}
}

func Test_Export_Unknown_Format(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("export", "-f", "xml")

	cli.AssertContains(t, stderr, "unknown export format")
	cli.AssertContains(t, stderr, strings.Join([]string{"json", "yaml", "ics", "pdf"}, ", "))
}
