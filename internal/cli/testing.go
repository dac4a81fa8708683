package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/taskcal/internal/task"
)

// CLI provides a clean interface for running CLI commands in tests.
// It manages a temp directory and environment variables.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI with a temp directory. The global config
// directory points into the temp dir so the user's config never leaks in.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	dir := t.TempDir()

	return &CLI{
		t:   t,
		Dir: dir,
		Env: map[string]string{"XDG_CONFIG_HOME": filepath.Join(dir, ".xdg")},
	}
}

// Run executes the CLI with the given args and returns stdout, stderr, and exit code.
// Args should not include "tc" or "--cwd" - those are added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	return r.RunWithInput("", args...)
}

// RunWithInput executes the CLI with stdin and returns stdout, stderr, and exit code.
func (r *CLI) RunWithInput(stdin string, args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"tc", "--cwd", r.Dir}, args...)
	code := Run(strings.NewReader(stdin), &outBuf, &errBuf, fullArgs, r.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Also fails if stdout is not empty. Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	if stdout != "" {
		r.t.Fatalf("command %v failed but stdout should be empty\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// DataDir returns the path to the default .taskcal directory.
func (r *CLI) DataDir() string {
	return filepath.Join(r.Dir, ".taskcal")
}

// StoredTasks decodes the tasks the file backend persisted.
func (r *CLI) StoredTasks() []task.Task {
	r.t.Helper()

	data, err := os.ReadFile(filepath.Join(r.DataDir(), task.StorageKey))
	if err != nil {
		r.t.Fatalf("failed to read stored tasks: %v", err)
	}

	tasks, err := task.Decode(data)
	if err != nil {
		r.t.Fatalf("failed to decode stored tasks: %v", err)
	}

	return tasks
}

// WriteStored writes raw content under a storage key of the file backend.
func (r *CLI) WriteStored(key, content string) {
	r.t.Helper()

	err := os.MkdirAll(r.DataDir(), 0o750)
	if err == nil {
		err = os.WriteFile(filepath.Join(r.DataDir(), key), []byte(content), 0o600)
	}

	if err != nil {
		r.t.Fatalf("failed to write %s: %v", key, err)
	}
}

// WriteFile writes content to a file relative to the CLI directory.
func (r *CLI) WriteFile(name, content string) {
	r.t.Helper()

	err := os.WriteFile(filepath.Join(r.Dir, name), []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("failed to write %s: %v", name, err)
	}
}

// DecodeJSON unmarshals stdout into v.
func (r *CLI) DecodeJSON(stdout string, v any) {
	r.t.Helper()

	err := json.Unmarshal([]byte(stdout), v)
	if err != nil {
		r.t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
