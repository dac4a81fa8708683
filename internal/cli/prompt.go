package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// errAborted is returned by a prompt the user cancelled (Ctrl-C).
var errAborted = errors.New("aborted")

// lineReader reads one line of user input after showing a prompt.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// newLineReader uses liner when in is the terminal's stdin, and a plain
// buffered reader otherwise (pipes, tests).
func newLineReader(in io.Reader, out io.Writer, historyPath string) lineReader {
	if f, ok := in.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() {
		l := liner.NewLiner()
		l.SetCtrlCAborts(true)

		r := &linerReader{state: l, historyPath: historyPath}
		r.readHistory()

		return r
	}

	if in == nil {
		in = strings.NewReader("")
	}

	return &plainReader{in: bufio.NewReader(in), out: out}
}

type linerReader struct {
	state       *liner.State
	historyPath string
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", errAborted
	}

	return line, err
}

func (r *linerReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

func (r *linerReader) Close() error {
	r.writeHistory()

	return r.state.Close()
}

func (r *linerReader) readHistory() {
	if r.historyPath == "" {
		return
	}

	f, err := os.Open(r.historyPath)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = r.state.ReadHistory(f)
}

func (r *linerReader) writeHistory() {
	if r.historyPath == "" {
		return
	}

	f, err := os.OpenFile(r.historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = r.state.WriteHistory(f)
}

type plainReader struct {
	in  *bufio.Reader
	out io.Writer
}

func (r *plainReader) Prompt(prompt string) (string, error) {
	_, _ = fmt.Fprint(r.out, prompt)

	line, err := r.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (r *plainReader) AppendHistory(string) {}

func (r *plainReader) Close() error { return nil }

// confirmer answers yes/no questions through a lineReader. Anything but
// y/yes, including EOF and Ctrl-C, is a no.
type confirmer struct {
	lines lineReader
}

func (c confirmer) Confirm(prompt string) bool {
	answer, err := c.lines.Prompt(prompt + " (yes/no): ")
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}
