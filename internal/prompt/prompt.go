// Package prompt implements the blocking user-prompt capability on a
// terminal: confirmation questions and one-line notifications.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Terminal prompts on out and reads answers from in. Confirm blocks
// until a line is read, mirroring the modal dialogs on the dashboard.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a prompter over the given streams.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm asks a yes/no question. Anything other than an explicit yes
// declines, including a read failure.
func (t *Terminal) Confirm(text string) bool {
	fmt.Fprintf(t.out, "%s [y/N]: ", text)

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Notify shows a one-line message to the user.
func (t *Terminal) Notify(text string) {
	fmt.Fprintln(t.out, text)
}
