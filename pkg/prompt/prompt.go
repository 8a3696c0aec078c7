// Package prompt asks the user yes/no questions on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal reads answers line by line. When input is not interactive every
// question takes its default answer without reading.
type Terminal struct {
	reader      *bufio.Reader
	out         io.Writer
	interactive bool
}

// New returns a Terminal over in, interactive when in is a terminal.
func New(in *os.File, out io.Writer) *Terminal {
	return NewReader(in, out, term.IsTerminal(int(in.Fd())))
}

// NewReader returns a Terminal over an arbitrary reader.
func NewReader(in io.Reader, out io.Writer, interactive bool) *Terminal {
	return &Terminal{reader: bufio.NewReader(in), out: out, interactive: interactive}
}

// Confirm prompts for a yes/no answer. An empty line or end of input
// selects the default.
func (t *Terminal) Confirm(question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	if !t.interactive {
		fmt.Fprintf(t.out, "%s %s: %s\n", question, hint, answer(defaultYes))
		return defaultYes, nil
	}

	for {
		fmt.Fprintf(t.out, "%s %s: ", question, hint)
		line, err := t.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("prompt: read answer: %w", err)
		}

		switch strings.TrimSpace(strings.ToLower(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		case "":
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(t.out)
			}
			return defaultYes, nil
		default:
			if errors.Is(err, io.EOF) {
				return defaultYes, nil
			}
			fmt.Fprintln(t.out, "Please enter 'y' or 'n'.")
		}
	}
}

func answer(yes bool) string {
	if yes {
		return "yes"
	}
	return "no"
}

// Fixed answers every question the same way without asking.
type Fixed bool

// Confirm returns the fixed answer.
func (f Fixed) Confirm(string, bool) (bool, error) { return bool(f), nil }
