package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errInputClosed = errors.New("input closed before the answer was given")

// prompter reads line-oriented answers from the terminal.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// required re-asks until a non-empty answer is given.
func (p *prompter) required(label string) (string, error) {
	for {
		v, err := p.line(label)
		if err != nil || v != "" {
			return v, err
		}
	}
}

func (p *prompter) confirm(label string) (bool, error) {
	v, err := p.line(label + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// choice reads an option as a letter (a, b, ...) or a 1-based number and
// returns its 0-based index.
func (p *prompter) choice(label string, n int) (int, error) {
	for {
		v, err := p.line(label)
		if err != nil {
			return 0, err
		}
		if i, ok := parseChoice(v, n); ok {
			return i, nil
		}
		fmt.Fprintf(p.out, "Enter %s or 1-%d.\n", optionRange(n), n)
	}
}

func parseChoice(v string, n int) (int, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if len(v) == 1 && v[0] >= 'a' && int(v[0]-'a') < n {
		return int(v[0] - 'a'), true
	}
	if i, err := strconv.Atoi(v); err == nil && i >= 1 && i <= n {
		return i - 1, true
	}
	return 0, false
}

func optionLetter(i int) string {
	return string(rune('A' + i))
}

func optionRange(n int) string {
	return "A-" + optionLetter(n-1)
}
