package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// lineReader is the part of *readline.Instance the REPL uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// scannerLines is a lineReader over a plain stream, used when stdin is not a
// terminal and in tests.
type scannerLines struct {
	sc     *bufio.Scanner
	out    io.Writer
	prompt string
}

func newScannerLines(r io.Reader, out io.Writer) *scannerLines {
	return &scannerLines{sc: bufio.NewScanner(r), out: out}
}

func (s *scannerLines) SetPrompt(prompt string) { s.prompt = prompt }

func (s *scannerLines) Readline() (string, error) {
	if s.prompt != "" {
		fmt.Fprint(s.out, s.prompt)
	}
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.sc.Text(), nil
}

// GetSimpleText shows prompt and reads a single trimmed line.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(lines lineReader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintln(w, prompt); err != nil {
		return "", err
	}
	lines.SetPrompt("> ")
	line, err := lines.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline prints a prompt to w and reads lines until an empty line is
// entered (i.e., the user presses Enter twice). The collected text is joined
// with '\n'.
func GetMultiline(lines lineReader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}
	lines.SetPrompt("")

	var collected []string
	for {
		line, err := lines.Readline()
		line = strings.TrimRight(line, "\r\n")
		if err != nil || line == "" {
			break
		}
		collected = append(collected, line)
	}

	return strings.TrimSpace(strings.Join(collected, "\n")), nil
}
