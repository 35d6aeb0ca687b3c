// Package prompt reads the master password without echoing it.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/bashhack/tltp/internal/errs"
	"github.com/bashhack/tltp/internal/secure"
)

// Variables to allow testing
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

const (
	secretPrompt  = "Master Password: "
	confirmPrompt = "Confirm Master Password: "
)

// SecretReader reads one secret after showing label.
type SecretReader interface {
	ReadSecret(label string) ([]byte, error)
}

// Terminal reads secrets from a file descriptor, with echo disabled when it
// is a terminal. Piped input is read one line at a time.
type Terminal struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// Ensure Terminal implements SecretReader interface
var _ SecretReader = (*Terminal)(nil)

// NewTerminal prompts on out and reads from in.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// ReadSecret implements SecretReader.
func (t *Terminal) ReadSecret(label string) ([]byte, error) {
	fmt.Fprint(t.out, label)

	fd := int(t.in.Fd())
	if isTerminal(fd) {
		secret, err := readPassword(fd)
		fmt.Fprintln(t.out) // Add a newline after the hidden input
		if err != nil {
			return nil, fmt.Errorf("failed to read secret: %w", err)
		}
		return secret, nil
	}

	if t.reader == nil {
		t.reader = bufio.NewReader(t.in)
	}
	line, err := t.reader.ReadBytes('\n')
	if err != nil && (err != io.EOF || len(line) == 0) {
		secure.Zero(line)
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	return secure.TrimNewline(line), nil
}

// ReadMaster reads the master password, and when confirm is set reads it a
// second time and requires both entries to match.
func ReadMaster(r SecretReader, confirm bool) ([]byte, error) {
	secret, err := r.ReadSecret(secretPrompt)
	if err != nil {
		return nil, err
	}
	if !confirm {
		return secret, nil
	}

	again, err := r.ReadSecret(confirmPrompt)
	if err != nil {
		secure.ZeroAll(secret, again)
		return nil, err
	}

	if !secure.Equal(secret, again) {
		secure.ZeroAll(secret, again)
		return nil, errs.Input("master passwords did not match")
	}
	secure.Zero(again)
	return secret, nil
}
